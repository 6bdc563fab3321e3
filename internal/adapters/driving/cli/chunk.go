package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var chunkJSON bool

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Preview how a document would be chunked",
	Long: `Extracts and chunks a document without embedding or storing anything.
Useful for tuning chunk_size and overlap_size.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "output chunks as JSON")
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	chunks, err := documentService.Preview(cmd.Context(), filepath.Base(args[0]), content)
	if err != nil {
		return fmt.Errorf("chunking failed: %w", err)
	}

	if chunkJSON {
		data, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chunks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for i := range chunks {
		cmd.Printf("[%d/%d] chars %d-%d", chunks[i].Index+1, chunks[i].TotalChunks,
			chunks[i].StartChar, chunks[i].EndChar)
		if chunks[i].PageNumber > 0 {
			cmd.Printf(", page %d", chunks[i].PageNumber)
		}
		cmd.Println()
		cmd.Println(chunks[i].Text)
		cmd.Println()
	}
	cmd.Printf("Total: %d chunks (chunk_size=%d, overlap_size=%d)\n",
		len(chunks), cfg.Chunking.ChunkSize, cfg.Chunking.OverlapSize)
	return nil
}
