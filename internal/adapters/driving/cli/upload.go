package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

// timeRounding keeps printed durations readable.
const timeRounding = time.Millisecond

var uploadCmd = &cobra.Command{
	Use:   "upload [files...]",
	Short: "Ingest documents into the index",
	Long: `Extracts text from each file, splits it into overlapping chunks,
embeds the chunks, and stores them for search.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	var failed int
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
			failed++
			continue
		}

		result, err := documentService.Upload(cmd.Context(), filepath.Base(path), content)
		if err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
			failed++
			continue
		}

		cmd.Printf("  %s -> %s (%d chunks, %d chars, %s)\n",
			path, result.DocumentID, result.ChunksCreated,
			result.TotalCharacters, result.ProcessingTime.Round(timeRounding))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(args))
	}
	return nil
}
