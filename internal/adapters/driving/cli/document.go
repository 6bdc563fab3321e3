package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc"},
	Short:   "Manage ingested documents",
	Long:    `List, inspect, or delete ingested documents and their chunks.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentInfoCmd = &cobra.Command{
	Use:   "info [doc-id]",
	Short: "Show document metadata",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentInfo,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Print a document's stored chunks in order",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentChunksJSON bool

func init() {
	documentChunksCmd.Flags().BoolVar(&documentChunksJSON, "json", false, "output chunks as JSON")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentInfoCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	docs := documentService.List(cmd.Context())
	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].DocumentID)
		cmd.Printf("    Name:       %s\n", docs[i].DocumentName)
		cmd.Printf("    Uploaded:   %s\n", docs[i].UploadDate.Format("2006-01-02 15:04:05"))
		cmd.Printf("    Chunks:     %d\n", docs[i].TotalChunks)
		cmd.Printf("    Characters: %d\n", docs[i].TotalCharacters)
		cmd.Println()
	}
	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentInfo(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	meta, err := documentService.GetInfo(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", meta.DocumentID)
	cmd.Printf("  Name:       %s\n", meta.DocumentName)
	cmd.Printf("  Type:       %s\n", meta.FileType)
	cmd.Printf("  Uploaded:   %s\n", meta.UploadDate.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Chunks:     %d\n", meta.TotalChunks)
	cmd.Printf("  Characters: %d\n", meta.TotalCharacters)
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	chunks, err := documentService.GetChunks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if documentChunksJSON {
		data, err := json.MarshalIndent(chunks, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chunks: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for i := range chunks {
		cmd.Printf("[%d/%d] %s (chars %d-%d", chunks[i].ChunkIndex+1, chunks[i].TotalChunks,
			chunks[i].ChunkID, chunks[i].StartChar, chunks[i].EndChar)
		if chunks[i].PageNumber > 0 {
			cmd.Printf(", page %d", chunks[i].PageNumber)
		}
		cmd.Println(")")
		cmd.Println(chunks[i].Text)
		cmd.Println()
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	result, err := documentService.Delete(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted %s (%d chunks removed).\n", result.DocumentID, result.ChunksDeleted)
	return nil
}
