package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed [texts...]",
	Short: "Embed raw texts into the vector store",
	Long: `Embeds the given texts and stores them under generated IDs, bypassing
the document lifecycle. The IDs are printed one per line and can be
removed later with "walnut unembed".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEmbed,
}

var unembedCmd = &cobra.Command{
	Use:   "unembed [ids...]",
	Short: "Remove embedded texts by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runUnembed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
	rootCmd.AddCommand(unembedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	ids, err := documentService.EmbedTexts(cmd.Context(), args, nil)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}

func runUnembed(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	if err := documentService.DeleteItems(cmd.Context(), args); err != nil {
		return fmt.Errorf("deletion failed: %w", err)
	}

	cmd.Printf("Removed %d items.\n", len(args))
	return nil
}
