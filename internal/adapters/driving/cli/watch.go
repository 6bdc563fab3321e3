package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/walnut-labs/walnut/internal/adapters/driving/watcher"
	"github.com/walnut-labs/walnut/internal/extract"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Ingest documents dropped into a directory",
	Long: `Watches a directory and uploads supported files as they are created
or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"quiet period before a changed file is ingested")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(documentService, extract.Default(), watchDebounce)
	cmd.Printf("Watching %s (ctrl-c to stop)\n", args[0])

	err := w.Run(ctx, args[0])
	if ctx.Err() != nil {
		cmd.Println("Stopped.")
		return nil
	}
	return err
}
