// Package cli provides the command-line interface for Walnut.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/walnut-labs/walnut/internal/adapters/driven/embedding/ollama"
	"github.com/walnut-labs/walnut/internal/adapters/driven/embedding/openai"
	ledgerfile "github.com/walnut-labs/walnut/internal/adapters/driven/ledger/file"
	"github.com/walnut-labs/walnut/internal/adapters/driven/vectorstore/memory"
	"github.com/walnut-labs/walnut/internal/adapters/driven/vectorstore/sqlite"
	"github.com/walnut-labs/walnut/internal/chunker"
	"github.com/walnut-labs/walnut/internal/config"
	"github.com/walnut-labs/walnut/internal/core/ports/driven"
	"github.com/walnut-labs/walnut/internal/core/ports/driving"
	"github.com/walnut-labs/walnut/internal/core/services"
	"github.com/walnut-labs/walnut/internal/extract"
	"github.com/walnut-labs/walnut/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Shared services, wired in initServices before any command runs.
var (
	cfg             config.Config
	documentService driving.DocumentService
	searchService   driving.SearchService
	vectorStore     driven.VectorStore
	embedder        driven.EmbeddingService
)

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "walnut",
	Short: "Local document ingestion and semantic search",
	Long: `Walnut ingests documents (PDF, DOCX, PPTX, TXT, MD), splits them into
sentence-aware overlapping chunks, embeds each chunk, and serves
nearest-neighbour search over the result.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		if skipsWiring(cmd) {
			return nil
		}
		// Already wired, either by a previous run or by a test.
		if documentService != nil && searchService != nil {
			return nil
		}
		return initServices()
	},
}

// skipsWiring reports whether a command runs without backing services.
func skipsWiring(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion":
		return true
	}
	return false
}

// SetVersion overrides the reported version. Called from main.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.walnut/config.toml)")
}

// initServices loads the configuration and wires the adapters into the
// core services.
func initServices() error {
	path := flagConfig
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return err
		}
	}

	var err error
	cfg, err = config.Load(path)
	if err != nil {
		return err
	}
	logger.Debug("Config loaded from %s (data dir %s)", path, cfg.DataDir)

	embedder, err = buildEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}

	vectorStore, err = buildVectorStore(cfg)
	if err != nil {
		return err
	}

	ledger, err := ledgerfile.NewLedger(cfg.DataDir)
	if err != nil {
		return err
	}

	chk, err := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithOverlapSize(cfg.Chunking.OverlapSize),
	)
	if err != nil {
		return err
	}

	documentService, err = services.NewDocumentService(
		extract.Default(), chk, embedder, vectorStore, ledger)
	if err != nil {
		return err
	}
	searchService = services.NewSearchService(embedder, vectorStore, cfg.Search.K)
	return nil
}

func buildEmbedder(cfg config.Embedding) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL: cfg.OllamaURL,
			Model:   cfg.OllamaModel,
		}), nil
	case "openai":
		key := os.Getenv(cfg.OpenAIKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("environment variable %s is not set", cfg.OpenAIKeyEnv)
		}
		return openai.NewEmbeddingService(openai.Config{
			APIKey: key,
			Model:  cfg.OpenAIModel,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

func buildVectorStore(cfg config.Config) (driven.VectorStore, error) {
	switch cfg.Vector.Backend {
	case "sqlite":
		return sqlite.NewStore(cfg.DataDir)
	case "memory":
		return memory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unknown vector store backend %q", cfg.Vector.Backend)
	}
}

// requireServices guards commands that need the full wiring.
func requireServices() error {
	if documentService == nil || searchService == nil {
		return errors.New("services not configured")
	}
	return nil
}
