// Package config loads the Walnut configuration from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultChunkSize    = 800
	DefaultOverlapSize  = 100
	DefaultSearchK      = 5
	DefaultVectorStore  = "sqlite"
	DefaultEmbedder     = "ollama"
	DefaultOllamaURL    = "http://localhost:11434"
	DefaultOllamaModel  = "nomic-embed-text"
	DefaultOpenAIModel  = "text-embedding-3-small"
	DefaultMCPHTTPAddr  = "localhost:8431"
	defaultConfigDirRel = ".walnut"
)

// Config is the application configuration.
type Config struct {
	// DataDir holds the ledger file and the sqlite vector store.
	DataDir string `toml:"data_dir"`

	Chunking  Chunking  `toml:"chunking"`
	Embedding Embedding `toml:"embedding"`
	Vector    Vector    `toml:"vector"`
	Search    Search    `toml:"search"`
}

// Chunking configures the chunker.
type Chunking struct {
	ChunkSize   int `toml:"chunk_size"`
	OverlapSize int `toml:"overlap_size"`
}

// Embedding selects and configures the embedding provider.
type Embedding struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	OllamaURL   string `toml:"ollama_url"`
	OllamaModel string `toml:"ollama_model"`

	OpenAIModel string `toml:"openai_model"`
	// OpenAIKeyEnv names the environment variable holding the API key.
	OpenAIKeyEnv string `toml:"openai_key_env"`
}

// Vector selects the vector store backend.
type Vector struct {
	// Backend is "sqlite" or "memory".
	Backend string `toml:"backend"`
}

// Search holds search defaults.
type Search struct {
	// K is the default number of neighbours to retrieve.
	K int `toml:"k"`
}

// DefaultPath returns the default config file location, ~/.walnut/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigDirRel, "config.toml"), nil
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	home, err := os.UserHomeDir()
	dataDir := defaultConfigDirRel
	if err == nil {
		dataDir = filepath.Join(home, defaultConfigDirRel, "data")
	}
	return Config{
		DataDir: dataDir,
		Chunking: Chunking{
			ChunkSize:   DefaultChunkSize,
			OverlapSize: DefaultOverlapSize,
		},
		Embedding: Embedding{
			Provider:     DefaultEmbedder,
			OllamaURL:    DefaultOllamaURL,
			OllamaModel:  DefaultOllamaModel,
			OpenAIModel:  DefaultOpenAIModel,
			OpenAIKeyEnv: "OPENAI_API_KEY",
		},
		Vector: Vector{Backend: DefaultVectorStore},
		Search: Search{K: DefaultSearchK},
	}
}

// Load reads the config file at path, filling unset fields with defaults.
// A missing file yields the defaults; an unreadable or malformed file is
// an error.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero-valued fields after unmarshalling a partial file.
func (c *Config) applyDefaults() {
	d := Defaults()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Chunking.ChunkSize == 0 {
		c.Chunking.ChunkSize = d.Chunking.ChunkSize
	}
	if c.Chunking.OverlapSize == 0 {
		c.Chunking.OverlapSize = d.Chunking.OverlapSize
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = d.Embedding.Provider
	}
	if c.Embedding.OllamaURL == "" {
		c.Embedding.OllamaURL = d.Embedding.OllamaURL
	}
	if c.Embedding.OllamaModel == "" {
		c.Embedding.OllamaModel = d.Embedding.OllamaModel
	}
	if c.Embedding.OpenAIModel == "" {
		c.Embedding.OpenAIModel = d.Embedding.OpenAIModel
	}
	if c.Embedding.OpenAIKeyEnv == "" {
		c.Embedding.OpenAIKeyEnv = d.Embedding.OpenAIKeyEnv
	}
	if c.Vector.Backend == "" {
		c.Vector.Backend = d.Vector.Backend
	}
	if c.Search.K == 0 {
		c.Search.K = d.Search.K
	}
}
