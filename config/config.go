package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the retrieval pipeline.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Reranker  RerankerConfig  `yaml:"reranker"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	LLM       LLMConfig       `yaml:"llm"`
	Source    SourceConfig    `yaml:"source"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StorageConfig holds corpus storage configuration.
type StorageConfig struct {
	Path string `yaml:"path"` // BoltDB file; empty means in-memory
}

// ChunkingConfig holds document chunking configuration.
type ChunkingConfig struct {
	MaxChars int `yaml:"max_chars"`
	Overlap  int `yaml:"overlap"`
}

// EmbeddingConfig holds embedding configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "hash"
	Model     string `yaml:"model"`       // e.g., "text-embedding-3-small"
	APIKeyEnv string `yaml:"api_key_env"` // Environment variable for API key
	BatchSize int    `yaml:"batch_size"`
}

// RerankerConfig holds optional reranking configuration.
type RerankerConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Provider  string `yaml:"provider"` // "cohere"
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK      int `yaml:"top_k"`
	Preselect int `yaml:"preselect"` // candidate window before rerank (0 = auto)
}

// LLMConfig holds answer generation configuration.
type LLMConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// SourceConfig holds document source configuration.
type SourceConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	URL      string   `yaml:"url"`       // remote pull source base URL
	TokenEnv string   `yaml:"token_env"` // bearer token env var for the remote source
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path: filepath.Join(".nexus", "corpus.db"),
		},
		Chunking: ChunkingConfig{
			MaxChars: 1000,
			Overlap:  200,
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-3-small",
			APIKeyEnv: "OPENAI_API_KEY",
			BatchSize: 100,
		},
		Reranker: RerankerConfig{
			Enabled:   false, // Disabled by default (requires API key)
			Provider:  "cohere",
			Model:     "rerank-english-v3.0",
			APIKeyEnv: "COHERE_API_KEY",
		},
		Retrieve: RetrieveConfig{
			TopK: 5,
		},
		LLM: LLMConfig{
			Enabled:   false,
			Model:     "gpt-4o-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Source: SourceConfig{
			Includes: []string{"**/*.md", "**/*.txt"},
			Excludes: []string{"**/node_modules/**", "**/vendor/**", "**/.git/**"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for nexus.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "nexus.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".nexus", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EnsureDataDir ensures the directory holding the corpus database exists.
func (c *Config) EnsureDataDir() error {
	dir := filepath.Dir(c.Storage.Path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
