package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Chunking.MaxChars != 1000 {
		t.Errorf("expected MaxChars=1000, got %d", cfg.Chunking.MaxChars)
	}
	if cfg.Chunking.Overlap != 200 {
		t.Errorf("expected Overlap=200, got %d", cfg.Chunking.Overlap)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Reranker.Enabled {
		t.Error("expected reranker disabled by default")
	}
	if cfg.Embedding.Provider != "openai" {
		t.Errorf("expected openai provider, got %s", cfg.Embedding.Provider)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nexus.yaml")

	content := `
chunking:
  max_chars: 500
  overlap: 50
retrieve:
  top_k: 10
reranker:
  enabled: true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Chunking.MaxChars != 500 {
		t.Errorf("expected MaxChars=500, got %d", cfg.Chunking.MaxChars)
	}
	if cfg.Chunking.Overlap != 50 {
		t.Errorf("expected Overlap=50, got %d", cfg.Chunking.Overlap)
	}
	if cfg.Retrieve.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Retrieve.TopK)
	}
	if !cfg.Reranker.Enabled {
		t.Error("expected reranker enabled")
	}
	// Unset sections keep their defaults.
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected default embedding model, got %s", cfg.Embedding.Model)
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nexus.yaml")

	content := `
embedding:
  provider: hash
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Embedding.Provider != "hash" {
		t.Errorf("expected hash provider, got %s", cfg.Embedding.Provider)
	}
}

func TestEnsureDataDir(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.Path = filepath.Join(tmpDir, "data", "corpus.db")

	if err := cfg.EnsureDataDir(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "data")); err != nil {
		t.Errorf("expected data dir to exist: %v", err)
	}
}
