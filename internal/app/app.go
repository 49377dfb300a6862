package app

import (
	"context"
	"fmt"

	"nexus/config"
	"nexus/internal/adapter/chunker"
	"nexus/internal/adapter/embedding"
	"nexus/internal/adapter/llm"
	"nexus/internal/adapter/reranker"
	"nexus/internal/adapter/search"
	"nexus/internal/adapter/store"
	"nexus/internal/logger"
	"nexus/internal/port"
	"nexus/internal/usecase"
)

// App wires the configured adapters and use cases together for the CLI.
type App struct {
	Config    *config.Config
	Store     port.CorpusStore
	Embedder  port.Embedder
	Engine    *search.Engine
	Ingestor  *usecase.Ingestor
	Retriever *usecase.Retriever
	Answerer  *usecase.Answerer
}

// New builds the application from configuration. The flat index is built
// eagerly when the corpus already holds chunks.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	var corpus port.CorpusStore
	if cfg.Storage.Path == "" {
		corpus = store.NewMemory()
	} else {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		bolt, err := store.NewBoltStore(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		corpus = bolt
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		corpus.Close()
		return nil, err
	}

	rr, err := reranker.FromOptions(reranker.Options{
		Enabled:   cfg.Reranker.Enabled,
		Provider:  cfg.Reranker.Provider,
		Model:     cfg.Reranker.Model,
		APIKeyEnv: cfg.Reranker.APIKeyEnv,
	})
	if err != nil {
		corpus.Close()
		return nil, err
	}

	ck, err := chunker.New(cfg.Chunking.MaxChars, cfg.Chunking.Overlap)
	if err != nil {
		corpus.Close()
		return nil, err
	}

	engine := search.NewEngine(corpus)
	if stats, err := corpus.Stats(ctx); err == nil && stats.Chunks > 0 {
		if err := engine.Rebuild(ctx); err != nil {
			logger.Warn("failed to build index, searches use exact scans: %v", err)
		}
	}

	var generator port.TextGenerator
	if cfg.LLM.Enabled {
		generator, err = llm.NewOpenAIGenerator(cfg.LLM.APIKeyEnv, cfg.LLM.Model)
		if err != nil {
			logger.Warn("answer generation unavailable: %v", err)
			generator = nil
		}
	}

	retriever := usecase.NewRetriever(embedder, engine, rr, cfg.Retrieve.Preselect)

	return &App{
		Config:    cfg,
		Store:     corpus,
		Embedder:  embedder,
		Engine:    engine,
		Ingestor:  usecase.NewIngestor(corpus, ck, embedder),
		Retriever: retriever,
		Answerer:  usecase.NewAnswerer(retriever, generator, cfg.Retrieve.TopK),
	}, nil
}

func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "hash":
		return embedding.NewHashEmbedder(), nil
	case "", "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BatchSize)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

// Close releases the corpus store.
func (a *App) Close() error {
	return a.Store.Close()
}
