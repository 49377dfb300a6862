package reranker

import (
	"fmt"
	"os"

	"nexus/internal/logger"
	"nexus/internal/port"
)

// Options selects and configures the optional reranking capability.
type Options struct {
	Enabled   bool
	Provider  string
	Model     string
	APIKeyEnv string
}

// FromOptions resolves the reranker capability once, at construction time.
// Disabled or unconfigurable rerankers yield (nil, nil): retrieval proceeds
// on similarity scores alone and the degradation is logged, never surfaced
// as an error.
func FromOptions(opts Options) (port.Reranker, error) {
	if !opts.Enabled {
		return nil, nil
	}

	switch opts.Provider {
	case "", "cohere":
		if opts.APIKeyEnv == "" || os.Getenv(opts.APIKeyEnv) == "" {
			logger.Warn("reranking enabled but no API key configured; continuing without reranker")
			return nil, nil
		}
		return NewCohereReranker(opts.APIKeyEnv, opts.Model)
	default:
		return nil, fmt.Errorf("unknown reranker provider: %s", opts.Provider)
	}
}
