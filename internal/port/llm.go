package port

import "context"

// TextGenerator phrases a human-readable answer from retrieved context.
// It is optional; callers degrade to a context-only response without it.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}
