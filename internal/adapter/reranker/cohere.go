package reranker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"nexus/internal/domain"
)

const defaultBaseURL = "https://api.cohere.ai"

// CohereReranker implements port.Reranker on Cohere's cross-encoder API.
type CohereReranker struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type cohereRerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	Model     string   `json:"model"`
}

type cohereRerankResponse struct {
	Results []cohereRerankResult `json:"results"`
}

type cohereRerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// NewCohereReranker reads the API key from the named environment variable.
func NewCohereReranker(apiKeyEnv, model string) (*CohereReranker, error) {
	apiKey := os.Getenv(apiKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key not found in environment variable %s", domain.ErrConfiguration, apiKeyEnv)
	}
	if model == "" {
		model = "rerank-english-v3.0"
	}

	return &CohereReranker{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Score returns one relevance score per candidate text, in input order.
// The API caps a request at 1000 documents; larger batches fail so the
// caller falls back to its pre-rerank ordering instead of silently
// truncating the tail.
func (r *CohereReranker) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	const maxDocs = 1000
	if len(texts) > maxDocs {
		return nil, fmt.Errorf("%w: %d candidates exceed the rerank limit of %d", domain.ErrInvalidArgument, len(texts), maxDocs)
	}

	reqBody := cohereRerankRequest{
		Query:     query,
		Documents: texts,
		Model:     r.model,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/v1/rerank", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API returned status %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	var rerankResp cohereRerankResponse
	if err := json.Unmarshal(body, &rerankResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// The API returns results sorted by relevance; map them back to the
	// input order so callers get a parallel score slice.
	scores := make([]float64, len(texts))
	seen := make([]bool, len(texts))
	for _, res := range rerankResp.Results {
		if res.Index < 0 || res.Index >= len(texts) {
			return nil, fmt.Errorf("rerank result index %d out of range", res.Index)
		}
		scores[res.Index] = res.RelevanceScore
		seen[res.Index] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("rerank response missing a score for candidate %d", i)
		}
	}
	return scores, nil
}

// ModelName returns the model name.
func (r *CohereReranker) ModelName() string {
	return r.model
}
