package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"nexus/internal/domain"
	"nexus/internal/port"
)

// HTTP pulls documents from a remote source exposing a paginated listing:
// GET {base}/documents?cursor=... returning {"documents": [...],
// "next_cursor": "..."}.
type HTTP struct {
	name    string
	baseURL string
	token   string
	client  *http.Client
}

type listResponse struct {
	Documents  []remoteDocument `json:"documents"`
	NextCursor string           `json:"next_cursor"`
}

type remoteDocument struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	LastModified time.Time `json:"last_modified"`
}

func NewHTTP(name, baseURL, token string) *HTTP {
	return &HTTP{
		name:    name,
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (h *HTTP) Name() string { return h.name }

// List fetches one page of documents starting at cursor.
func (h *HTTP) List(ctx context.Context, cursor string) ([]port.SourceDocument, string, error) {
	endpoint := h.baseURL + "/documents"
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: source returned status %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	var page listResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, "", fmt.Errorf("failed to parse response: %w", err)
	}

	docs := make([]port.SourceDocument, len(page.Documents))
	for i, d := range page.Documents {
		docs[i] = port.SourceDocument{
			ID:           d.ID,
			Title:        d.Title,
			Content:      d.Content,
			LastModified: d.LastModified,
		}
	}
	return docs, page.NextCursor, nil
}
