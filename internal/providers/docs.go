package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// defaultDocsBaseURL is the Context7 API root. Curated, LLM-optimized
// documentation — preferred over web scraping for developer docs.
const defaultDocsBaseURL = "https://context7.com/api/v2"

// Docs looks up curated library documentation.
type Docs struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewDocs creates a documentation provider. baseURL falls back to the
// Context7 API when empty.
func NewDocs(client *http.Client, baseURL, apiKey string) *Docs {
	if baseURL == "" {
		baseURL = defaultDocsBaseURL
	}
	return &Docs{client: client, baseURL: baseURL, apiKey: apiKey}
}

// Name implements Provider.
func (d *Docs) Name() string { return "docs" }

// docsSearchResult is one library entry from the search endpoint.
type docsSearchResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	TrustScore  float64 `json:"trustScore"`
}

type docsSearchResponse struct {
	Results []docsSearchResult `json:"results"`
}

// Lookup implements Provider. It searches the documentation index for
// the query (narrowed by focus topics) and returns the best match.
func (d *Docs) Lookup(ctx context.Context, query string, focus []string) (*Finding, error) {
	if d.apiKey == "" {
		return nil, fmt.Errorf("docs provider not configured: missing API key")
	}

	q := query
	if len(focus) > 0 {
		q = query + " " + strings.Join(focus, " ")
	}

	reqURL := fmt.Sprintf("%s/search?query=%s", d.baseURL, url.QueryEscape(q))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("docs search failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	var searchResp docsSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decoding docs response: %w", err)
	}
	if len(searchResp.Results) == 0 {
		return nil, fmt.Errorf("docs search returned no results for %q", q)
	}

	best := searchResp.Results[0]
	return &Finding{
		Provider:  d.Name(),
		Reference: fmt.Sprintf("Documentation: %s (%s)", best.Title, best.ID),
		Title:     best.Title,
		Content:   best.Description,
	}, nil
}
