package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// defaultSearchBaseURL is the DuckDuckGo HTML endpoint (no API key).
const defaultSearchBaseURL = "https://html.duckduckgo.com/html/"

// DuckDuckGo HTML results are in <a class="result__a" href="...">title</a>
// followed by a result__snippet anchor.
var (
	searchLinkRegex    = regexp.MustCompile(`<a[^>]*class="result__a"[^>]*href="([^"]+)"[^>]*>([^<]+)</a>`)
	searchSnippetRegex = regexp.MustCompile(`<a[^>]*class="result__snippet"[^>]*>([^<]+)</a>`)
)

// WebSearch performs general web searches.
type WebSearch struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewWebSearch creates a web search provider. baseURL falls back to
// DuckDuckGo HTML when empty.
func NewWebSearch(client *http.Client, baseURL, userAgent string) *WebSearch {
	if baseURL == "" {
		baseURL = defaultSearchBaseURL
	}
	return &WebSearch{client: client, baseURL: baseURL, userAgent: userAgent}
}

// Name implements Provider.
func (w *WebSearch) Name() string { return "websearch" }

// searchHit is one parsed search result.
type searchHit struct {
	Title   string
	URL     string
	Snippet string
}

// Lookup implements Provider. It searches the web for the query and
// condenses the top hits into one finding.
func (w *WebSearch) Lookup(ctx context.Context, query string, focus []string) (*Finding, error) {
	q := query
	if len(focus) > 0 {
		q = query + " " + strings.Join(focus, " ")
	}

	reqURL := fmt.Sprintf("%s?q=%s", w.baseURL, url.QueryEscape(q))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if w.userAgent != "" {
		req.Header.Set("User-Agent", w.userAgent)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("web search failed (HTTP %d)", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 500*1024))
	if err != nil {
		return nil, err
	}

	hits := parseSearchHits(string(body), 3)
	if len(hits) == 0 {
		return nil, fmt.Errorf("web search returned no results for %q", q)
	}

	var content strings.Builder
	for _, h := range hits {
		fmt.Fprintf(&content, "%s (%s): %s\n", h.Title, h.URL, h.Snippet)
	}

	top := hits[0]
	return &Finding{
		Provider:  w.Name(),
		Reference: fmt.Sprintf("Web search: %s (%s)", top.Title, top.URL),
		Title:     top.Title,
		Content:   content.String(),
	}, nil
}

// parseSearchHits extracts up to maxHits results from DuckDuckGo HTML.
func parseSearchHits(html string, maxHits int) []searchHit {
	var hits []searchHit

	linkMatches := searchLinkRegex.FindAllStringSubmatch(html, maxHits*2)
	snippetMatches := searchSnippetRegex.FindAllStringSubmatch(html, maxHits*2)

	for i, match := range linkMatches {
		if len(match) < 3 || len(hits) >= maxHits {
			break
		}

		rawURL := match[1]
		title := strings.TrimSpace(match[2])

		// DuckDuckGo wraps targets in redirect URLs; unwrap uddg=.
		if strings.Contains(rawURL, "uddg=") {
			if parsed, err := url.Parse(rawURL); err == nil {
				if uddg := parsed.Query().Get("uddg"); uddg != "" {
					rawURL = uddg
				}
			}
		}

		snippet := ""
		if i < len(snippetMatches) && len(snippetMatches[i]) > 1 {
			snippet = strings.TrimSpace(snippetMatches[i][1])
		}

		hits = append(hits, searchHit{Title: title, URL: rawURL, Snippet: snippet})
	}

	return hits
}
