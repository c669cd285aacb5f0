// Package wiki is the client for the MediaWiki HTTP API: ranked title
// search, page text fetch with disambiguation detection, thumbnail lookup,
// and related-title queries.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"wikibrief/internal/core"
	"wikibrief/internal/logger"
)

// DefaultAPIURL is the English Wikipedia API endpoint.
const DefaultAPIURL = "https://en.wikipedia.org/w/api.php"

// Page is a fetched article: its canonical title (after redirects) and
// the plain-text extract.
type Page struct {
	Title   string
	Extract string
}

// Client talks to a MediaWiki API endpoint. Safe for concurrent use;
// requests are spaced by the configured rate limit.
type Client struct {
	apiURL    string
	client    *http.Client
	userAgent string
	rateLimit time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRateLimit sets the minimum interval between requests.
func WithRateLimit(d time.Duration) Option {
	return func(c *Client) { c.rateLimit = d }
}

// NewClient creates a client for the given API endpoint. An empty apiURL
// selects the English Wikipedia endpoint.
func NewClient(apiURL string, opts ...Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	c := &Client{
		apiURL: apiURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: "wikibrief/1.0 (article lookup tool)",
		rateLimit: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to limit article titles matching the query, in the
// source's ranking order. An empty slice means no matches.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", limit))
	params.Set("srprop", "")

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, &core.SourceError{Op: "search", Err: err}
	}

	var resp struct {
		Query struct {
			Search []struct {
				Title string `json:"title"`
			} `json:"search"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &core.SourceError{Op: "search", Err: err}
	}

	titles := make([]string, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		titles = append(titles, hit.Title)
	}
	logger.Debug("wiki search completed", "query", query, "results", len(titles))
	return titles, nil
}

// Fetch retrieves the plain-text extract for a title. Redirects are
// followed; the returned Page carries the canonical post-redirect title.
// A missing page yields core.ErrNoResults. A disambiguation page yields
// *core.DisambiguationError with the option titles in page order.
func (c *Client) Fetch(ctx context.Context, title string) (*Page, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|pageprops")
	params.Set("ppprop", "disambiguation")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)

	body, err := c.get(ctx, params)
	if err != nil {
		return nil, &core.SourceError{Op: "fetch", Err: err}
	}

	var resp struct {
		Query struct {
			Pages []struct {
				Title     string `json:"title"`
				Missing   bool   `json:"missing"`
				Extract   string `json:"extract"`
				PageProps *struct {
					Disambiguation string `json:"disambiguation"`
				} `json:"pageprops"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &core.SourceError{Op: "fetch", Err: err}
	}
	if len(resp.Query.Pages) == 0 {
		return nil, core.ErrNoResults
	}

	page := resp.Query.Pages[0]
	if page.Missing {
		return nil, core.ErrNoResults
	}
	if page.PageProps != nil {
		options, err := c.disambiguationOptions(ctx, page.Title)
		if err != nil {
			logger.Warn("failed to list disambiguation options", "title", page.Title, "error", err.Error())
		}
		return nil, &core.DisambiguationError{Title: page.Title, Options: options}
	}

	return &Page{Title: page.Title, Extract: page.Extract}, nil
}

// Thumbnail returns the article's thumbnail URL, or "" when the article
// has none. HTTP and decoding failures also yield "" so the caller can
// substitute a placeholder; they are never propagated.
func (c *Client) Thumbnail(ctx context.Context, title string) string {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "pageimages|pageterms")
	params.Set("piprop", "thumbnail")
	params.Set("pithumbsize", "100")
	params.Set("pilicense", "any")
	params.Set("titles", title)

	body, err := c.get(ctx, params)
	if err != nil {
		logger.Debug("thumbnail fetch failed", "title", title, "error", err.Error())
		return ""
	}

	var resp struct {
		Query struct {
			Pages []struct {
				Thumbnail *struct {
					Source string `json:"source"`
				} `json:"thumbnail"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Debug("thumbnail decode failed", "title", title, "error", err.Error())
		return ""
	}
	if len(resp.Query.Pages) == 0 || resp.Query.Pages[0].Thumbnail == nil {
		return ""
	}
	return resp.Query.Pages[0].Thumbnail.Source
}

// Related returns up to max titles related to the given canonical title,
// excluding the title itself.
func (c *Client) Related(ctx context.Context, title string, max int) ([]string, error) {
	if max <= 0 {
		max = 5
	}
	// Ask for one extra so the self-hit can be dropped without shrinking
	// the result set.
	hits, err := c.Search(ctx, title, max+1)
	if err != nil {
		return nil, &core.SourceError{Op: "related", Err: err}
	}

	related := make([]string, 0, max)
	for _, hit := range hits {
		if hit == title {
			continue
		}
		related = append(related, hit)
		if len(related) == max {
			break
		}
	}
	return related, nil
}

// get performs a rate-limited GET against the API with the standard
// format parameters applied.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	c.throttle()

	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// throttle spaces requests by the configured rate limit.
func (c *Client) throttle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elapsed := time.Since(c.lastCall); elapsed < c.rateLimit {
		time.Sleep(c.rateLimit - elapsed)
	}
	c.lastCall = time.Now()
}
