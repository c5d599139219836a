// Package reddit is a thin client for Reddit's public (unauthenticated)
// search endpoint.
package reddit

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.reddit.com"

// Client performs Reddit public search queries.
type Client interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]Post, error)
}

// SearchOptions mirror the /search.json query parameters.
type SearchOptions struct {
	Sort        string // "new", "relevance", ...
	Timeframe   string // "hour", "day", "week", ...
	Limit       int
	IncludeNSFW bool
}

// Post is one search result. Permalink is site-relative; URL is the post's
// outbound link and is only a fallback when Permalink is empty.
type Post struct {
	Author    string `json:"author"`
	Title     string `json:"title"`
	Permalink string `json:"permalink"`
	URL       string `json:"url"`
}

// listing is the wire shape of a search response.
type listing struct {
	Data struct {
		Children []struct {
			Data Post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default endpoint (tests point it at a local server).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a Reddit search client. The endpoint is unauthenticated;
// a descriptive User-Agent is the polite-use contract, so it is a required
// argument rather than an option.
func NewClient(userAgent string, opts ...Option) Client {
	c := &httpClient{
		baseURL:   defaultBaseURL,
		userAgent: userAgent,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
		// Reddit allows ~1 req/s for anonymous clients.
		limiter: rate.NewLimiter(1, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string, opts SearchOptions) ([]Post, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "reddit: rate limit wait")
	}

	params := url.Values{}
	params.Set("q", query)
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	if opts.Timeframe != "" {
		params.Set("t", opts.Timeframe)
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.IncludeNSFW {
		params.Set("include_over_18", "on")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "reddit: create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "reddit: search %q", query)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "reddit: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("reddit: search %q: unexpected status %d", query, resp.StatusCode)
	}

	var result listing
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "reddit: unmarshal response")
	}

	posts := make([]Post, 0, len(result.Data.Children))
	for _, child := range result.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}
