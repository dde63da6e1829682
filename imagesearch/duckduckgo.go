// Package imagesearch resolves dish names to illustrative image URLs using
// DuckDuckGo's image search. Lookup is best-effort decoration: it never fails
// and always returns a URL, falling back to a fixed placeholder.
package imagesearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"kitchenagent"
)

// PlaceholderURL is returned whenever a lookup yields nothing.
const PlaceholderURL = "https://via.placeholder.com/300?text=Dish+Not+Found"

const (
	defaultBaseURL   = "https://duckduckgo.com"
	defaultCacheSize = 256
	defaultQPS       = 1
)

// vqd is an anti-bot token DuckDuckGo embeds in its search page; the image
// endpoint rejects queries without it.
var vqdPattern = regexp.MustCompile(`vqd=['"]?([\w-]+)['"]?`)

type Client struct {
	baseURL    string
	httpClient kitchenagent.HTTPClient
	cache      *lru.Cache[string, string]
	limiter    *rate.Limiter
}

type ClientOpts struct {
	BaseURL    string
	CacheSize  int
	QPS        float64
	HTTPClient kitchenagent.HTTPClient
}

func NewClient(opts ClientOpts) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.CacheSize == 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.QPS == 0 {
		opts.QPS = defaultQPS
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	cache, err := lru.New[string, string](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		cache:      cache,
		limiter:    rate.NewLimiter(rate.Limit(opts.QPS), 1),
	}, nil
}

// Lookup returns an image URL for the dish, scoped to dish photography. Any
// failure (transport, status, token, parse, zero results) yields the
// placeholder; callers can rely on the result always being non-empty.
func (c *Client) Lookup(ctx context.Context, dish string) string {
	query := dish + " recipe dish photography"

	if cached, ok := c.cache.Get(query); ok {
		return cached
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return PlaceholderURL
	}

	imageURL, err := c.search(ctx, query)
	if err != nil {
		slog.Warn("IMAGE_SEARCH: Lookup failed, using placeholder", "dish", dish, "error", err)
		return PlaceholderURL
	}

	c.cache.Add(query, imageURL)
	return imageURL
}

func (c *Client) search(ctx context.Context, query string) (string, error) {
	vqd, err := c.fetchVQD(ctx, query)
	if err != nil {
		return "", fmt.Errorf("fetch vqd token: %w", err)
	}

	params := url.Values{}
	params.Set("l", "us-en")
	params.Set("o", "json")
	params.Set("q", query)
	params.Set("vqd", vqd)
	params.Set("p", "1")

	body, err := c.get(ctx, c.baseURL+"/i.js?"+params.Encode())
	if err != nil {
		return "", err
	}

	var parsed struct {
		Results []struct {
			Image string `json:"image"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode results: %w", err)
	}
	if len(parsed.Results) == 0 || parsed.Results[0].Image == "" {
		return "", fmt.Errorf("no results for %q", query)
	}

	return parsed.Results[0].Image, nil
}

func (c *Client) fetchVQD(ctx context.Context, query string) (string, error) {
	body, err := c.get(ctx, c.baseURL+"/?q="+url.QueryEscape(query))
	if err != nil {
		return "", err
	}

	m := vqdPattern.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("vqd token not found in search page")
	}
	return string(m[1]), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; kitchenagent/0.1)")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %s", resp.Status, string(body))
	}
	return body, nil
}
