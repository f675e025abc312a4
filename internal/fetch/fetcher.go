// Package fetch retrieves paper landing pages for enrichment. A fetch
// passes through robots.txt gating, a per-domain rate limit, and the
// document cache before touching the network; the body is size-capped
// and reduced to visible text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/aldro61/PaperAtlas/internal/cache"
	"github.com/aldro61/PaperAtlas/internal/model"
)

// Fetcher downloads a document and returns its visible text. It
// implements the enrichment side's DocumentFetcher contract.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64

	robots *RobotsChecker
	cache  cache.Cache
	ttl    time.Duration

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewFetcher builds a fetcher from configuration. The cache may be nil
// to disable caching.
func NewFetcher(cfg model.FetchConfig, docCache cache.Cache, ttl time.Duration) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		cache:     docCache,
		ttl:       ttl,
		limiters:  make(map[string]*rate.Limiter),
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}
	return f
}

// FetchText returns the visible text of the document at rawURL,
// serving from the cache when possible.
func (f *Fetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	key := cache.Key(rawURL)
	if f.cache != nil {
		if data, found := f.cache.Get(key); found {
			return string(data), nil
		}
	}

	if f.robots != nil && !f.robots.Allowed(ctx, rawURL) {
		return "", fmt.Errorf("fetch %s: disallowed by robots.txt", rawURL)
	}

	if err := f.waitDomain(ctx, rawURL); err != nil {
		return "", err
	}

	body, contentType, err := f.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}

	text := string(body)
	if strings.Contains(contentType, "text/html") || looksLikeHTML(text) {
		text = VisibleText(text)
	}

	if f.cache != nil {
		_ = f.cache.Set(key, []byte(text), f.ttl)
	}
	return text, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// waitDomain applies the per-domain rate limit: one request per second
// with a small burst, so hammering a single publisher is impossible
// even at high worker counts.
func (f *Fetcher) waitDomain(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse URL: %w", err)
	}

	f.mu.Lock()
	limiter, ok := f.limiters[parsed.Host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(1), 3)
		f.limiters[parsed.Host] = limiter
	}
	f.mu.Unlock()

	return limiter.Wait(ctx)
}

func looksLikeHTML(s string) bool {
	head := strings.ToLower(s)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<html") || strings.Contains(head, "<!doctype html")
}
