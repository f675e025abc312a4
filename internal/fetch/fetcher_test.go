package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aldro61/PaperAtlas/internal/cache"
	"github.com/aldro61/PaperAtlas/internal/model"
)

func testFetchConfig() model.FetchConfig {
	return model.FetchConfig{
		UserAgent:    "PaperAtlas-test/0.1",
		Timeout:      5 * time.Second,
		MaxBodyBytes: 1 << 20,
	}
}

func TestFetchTextExtractsVisibleText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><script>var x = 1;</script><style>p{}</style></head>
<body><h1>A Great Paper</h1><p>The abstract goes here.</p></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(testFetchConfig(), nil, 0)
	text, err := f.FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if !strings.Contains(text, "A Great Paper") || !strings.Contains(text, "The abstract goes here.") {
		t.Errorf("visible text missing content: %q", text)
	}
	if strings.Contains(text, "var x") {
		t.Errorf("script content leaked into text: %q", text)
	}
}

func TestFetchTextCachesResult(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>cached page</p></body></html>"))
	}))
	defer srv.Close()

	f := NewFetcher(testFetchConfig(), cache.NewMemoryCache(time.Hour, time.Hour), time.Hour)
	for i := 0; i < 3; i++ {
		text, err := f.FetchText(context.Background(), srv.URL+"/paper")
		if err != nil {
			t.Fatalf("FetchText() attempt %d error = %v", i, err)
		}
		if !strings.Contains(text, "cached page") {
			t.Fatalf("unexpected text %q", text)
		}
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1 (cache miss only)", hits)
	}
}

func TestFetchTextRespectsRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>open access</p></body></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := testFetchConfig()
	cfg.RespectRobots = true
	f := NewFetcher(cfg, nil, 0)

	if _, err := f.FetchText(context.Background(), srv.URL+"/private/paper.html"); err == nil {
		t.Error("disallowed path should fail")
	}
	text, err := f.FetchText(context.Background(), srv.URL+"/public/paper.html")
	if err != nil {
		t.Fatalf("allowed path failed: %v", err)
	}
	if !strings.Contains(text, "open access") {
		t.Errorf("unexpected text %q", text)
	}
}

func TestFetchTextErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(testFetchConfig(), nil, 0)
	if _, err := f.FetchText(context.Background(), srv.URL); err == nil {
		t.Error("404 should surface an error")
	}
}

func TestFetchTextBodyCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("a", 1000)))
	}))
	defer srv.Close()

	cfg := testFetchConfig()
	cfg.MaxBodyBytes = 100
	f := NewFetcher(cfg, nil, 0)
	text, err := f.FetchText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if len(text) != 100 {
		t.Errorf("body length = %d, want capped at 100", len(text))
	}
}

func TestVisibleTextPlainFallback(t *testing.T) {
	got := VisibleText("<html><body><div>line one</div><div>line two</div></body></html>")
	if !strings.Contains(got, "line one") || !strings.Contains(got, "line two") {
		t.Errorf("VisibleText() = %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("block elements should separate lines: %q", got)
	}
}
