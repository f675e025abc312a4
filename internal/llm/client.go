// Package llm wraps the OpenRouter API. OpenRouter speaks the OpenAI
// chat-completions protocol, so the client is a go-openai client pointed
// at a custom base URL with OpenRouter's attribution headers attached.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/aldro61/PaperAtlas/internal/model"
)

// Request describes one model call.
type Request struct {
	// Model is the OpenRouter model identifier (e.g. "openai/gpt-5-mini").
	Model string

	// Prompt is the single user message.
	Prompt string

	// Temperature for the completion. Zero means the API default.
	Temperature float32

	// WebSearch requests OpenRouter's server-side web search by
	// appending the ":online" suffix to the model. How the search is
	// performed is opaque to callers; only the returned text matters.
	WebSearch bool

	// Timeout bounds this single attempt. Zero means no extra bound
	// beyond the caller's context.
	Timeout time.Duration
}

// Caller is the minimal surface enrichment workers depend on. Tests
// substitute fakes; production uses *Client.
type Caller interface {
	Call(ctx context.Context, req Request) (string, error)
}

// Client is a rate-limited OpenRouter client.
type Client struct {
	api     *openai.Client
	limiter *rate.Limiter
}

// headerTransport injects OpenRouter attribution headers into every
// request.
type headerTransport struct {
	base    http.RoundTripper
	referer string
	title   string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

// NewClient creates an OpenRouter client from configuration.
func NewClient(cfg model.OpenRouterConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenRouter API key is required (set OPENROUTER_API_KEY)")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &headerTransport{
			referer: cfg.HTTPReferer,
			title:   cfg.AppTitle,
		},
	}

	ratePerSec := cfg.RatePerSec
	if ratePerSec <= 0 {
		ratePerSec = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		api:     openai.NewClientWithConfig(clientConfig),
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}, nil
}

// Call performs a single chat completion and returns the trimmed
// response text. It blocks on the rate limiter before dispatching.
func (c *Client) Call(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	mdl := req.Model
	if req.WebSearch && !strings.HasSuffix(mdl, ":online") {
		mdl += ":online"
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: mdl,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("openrouter call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openrouter call: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ClassifyFailure maps a transport error to the enrichment failure
// taxonomy: deadline overruns are timeouts, everything else is a
// transport failure.
func ClassifyFailure(err error) model.FailureCause {
	if errors.Is(err, context.DeadlineExceeded) {
		return model.CauseTimeout
	}
	return model.CauseTransport
}
