package model

import "time"

// Config holds the complete PaperAtlas configuration.
type Config struct {
	Thresholds   ThresholdConfig    `yaml:"thresholds"`
	Enrichment   EnrichmentConfig   `yaml:"enrichment"`
	OpenRouter   OpenRouterConfig   `yaml:"openrouter"`
	Models       ModelSelection     `yaml:"models"`
	ScholarInbox ScholarInboxConfig `yaml:"scholar_inbox"`
	Fetch        FetchConfig        `yaml:"fetch"`
	Cache        CacheConfig        `yaml:"cache"`
	Server       ServerConfig       `yaml:"server"`
	Output       OutputConfig       `yaml:"output"`
}

// ThresholdConfig controls relevance cutoffs on the 0-100 scale.
type ThresholdConfig struct {
	// HighlyRelevant selects which papers count toward author candidacy.
	HighlyRelevant float64 `yaml:"highly_relevant"`
	// LowRelevance is the cleaning cutoff: papers scoring at or below it
	// are never persisted.
	LowRelevance float64 `yaml:"low_relevance"`
}

// EnrichmentConfig controls the parallel enrichment stages.
type EnrichmentConfig struct {
	AuthorWorkers    int `yaml:"author_workers"`
	PaperWorkers     int `yaml:"paper_workers"`
	AuthorCheckpoint int `yaml:"author_checkpoint"` // save every N author completions
	PaperCheckpoint  int `yaml:"paper_checkpoint"`  // save every N paper completions

	// Per-call timeouts. A failed attempt is retried once with the
	// timeout grown by TimeoutGrowth.
	AuthorTimeout time.Duration `yaml:"author_timeout"`
	PaperTimeout  time.Duration `yaml:"paper_timeout"`
	Attempts      int           `yaml:"attempts"`
	TimeoutGrowth float64       `yaml:"timeout_growth"`
}

// OpenRouterConfig holds OpenRouter API settings. OpenRouter exposes an
// OpenAI-compatible API, so the client is configured with a base URL and
// attribution headers.
type OpenRouterConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	HTTPReferer string  `yaml:"http_referer"`
	AppTitle    string  `yaml:"app_title"`
	RatePerSec  float64 `yaml:"rate_per_sec"` // outbound call rate limit
	RateBurst   int     `yaml:"rate_burst"`
}

// ModelSelection names the model used for each enrichment role.
type ModelSelection struct {
	Author    string `yaml:"author"`
	Paper     string `yaml:"paper"`
	Synthesis string `yaml:"synthesis"`
}

// ScholarInboxConfig configures the recommendation-service collaborator.
type ScholarInboxConfig struct {
	APIBase        string        `yaml:"api_base"`
	Timeout        time.Duration `yaml:"timeout"`
	SessionWorkers int           `yaml:"session_workers"` // concurrent per-session poster fetches
}

// FetchConfig configures the paper-document fetcher.
type FetchConfig struct {
	UserAgent        string        `yaml:"user_agent"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxBodyBytes     int64         `yaml:"max_body_bytes"`
	MaxDocumentChars int           `yaml:"max_document_chars"`
	RespectRobots    bool          `yaml:"respect_robots"`
}

// CacheConfig configures document caching between enrichment attempts.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// ServerConfig configures the progress API server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// OutputConfig controls artifact placement and verbosity.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Verbose bool   `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults. The relevance thresholds and
// worker counts mirror the values the pipeline was tuned with.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			HighlyRelevant: 85,
			LowRelevance:   50,
		},
		Enrichment: EnrichmentConfig{
			AuthorWorkers:    30,
			PaperWorkers:     10,
			AuthorCheckpoint: 3,
			PaperCheckpoint:  10,
			AuthorTimeout:    30 * time.Second,
			PaperTimeout:     2 * time.Minute,
			Attempts:         2,
			TimeoutGrowth:    1.5,
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:     "https://openrouter.ai/api/v1",
			HTTPReferer: "https://github.com/aldro61/PaperAtlas",
			AppTitle:    "PaperAtlas",
			RatePerSec:  10,
			RateBurst:   20,
		},
		Models: ModelSelection{
			Author:    "openai/gpt-5-mini",
			Paper:     "google/gemini-2.5-flash",
			Synthesis: "anthropic/claude-sonnet-4.5",
		},
		ScholarInbox: ScholarInboxConfig{
			APIBase:        "https://api.scholar-inbox.com/api",
			Timeout:        30 * time.Second,
			SessionWorkers: 4,
		},
		Fetch: FetchConfig{
			UserAgent:        "PaperAtlas/0.1 (+https://github.com/aldro61/PaperAtlas)",
			Timeout:          30 * time.Second,
			MaxBodyBytes:     2_000_000,
			MaxDocumentChars: 1_000_000,
			RespectRobots:    true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     24 * time.Hour,
		},
		Server: ServerConfig{
			Port: 5001,
		},
		Output: OutputConfig{
			Dir:     ".",
			Verbose: false,
		},
	}
}
