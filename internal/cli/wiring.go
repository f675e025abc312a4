package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/aldro61/PaperAtlas/internal/cache"
	"github.com/aldro61/PaperAtlas/internal/fetch"
	"github.com/aldro61/PaperAtlas/internal/llm"
	"github.com/aldro61/PaperAtlas/internal/model"
	"github.com/aldro61/PaperAtlas/internal/pipeline"
	"github.com/aldro61/PaperAtlas/internal/scrape"
)

// loadConfig assembles the effective configuration: built-in defaults,
// then the YAML config file, then environment overrides.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// PAPERATLAS_OPENROUTER_API_KEY wins, then the conventional name.
	if key := viper.GetString("openrouter_api_key"); key != "" {
		cfg.OpenRouter.APIKey = key
	}
	if cfg.OpenRouter.APIKey == "" {
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}

	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// newLogger builds the operational logger. Progress output goes through
// session logs; zap carries warnings and debug detail.
func newLogger(cfg *model.Config) *zap.SugaredLogger {
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if cfg.Output.Verbose {
		zapCfg = zap.NewDevelopmentConfig()
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}

// buildPipeline wires the collector, model client, and document fetcher.
// A missing API key is not fatal: the pipeline runs collection-only and
// skips enrichment with a warning.
func buildPipeline(cfg *model.Config, log *zap.SugaredLogger) *pipeline.Pipeline {
	collector := scrape.NewClient(cfg.ScholarInbox)

	var caller llm.Caller
	if client, err := llm.NewClient(cfg.OpenRouter); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; enrichment and synthesis will be skipped\n", err)
	} else {
		caller = client
	}

	var docCache cache.Cache
	if cfg.Cache.Enabled {
		dir := cfg.Cache.Dir
		if dir == "" {
			if home, err := os.UserHomeDir(); err == nil {
				dir = filepath.Join(home, ".paperatlas", "cache", "documents")
			}
		}
		if dir != "" {
			docCache = cache.NewLayeredCache(cfg.Cache.TTL, dir, cfg.Cache.TTL)
		}
	}
	if docCache == nil {
		docCache = cache.NewMemoryCache(cfg.Cache.TTL, 10*time.Minute)
	}
	fetcher := fetch.NewFetcher(cfg.Fetch, docCache, cfg.Cache.TTL)

	return pipeline.New(cfg, log, collector, caller, fetcher)
}
