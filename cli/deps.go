package cli

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/quotecard/cache"
	"github.com/ByLCY/quotecard/suggest"
	"github.com/ByLCY/quotecard/template"
)

// loadRegistry returns the built-in templates merged with the user template
// file, if any. path overrides the configured file.
func loadRegistry(cfg *Config, path string, logger *log.Logger) (*template.Registry, error) {
	reg := template.Default()
	if path == "" {
		path = cfg.TemplatesFile
	}
	if path == "" {
		return reg, nil
	}
	if err := reg.LoadFile(path); err != nil {
		return nil, err
	}
	logger.Debug("loaded user templates", "file", path, "total", len(reg.Names()))
	return reg, nil
}

// openCache 根据配置选择 Redis、文件或空缓存。
func openCache(ctx context.Context, cfg *Config, logger *log.Logger) (cache.Cache, error) {
	switch {
	case cfg.Cache.Disabled:
		return cache.NewNullCache(), nil
	case cfg.Cache.RedisAddr != "":
		logger.Debug("using redis cache", "addr", cfg.Cache.RedisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   "quotecard:",
		})
	default:
		dir, err := cfg.cacheDir()
		if err != nil {
			return nil, err
		}
		logger.Debug("using file cache", "dir", dir)
		return cache.NewFileCache(dir)
	}
}

// newSuggester builds the Gemini client. The returned cache must be closed by the caller.
func newSuggester(ctx context.Context, cfg *Config, logger *log.Logger) (*suggest.GeminiClient, cache.Cache, error) {
	c, err := openCache(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	client, err := suggest.NewGeminiClient(suggest.GeminiOptions{
		APIKey:     cfg.apiKey(),
		Endpoint:   cfg.Suggest.Endpoint,
		Model:      cfg.Suggest.Model,
		HTTPClient: &http.Client{Timeout: cfg.Suggest.Timeout.Duration},
		Cache:      c,
		CacheTTL:   cfg.Cache.TTL.Duration,
		Logger:     logger,
	})
	if err != nil {
		c.Close()
		return nil, nil, err
	}
	return client, c, nil
}
