package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jobtrawl/jobtrawl/internal/adapters/cache"
	"github.com/jobtrawl/jobtrawl/internal/config"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"go.uber.org/zap"
)

// CacheFactory creates extraction caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateExtractionCache creates an extraction cache based on the
// configuration
func (f *CacheFactory) CreateExtractionCache() (core.ExtractionCache, error) {
	cacheType := f.cfg.GetString("cache.type")
	maxEntries := f.cfg.GetInt("cache.max_entries")

	switch cacheType {
	case "memory":
		return cache.NewMemoryCache(maxEntries, f.logger), nil
	case "sqlite":
		trimFreq, err := f.cfg.GetDuration("cache.trim_frequency")
		if err != nil {
			return nil, fmt.Errorf("invalid cache trim frequency: %w", err)
		}
		sqlitePath := f.cfg.GetString("cache.sqlite_path")
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return cache.NewSQLiteCache(sqlitePath, maxEntries, trimFreq, f.logger)
	case "mysql":
		trimFreq, err := f.cfg.GetDuration("cache.trim_frequency")
		if err != nil {
			return nil, fmt.Errorf("invalid cache trim frequency: %w", err)
		}
		return cache.NewMySQLCache(f.cfg.GetString("cache.mysql_dsn"), maxEntries, trimFreq, f.logger)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheType)
	}
}

// IsCacheEnabled returns whether caching is enabled
func (f *CacheFactory) IsCacheEnabled() bool {
	return f.cfg.GetBool("cache.enabled")
}

// KeyPrefixLength returns how many leading characters of subject+body
// feed the cache fingerprint
func (f *CacheFactory) KeyPrefixLength() int {
	return f.cfg.GetInt("cache.key_prefix_length")
}
