package cache

import (
	"context"
	"sync"

	"github.com/jobtrawl/jobtrawl/internal/core"
	"go.uber.org/zap"
)

// DefaultMaxEntries is the default capacity of an extraction cache
const DefaultMaxEntries = 1000

// MemoryCache is an in-memory FIFO implementation of the ExtractionCache
// interface. When an insert would exceed capacity the oldest inserted key
// is evicted first: repeat syncs of the same mailbox window re-encounter
// recent messages, so insertion order is a good enough proxy for value.
type MemoryCache struct {
	entries    map[string]*core.ExtractionResult
	insertions []string
	maxEntries int
	mu         sync.Mutex
	logger     *zap.Logger
}

// NewMemoryCache creates a bounded in-memory cache
func NewMemoryCache(maxEntries int, logger *zap.Logger) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]*core.ExtractionResult, maxEntries),
		insertions: make([]string, 0, maxEntries),
		maxEntries: maxEntries,
		logger:     logger,
	}
}

// Get retrieves the cached result for a fingerprint key
func (c *MemoryCache) Get(ctx context.Context, key string) (*core.ExtractionResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result, ok := c.entries[key]
	return result, ok
}

// Put stores a result, evicting the oldest entry when the cache is full.
// Re-putting an existing key overwrites in place without changing its
// insertion position.
func (c *MemoryCache) Put(ctx context.Context, key string, result *core.ExtractionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = result
		return
	}

	if len(c.insertions) >= c.maxEntries {
		oldest := c.insertions[0]
		c.insertions = c.insertions[1:]
		delete(c.entries, oldest)
		c.logger.Debug("Evicted oldest cache entry", zap.String("key", oldest))
	}

	c.entries[key] = result
	c.insertions = append(c.insertions, key)
}

// Clear removes all entries
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*core.ExtractionResult, c.maxEntries)
	c.insertions = c.insertions[:0]
	return nil
}

// Stats reports current occupancy
func (c *MemoryCache) Stats(ctx context.Context) (core.CacheStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return core.CacheStats{
		Size:    len(c.entries),
		MaxSize: c.maxEntries,
	}, nil
}
