package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jobtrawl/jobtrawl/internal/core"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite implementation of the ExtractionCache interface.
// It survives restarts, which matters because every cache miss is a paid
// oracle call. Capacity is enforced oldest-first by a background trim.
type SQLiteCache struct {
	db         *sql.DB
	maxEntries int
	logger     *zap.Logger
	trimFreq   time.Duration
	stopCh     chan struct{}
}

// NewSQLiteCache creates a new SQLite-backed extraction cache
func NewSQLiteCache(dbPath string, maxEntries int, trimFreq time.Duration, logger *zap.Logger) (*SQLiteCache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS extraction_cache (
			fingerprint TEXT PRIMARY KEY,
			is_job_email BOOLEAN,
			company TEXT,
			job_title TEXT,
			status TEXT,
			location TEXT,
			inserted_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Index on inserted_at for oldest-first trimming
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_inserted_at ON extraction_cache(inserted_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
		db:         db,
		maxEntries: maxEntries,
		logger:     logger,
		trimFreq:   trimFreq,
		stopCh:     make(chan struct{}),
	}

	go cache.startTrimTask()

	return cache, nil
}

// Get retrieves the cached result for a fingerprint key
func (c *SQLiteCache) Get(ctx context.Context, key string) (*core.ExtractionResult, bool) {
	var isJobEmail bool
	var company, jobTitle, status, location string

	err := c.db.QueryRowContext(ctx, `
		SELECT is_job_email, company, job_title, status, location
		FROM extraction_cache
		WHERE fingerprint = ?
	`, key).Scan(&isJobEmail, &company, &jobTitle, &status, &location)

	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Error("Failed to query extraction cache", zap.Error(err))
		}
		return nil, false
	}

	return &core.ExtractionResult{
		IsJobEmail: isJobEmail,
		Company:    company,
		JobTitle:   jobTitle,
		Status:     core.Status(status),
		Location:   location,
	}, true
}

// Put stores a result under a fingerprint key. Failures are logged, not
// returned: the cache is best-effort.
func (c *SQLiteCache) Put(ctx context.Context, key string, result *core.ExtractionResult) {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO extraction_cache
			(fingerprint, is_job_email, company, job_title, status, location, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, key, result.IsJobEmail, result.Company, result.JobTitle, string(result.Status),
		result.Location, time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err))
	}
}

// Clear removes all entries
func (c *SQLiteCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM extraction_cache`); err != nil {
		return fmt.Errorf("failed to clear extraction cache: %w", err)
	}
	return nil
}

// Stats reports current occupancy
func (c *SQLiteCache) Stats(ctx context.Context) (core.CacheStats, error) {
	var size int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM extraction_cache`).Scan(&size); err != nil {
		return core.CacheStats{}, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return core.CacheStats{Size: size, MaxSize: c.maxEntries}, nil
}

// Trim deletes the oldest rows beyond capacity
func (c *SQLiteCache) Trim(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM extraction_cache
		WHERE fingerprint IN (
			SELECT fingerprint FROM extraction_cache
			ORDER BY inserted_at DESC
			LIMIT -1 OFFSET ?
		)
	`, c.maxEntries)

	if err != nil {
		return fmt.Errorf("failed to trim extraction cache: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during trim", zap.Error(err))
	} else if rowsAffected > 0 {
		c.logger.Debug("Trimmed extraction cache", zap.Int64("evicted", rowsAffected))
	}

	return nil
}

func (c *SQLiteCache) startTrimTask() {
	ticker := time.NewTicker(c.trimFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Trim(context.Background()); err != nil {
				c.logger.Error("Failed to trim cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background trim task and closes the database connection
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
