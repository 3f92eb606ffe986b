package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"go.uber.org/zap"
)

// MySQLCache is a MySQL implementation of the ExtractionCache interface
// for deployments that already run MySQL
type MySQLCache struct {
	db         *sql.DB
	maxEntries int
	logger     *zap.Logger
	trimFreq   time.Duration
	stopCh     chan struct{}
}

// NewMySQLCache creates a new MySQL-backed extraction cache
func NewMySQLCache(dsn string, maxEntries int, trimFreq time.Duration, logger *zap.Logger) (*MySQLCache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS extraction_cache (
			fingerprint VARCHAR(64) PRIMARY KEY,
			is_job_email BOOLEAN,
			company VARCHAR(255),
			job_title VARCHAR(255),
			status VARCHAR(32),
			location VARCHAR(255),
			inserted_at TIMESTAMP,
			INDEX idx_inserted_at (inserted_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
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
func (c *MySQLCache) Get(ctx context.Context, key string) (*core.ExtractionResult, bool) {
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
func (c *MySQLCache) Put(ctx context.Context, key string, result *core.ExtractionResult) {
	_, err := c.db.ExecContext(ctx, `
		REPLACE INTO extraction_cache
			(fingerprint, is_job_email, company, job_title, status, location, inserted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, key, result.IsJobEmail, result.Company, result.JobTitle, string(result.Status),
		result.Location, time.Now().UTC())

	if err != nil {
		c.logger.Error("Failed to insert cache entry", zap.Error(err))
	}
}

// Clear removes all entries
func (c *MySQLCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM extraction_cache`); err != nil {
		return fmt.Errorf("failed to clear extraction cache: %w", err)
	}
	return nil
}

// Stats reports current occupancy
func (c *MySQLCache) Stats(ctx context.Context) (core.CacheStats, error) {
	var size int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM extraction_cache`).Scan(&size); err != nil {
		return core.CacheStats{}, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return core.CacheStats{Size: size, MaxSize: c.maxEntries}, nil
}

// Trim deletes the oldest rows beyond capacity
func (c *MySQLCache) Trim(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM extraction_cache
		WHERE fingerprint IN (
			SELECT fingerprint FROM (
				SELECT fingerprint FROM extraction_cache
				ORDER BY inserted_at DESC
				LIMIT 18446744073709551615 OFFSET ?
			) stale
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

func (c *MySQLCache) startTrimTask() {
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
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
