package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jobtrawl/jobtrawl/internal/core"
)

// MySQLRepository is a MySQL implementation of the ApplicationRepository
// interface
type MySQLRepository struct {
	db *sql.DB
}

// NewMySQLRepository opens (and if needed initializes) a MySQL-backed
// repository
func NewMySQLRepository(dsn string) (*MySQLRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS applications (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			company VARCHAR(255) NOT NULL,
			role VARCHAR(255) NOT NULL,
			location VARCHAR(255),
			date_applied VARCHAR(10) NOT NULL,
			last_update VARCHAR(10),
			created_at VARCHAR(32),
			status VARCHAR(32) NOT NULL,
			source VARCHAR(32),
			salary VARCHAR(64),
			remote_policy VARCHAR(32),
			notes TEXT,
			email_id VARCHAR(255),
			confidence_score INT,
			is_duplicate INT DEFAULT 0,
			INDEX idx_natural_key (user_id, company, role, date_applied)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create applications table: %w", err)
	}

	return &MySQLRepository{db: db}, nil
}

// Create stores a new application
func (r *MySQLRepository) Create(ctx context.Context, app *core.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO applications
			(id, user_id, company, role, location, date_applied, last_update, created_at,
			 status, source, salary, remote_policy, notes, email_id, confidence_score, is_duplicate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, app.ID, app.UserID, app.Company, app.Role, app.Location, app.DateApplied,
		app.LastUpdate, app.CreatedAt, string(app.Status), app.Source,
		app.Salary, app.RemotePolicy, app.Notes, app.EmailID, app.ConfidenceScore, app.IsDuplicate)

	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// FindByNaturalKey looks up an application by its duplicate-detection
// identity. Returns (nil, nil) when no record matches. The comparison is
// case-sensitive through the BINARY operator.
func (r *MySQLRepository) FindByNaturalKey(ctx context.Context, userID, company, role, dateApplied string) (*core.Application, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+`
		FROM applications
		WHERE user_id = ? AND BINARY company = ? AND BINARY role = ? AND date_applied = ?
		LIMIT 1
	`, userID, company, role, dateApplied)

	app, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query application: %w", err)
	}
	return app, nil
}

// ListByUser returns all applications belonging to a user, oldest first
func (r *MySQLRepository) ListByUser(ctx context.Context, userID string) ([]*core.Application, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+`
		FROM applications
		WHERE user_id = ?
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []*core.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}
	return apps, nil
}

// Close closes the database connection
func (r *MySQLRepository) Close() error {
	return r.db.Close()
}
