package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jobtrawl/jobtrawl/internal/core"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository is a SQLite implementation of the ApplicationRepository
// interface
type SQLiteRepository struct {
	db *sql.DB
}

const applicationsDDL = `
	CREATE TABLE IF NOT EXISTS applications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		company TEXT NOT NULL,
		role TEXT NOT NULL,
		location TEXT,
		date_applied TEXT NOT NULL,
		last_update TEXT,
		created_at TEXT,
		status TEXT NOT NULL,
		source TEXT,
		salary TEXT,
		remote_policy TEXT,
		notes TEXT,
		email_id TEXT,
		confidence_score INTEGER,
		is_duplicate INTEGER DEFAULT 0
	)
`

// NewSQLiteRepository opens (and if needed initializes) a SQLite-backed
// repository
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if _, err := db.Exec(applicationsDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create applications table: %w", err)
	}

	// Natural-key index backs the duplicate check
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_natural_key
		ON applications(user_id, company, role, date_applied)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Create stores a new application
func (r *SQLiteRepository) Create(ctx context.Context, app *core.Application) error {
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
// identity. Returns (nil, nil) when no record matches.
func (r *SQLiteRepository) FindByNaturalKey(ctx context.Context, userID, company, role, dateApplied string) (*core.Application, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+`
		FROM applications
		WHERE user_id = ? AND company = ? AND role = ? AND date_applied = ?
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
func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]*core.Application, error) {
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
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const selectColumns = `
	SELECT id, user_id, company, role, location, date_applied, last_update, created_at,
	       status, source, salary, remote_policy, notes, email_id, confidence_score, is_duplicate
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*core.Application, error) {
	var app core.Application
	var status string
	var salary, remotePolicy sql.NullString

	err := row.Scan(
		&app.ID, &app.UserID, &app.Company, &app.Role, &app.Location,
		&app.DateApplied, &app.LastUpdate, &app.CreatedAt,
		&status, &app.Source, &salary, &remotePolicy,
		&app.Notes, &app.EmailID, &app.ConfidenceScore, &app.IsDuplicate)
	if err != nil {
		return nil, err
	}

	app.Status = core.Status(status)
	if salary.Valid {
		app.Salary = &salary.String
	}
	if remotePolicy.Valid {
		app.RemotePolicy = &remotePolicy.String
	}
	return &app, nil
}
