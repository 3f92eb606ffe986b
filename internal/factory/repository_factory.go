package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jobtrawl/jobtrawl/internal/adapters/repository"
	"github.com/jobtrawl/jobtrawl/internal/config"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"go.uber.org/zap"
)

// RepositoryFactory creates application repositories based on
// configuration
type RepositoryFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(cfg *config.Config, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateApplicationRepository creates an application repository based on
// the configuration
func (f *RepositoryFactory) CreateApplicationRepository() (core.ApplicationRepository, error) {
	repoType := f.cfg.GetString("repository.type")

	switch repoType {
	case "memory":
		return repository.NewMemoryRepository(), nil
	case "sqlite":
		sqlitePath := f.cfg.GetString("repository.sqlite_path")
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return repository.NewSQLiteRepository(sqlitePath)
	case "mysql":
		return repository.NewMySQLRepository(f.cfg.GetString("repository.mysql_dsn"))
	case "postgres":
		return repository.NewPostgresRepository(f.cfg.GetString("repository.postgres_dsn"))
	default:
		return nil, fmt.Errorf("unsupported repository type: %s", repoType)
	}
}
