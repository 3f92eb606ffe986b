package repository

import (
	"context"
	"sync"

	"github.com/jobtrawl/jobtrawl/internal/core"
)

// MemoryRepository is an in-memory ApplicationRepository, used for tests
// and throwaway runs
type MemoryRepository struct {
	mu   sync.RWMutex
	apps []*core.Application
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

// Create stores a new application
func (r *MemoryRepository) Create(ctx context.Context, app *core.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *app
	r.apps = append(r.apps, &stored)
	return nil
}

// FindByNaturalKey looks up an application by its duplicate-detection
// identity. Matching is exact and case-sensitive.
func (r *MemoryRepository) FindByNaturalKey(ctx context.Context, userID, company, role, dateApplied string) (*core.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, app := range r.apps {
		if app.UserID == userID && app.Company == company && app.Role == role && app.DateApplied == dateApplied {
			found := *app
			return &found, nil
		}
	}
	return nil, nil
}

// ListByUser returns all applications belonging to a user, in insertion
// order
func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]*core.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*core.Application, 0)
	for _, app := range r.apps {
		if app.UserID == userID {
			found := *app
			out = append(out, &found)
		}
	}
	return out, nil
}
