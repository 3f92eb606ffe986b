package repository

import (
	"context"
	"testing"

	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleApp(id, userID, company, role, dateApplied string) *core.Application {
	return &core.Application{
		ID:          id,
		UserID:      userID,
		Company:     company,
		Role:        role,
		DateApplied: dateApplied,
		Status:      core.StatusApplied,
	}
}

func TestMemoryRepositoryCreateAndFind(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	app := sampleApp("app-1", "user-1", "Acme Corp", "Software Engineer", "2026-02-03")
	require.NoError(t, repo.Create(ctx, app))

	found, err := repo.FindByNaturalKey(ctx, "user-1", "Acme Corp", "Software Engineer", "2026-02-03")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "app-1", found.ID)
}

func TestMemoryRepositoryFindMiss(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleApp("app-1", "user-1", "Acme Corp", "Software Engineer", "2026-02-03")))

	// A miss is (nil, nil), not an error
	found, err := repo.FindByNaturalKey(ctx, "user-1", "acme corp", "Software Engineer", "2026-02-03")
	require.NoError(t, err)
	assert.Nil(t, found)

	found, err = repo.FindByNaturalKey(ctx, "user-2", "Acme Corp", "Software Engineer", "2026-02-03")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestMemoryRepositoryListByUser(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleApp("app-1", "user-1", "Acme", "Engineer", "2026-02-01")))
	require.NoError(t, repo.Create(ctx, sampleApp("app-2", "user-1", "Globex", "Analyst", "2026-02-02")))
	require.NoError(t, repo.Create(ctx, sampleApp("app-3", "user-2", "Initech", "Manager", "2026-02-03")))

	apps, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "app-1", apps[0].ID)
	assert.Equal(t, "app-2", apps[1].ID)

	empty, err := repo.ListByUser(ctx, "user-3")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryRepositoryCopiesOnRead(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, sampleApp("app-1", "user-1", "Acme", "Engineer", "2026-02-01")))

	found, err := repo.FindByNaturalKey(ctx, "user-1", "Acme", "Engineer", "2026-02-01")
	require.NoError(t, err)
	found.Company = "Mutated"

	again, err := repo.FindByNaturalKey(ctx, "user-1", "Acme", "Engineer", "2026-02-01")
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, "Acme", again.Company)
}
