package core

import (
	"context"
	"errors"
)

// stubLLM is a canned extraction oracle
type stubLLM struct {
	result *ExtractionResult
	err    error
	calls  int
}

func (s *stubLLM) ExtractJobDetails(ctx context.Context, msg *EmailMessage) (*ExtractionResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// stubCache is an unbounded map-backed ExtractionCache
type stubCache struct {
	entries map[string]*ExtractionResult
	puts    int
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]*ExtractionResult)}
}

func (c *stubCache) Get(ctx context.Context, key string) (*ExtractionResult, bool) {
	result, ok := c.entries[key]
	return result, ok
}

func (c *stubCache) Put(ctx context.Context, key string, result *ExtractionResult) {
	c.puts++
	c.entries[key] = result
}

func (c *stubCache) Clear(ctx context.Context) error {
	c.entries = make(map[string]*ExtractionResult)
	return nil
}

func (c *stubCache) Stats(ctx context.Context) (CacheStats, error) {
	return CacheStats{Size: len(c.entries)}, nil
}

var errRepoDown = errors.New("storage unavailable")

// stubRepo is an in-memory ApplicationRepository with switchable failures
type stubRepo struct {
	apps       []*Application
	failFind   bool
	failList   bool
	failCreate bool
}

func (r *stubRepo) Create(ctx context.Context, app *Application) error {
	if r.failCreate {
		return errRepoDown
	}
	stored := *app
	r.apps = append(r.apps, &stored)
	return nil
}

func (r *stubRepo) FindByNaturalKey(ctx context.Context, userID, company, role, dateApplied string) (*Application, error) {
	if r.failFind {
		return nil, errRepoDown
	}
	for _, app := range r.apps {
		if app.UserID == userID && app.Company == company && app.Role == role && app.DateApplied == dateApplied {
			return app, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListByUser(ctx context.Context, userID string) ([]*Application, error) {
	if r.failList {
		return nil, errRepoDown
	}
	out := make([]*Application, 0)
	for _, app := range r.apps {
		if app.UserID == userID {
			out = append(out, app)
		}
	}
	return out, nil
}

// stubMailbox yields a fixed batch of messages
type stubMailbox struct {
	messages []*EmailMessage
	err      error
}

func (m *stubMailbox) Fetch(ctx context.Context, max int) ([]*EmailMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.messages) > max {
		return m.messages[:max], nil
	}
	return m.messages, nil
}
