package core

import (
	"context"
)

// LLMClient defines the interface for the extraction oracle. Its response
// is untrusted; the Extractor validates it before use.
type LLMClient interface {
	// ExtractJobDetails classifies a message and extracts application fields
	ExtractJobDetails(ctx context.Context, msg *EmailMessage) (*ExtractionResult, error)
}

// ExtractionCache defines the interface for memoizing oracle results.
// It is a best-effort optimization: losing it costs oracle calls, never
// correctness.
type ExtractionCache interface {
	// Get retrieves the cached result for a fingerprint key
	Get(ctx context.Context, key string) (*ExtractionResult, bool)

	// Put stores a result under a fingerprint key, evicting the oldest
	// entry when full
	Put(ctx context.Context, key string, result *ExtractionResult)

	// Clear removes all entries
	Clear(ctx context.Context) error

	// Stats reports current occupancy
	Stats(ctx context.Context) (CacheStats, error)
}

// ApplicationRepository defines the interface for application persistence
type ApplicationRepository interface {
	// Create stores a new application
	Create(ctx context.Context, app *Application) error

	// FindByNaturalKey looks up an application by its duplicate-detection
	// identity. Returns (nil, nil) when no record matches.
	FindByNaturalKey(ctx context.Context, userID, company, role, dateApplied string) (*Application, error)

	// ListByUser returns all applications belonging to a user
	ListByUser(ctx context.Context, userID string) ([]*Application, error)
}

// MailboxSource defines the interface for fetching a finite batch of
// normalized messages from a mailbox
type MailboxSource interface {
	// Fetch returns at most max messages from the mailbox window
	Fetch(ctx context.Context, max int) ([]*EmailMessage, error)
}
