package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrustedSenders reports whether a sender is known to be job-related
// (e.g. an applicant tracking system), in which case the keyword gate is
// bypassed
type TrustedSenders interface {
	IsTrusted(from string) bool
}

// TrackerService runs a mailbox sync: fetch a batch of messages, parse
// each into an application, and persist the ones that are not duplicates.
// Per-message failures are absorbed; one bad message never aborts the
// batch. Only aggregate counts are reported.
type TrackerService struct {
	mailbox   MailboxSource
	mapper    *EmailToApplicationMapper
	detector  *DuplicateDetector
	repo      ApplicationRepository
	trusted   TrustedSenders
	logger    *zap.Logger
	userID    string
	batchSize int

	// serializes the check-then-insert pair across concurrent syncs
	mu sync.Mutex
}

// NewTrackerService creates the sync service. trusted may be nil.
func NewTrackerService(
	mailbox MailboxSource,
	mapper *EmailToApplicationMapper,
	detector *DuplicateDetector,
	repo ApplicationRepository,
	trusted TrustedSenders,
	logger *zap.Logger,
	userID string,
	batchSize int,
) *TrackerService {
	return &TrackerService{
		mailbox:   mailbox,
		mapper:    mapper,
		detector:  detector,
		repo:      repo,
		trusted:   trusted,
		logger:    logger,
		userID:    userID,
		batchSize: batchSize,
	}
}

// Sync fetches one batch from the mailbox and records every new
// application it finds
func (s *TrackerService) Sync(ctx context.Context) (*SyncStats, error) {
	stats := &SyncStats{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	messages, err := s.mailbox.Fetch(ctx, s.batchSize)
	if err != nil {
		return nil, err
	}

	for _, msg := range messages {
		stats.MessagesSeen++

		app, duplicate, err := s.record(ctx, msg)
		switch {
		case err != nil:
			s.logger.Error("Failed to record application",
				zap.String("email_id", msg.ID),
				zap.Error(err))
			stats.Failures++
		case duplicate:
			stats.DuplicatesSkipped++
		case app != nil:
			stats.Extracted++
		}
	}

	stats.FinishedAt = time.Now().UTC()
	s.logger.Info("Mailbox sync finished",
		zap.String("run_id", stats.RunID),
		zap.Int("messages_seen", stats.MessagesSeen),
		zap.Int("extracted", stats.Extracted),
		zap.Int("duplicates_skipped", stats.DuplicatesSkipped),
		zap.Int("failures", stats.Failures))

	return stats, nil
}

// Record parses a single message and persists it unless it duplicates an
// existing application. Used by the SMTP ingest path. Returns the stored
// application, or nil when the message produced nothing or was already
// recorded.
func (s *TrackerService) Record(ctx context.Context, msg *EmailMessage) (*Application, error) {
	app, _, err := s.record(ctx, msg)
	return app, err
}

func (s *TrackerService) record(ctx context.Context, msg *EmailMessage) (*Application, bool, error) {
	var app *Application
	if s.trusted != nil && s.trusted.IsTrusted(msg.From) {
		app = s.mapper.ParseTrusted(ctx, msg)
	} else {
		app = s.mapper.Parse(ctx, msg)
	}
	if app == nil {
		return nil, false, nil
	}
	app.UserID = s.userID

	s.mu.Lock()
	defer s.mu.Unlock()

	verdict, err := s.detector.CheckDuplicate(ctx, app.UserID, app.Company, app.Role, app.DateApplied)
	if err != nil {
		// Storage failure during the authoritative check: defer rather
		// than risk a duplicate write.
		return nil, false, err
	}
	if verdict.IsDuplicate {
		s.logger.Debug("Skipping duplicate application",
			zap.String("email_id", app.EmailID),
			zap.String("duplicate_of", verdict.DuplicateID))
		return nil, true, nil
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, false, err
	}
	return app, false, nil
}
