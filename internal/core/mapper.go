package core

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// applicationNamespace seeds deterministic application IDs so re-parsing
// the same message always yields the same record ID
var applicationNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("jobtrawl/application"))

var dateLayouts = []string{
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// EmailToApplicationMapper orchestrates the gate, extractor, and scorer
// into a single parse operation. It is total: either a fully populated,
// schema-valid Application or nil, never an error.
type EmailToApplicationMapper struct {
	gate            *KeywordGate
	extractor       *Extractor
	scorer          *ConfidenceScorer
	keywordFallback bool
	logger          *zap.Logger
}

// NewEmailToApplicationMapper creates a mapper. keywordFallback enables
// the keyword-only classifier when the oracle yields nothing.
func NewEmailToApplicationMapper(
	gate *KeywordGate,
	extractor *Extractor,
	scorer *ConfidenceScorer,
	keywordFallback bool,
	logger *zap.Logger,
) *EmailToApplicationMapper {
	return &EmailToApplicationMapper{
		gate:            gate,
		extractor:       extractor,
		scorer:          scorer,
		keywordFallback: keywordFallback,
		logger:          logger,
	}
}

// Parse turns a message into an Application, or nil when the message is
// not application-related or nothing usable could be extracted. BypassGate
// callers should use ParseTrusted.
func (m *EmailToApplicationMapper) Parse(ctx context.Context, msg *EmailMessage) *Application {
	return m.parse(ctx, msg, false)
}

// ParseTrusted skips the keyword gate, for senders known to be job-related
// (e.g. ATS domains)
func (m *EmailToApplicationMapper) ParseTrusted(ctx context.Context, msg *EmailMessage) *Application {
	return m.parse(ctx, msg, true)
}

func (m *EmailToApplicationMapper) parse(ctx context.Context, msg *EmailMessage, bypassGate bool) *Application {
	if msg == nil {
		return nil
	}

	// Cost-control boundary: the oracle is never invoked for messages
	// the gate rejects.
	if !bypassGate && !m.gate.IsJobEmail(msg.Subject, msg.Body) {
		return nil
	}

	usedOracle := true
	result := m.extractor.Extract(ctx, msg)
	if result == nil && m.keywordFallback {
		if fallback, ok := ClassifyByKeywords(msg.Subject, msg.Body); ok {
			m.logger.Debug("Using keyword fallback classification",
				zap.String("email_id", msg.ID),
				zap.String("status", string(fallback.Status)))
			result = fallback
			usedOracle = false
		}
	}
	if result == nil || !result.IsJobEmail {
		return nil
	}

	now := time.Now().UTC()
	dateApplied := m.deriveDateApplied(msg, now)

	var remotePolicy *string
	if strings.Contains(strings.ToLower(result.Location), "remote") {
		policy := "Remote"
		remotePolicy = &policy
	}

	score := m.scorer.Score(result.Company, result.JobTitle, result.Status, usedOracle)

	return &Application{
		ID:              uuid.NewSHA1(applicationNamespace, []byte(msg.ID)).String(),
		Company:         result.Company,
		Role:            result.JobTitle,
		Location:        result.Location,
		DateApplied:     dateApplied,
		LastUpdate:      dateApplied,
		CreatedAt:       now.Format(time.RFC3339),
		Status:          result.Status,
		Source:          "Email",
		Salary:          nil,
		RemotePolicy:    remotePolicy,
		Notes:           fmt.Sprintf("Imported from email %q", msg.Subject),
		EmailID:         msg.ID,
		ConfidenceScore: score,
		IsDuplicate:     0,
	}
}

// deriveDateApplied formats the message date as YYYY-MM-DD. An unparseable
// date falls back to the parse-time date; that is a documented data-quality
// concession, not an error.
func (m *EmailToApplicationMapper) deriveDateApplied(msg *EmailMessage, now time.Time) string {
	raw := strings.TrimSpace(msg.Date)
	if raw != "" {
		if t, err := mail.ParseDate(raw); err == nil {
			return t.Format("2006-01-02")
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Format("2006-01-02")
			}
		}
		m.logger.Debug("Unparseable message date, using today",
			zap.String("email_id", msg.ID),
			zap.String("date", raw))
	}
	return now.Format("2006-01-02")
}
