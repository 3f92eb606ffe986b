package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type trustedNone struct{}

func (trustedNone) IsTrusted(string) bool { return false }

type trustedAll struct{}

func (trustedAll) IsTrusted(string) bool { return true }

func newTestService(mailbox MailboxSource, repo ApplicationRepository, llm LLMClient, trusted TrustedSenders) *TrackerService {
	logger := zap.NewNop()
	mapper := newTestMapper(llm, false)
	detector := NewDuplicateDetector(repo, logger)
	return NewTrackerService(mailbox, mapper, detector, repo, trusted, logger, "user-1", 100)
}

func jobMessage(id, subject, body string) *EmailMessage {
	return &EmailMessage{
		ID:      id,
		From:    "jobs@acme.example",
		Subject: subject,
		Body:    body,
		Date:    "Tue, 03 Feb 2026 10:30:00 +0100",
	}
}

func TestSyncRecordsApplications(t *testing.T) {
	mailbox := &stubMailbox{messages: []*EmailMessage{
		jobMessage("<a@x>", "Your application to Acme", "Thanks for applying."),
		jobMessage("<b@x>", "Dinner plans", "See you at noon."),
	}}
	repo := &stubRepo{}
	llm := &stubLLM{result: validResult()}

	service := newTestService(mailbox, repo, llm, trustedNone{})

	stats, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.MessagesSeen)
	assert.Equal(t, 1, stats.Extracted)
	assert.Equal(t, 0, stats.DuplicatesSkipped)
	assert.Equal(t, 0, stats.Failures)
	assert.NotEmpty(t, stats.RunID)

	require.Len(t, repo.apps, 1)
	assert.Equal(t, "user-1", repo.apps[0].UserID)
	assert.Equal(t, "Acme Corp", repo.apps[0].Company)
}

func TestSyncSkipsDuplicates(t *testing.T) {
	// Two messages that extract to the same natural key
	mailbox := &stubMailbox{messages: []*EmailMessage{
		jobMessage("<a@x>", "Your application to Acme", "Thanks for applying."),
		jobMessage("<b@x>", "Your application to Acme (reminder)", "Thanks again for applying."),
	}}
	repo := &stubRepo{}
	llm := &stubLLM{result: validResult()}

	service := newTestService(mailbox, repo, llm, trustedNone{})

	stats, err := service.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Extracted)
	assert.Equal(t, 1, stats.DuplicatesSkipped)
	assert.Len(t, repo.apps, 1)
}

func TestSyncCountsFailures(t *testing.T) {
	mailbox := &stubMailbox{messages: []*EmailMessage{
		jobMessage("<a@x>", "Your application to Acme", "Thanks for applying."),
		jobMessage("<b@x>", "Your application to Globex", "Thanks for applying."),
	}}
	repo := &stubRepo{failFind: true}
	llm := &stubLLM{result: validResult()}

	service := newTestService(mailbox, repo, llm, trustedNone{})

	stats, err := service.Sync(context.Background())
	require.NoError(t, err)

	// One bad message never aborts the batch
	assert.Equal(t, 2, stats.MessagesSeen)
	assert.Equal(t, 2, stats.Failures)
	assert.Equal(t, 0, stats.Extracted)
	assert.Empty(t, repo.apps)
}

func TestSyncMailboxFailure(t *testing.T) {
	mailbox := &stubMailbox{err: errors.New("connection refused")}
	service := newTestService(mailbox, &stubRepo{}, &stubLLM{result: validResult()}, trustedNone{})

	_, err := service.Sync(context.Background())
	assert.Error(t, err)
}

func TestSyncRespectsBatchSize(t *testing.T) {
	messages := make([]*EmailMessage, 0, 10)
	for i := 0; i < 10; i++ {
		messages = append(messages, jobMessage("<only@x>", "Dinner plans", "See you."))
	}
	mailbox := &stubMailbox{messages: messages}

	logger := zap.NewNop()
	repo := &stubRepo{}
	mapper := newTestMapper(&stubLLM{result: validResult()}, false)
	detector := NewDuplicateDetector(repo, logger)
	service := NewTrackerService(mailbox, mapper, detector, repo, trustedNone{}, logger, "user-1", 3)

	stats, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.MessagesSeen)
}

func TestSyncTrustedSenderBypass(t *testing.T) {
	// No job keywords, so only the trusted path reaches the oracle
	mailbox := &stubMailbox{messages: []*EmailMessage{
		jobMessage("<a@x>", "Acme Corp", "Hello from the team."),
	}}
	repo := &stubRepo{}
	llm := &stubLLM{result: validResult()}

	untrusted := newTestService(mailbox, repo, llm, trustedNone{})
	stats, err := untrusted.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Extracted)

	trusted := newTestService(mailbox, &stubRepo{}, &stubLLM{result: validResult()}, trustedAll{})
	stats, err = trusted.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Extracted)
}

func TestRecordSingleMessage(t *testing.T) {
	repo := &stubRepo{}
	service := newTestService(&stubMailbox{}, repo, &stubLLM{result: validResult()}, trustedNone{})

	app, err := service.Record(context.Background(), jobMessage("<a@x>", "Your application to Acme", "Thanks for applying."))
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, "user-1", app.UserID)
	assert.Len(t, repo.apps, 1)

	// Recording the same message again is a no-op
	again, err := service.Record(context.Background(), jobMessage("<a@x>", "Your application to Acme", "Thanks for applying."))
	require.NoError(t, err)
	assert.Nil(t, again)
	assert.Len(t, repo.apps, 1)
}

func TestRecordNonJobMessage(t *testing.T) {
	repo := &stubRepo{}
	service := newTestService(&stubMailbox{}, repo, &stubLLM{result: validResult()}, trustedNone{})

	app, err := service.Record(context.Background(), jobMessage("<a@x>", "Dinner plans", "See you at noon."))
	require.NoError(t, err)
	assert.Nil(t, app)
	assert.Empty(t, repo.apps)
}
