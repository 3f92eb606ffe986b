package core

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var dateAppliedPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func newTestMapper(llm LLMClient, keywordFallback bool) *EmailToApplicationMapper {
	gate := NewKeywordGate(nil, nil)
	extractor := NewExtractor(llm, newStubCache(), true, 0, zap.NewNop())
	scorer := NewConfidenceScorer(DefaultScoreWeights())
	return NewEmailToApplicationMapper(gate, extractor, scorer, keywordFallback, zap.NewNop())
}

func TestParseSuccessfulExtraction(t *testing.T) {
	llm := &stubLLM{result: &ExtractionResult{
		IsJobEmail: true,
		Company:    "Acme Corp",
		JobTitle:   "Software Engineer",
		Status:     StatusInterview,
		Location:   "Berlin, Germany",
	}}
	mapper := newTestMapper(llm, false)

	msg := &EmailMessage{
		ID:      "<msg-1@example.com>",
		From:    "jobs@acme.example",
		Subject: "Interview invitation",
		Body:    "We would like to schedule an interview for the Software Engineer position.",
		Date:    "Tue, 03 Feb 2026 10:30:00 +0100",
	}

	app := mapper.Parse(context.Background(), msg)
	require.NotNil(t, app)

	assert.Equal(t, "Acme Corp", app.Company)
	assert.Equal(t, "Software Engineer", app.Role)
	assert.Equal(t, StatusInterview, app.Status)
	assert.Equal(t, "Berlin, Germany", app.Location)
	assert.Equal(t, "2026-02-03", app.DateApplied)
	assert.Equal(t, app.DateApplied, app.LastUpdate)
	assert.Equal(t, "Email", app.Source)
	assert.Equal(t, msg.ID, app.EmailID)
	assert.Equal(t, 100, app.ConfidenceScore)
	assert.Nil(t, app.Salary)
	assert.Nil(t, app.RemotePolicy)
	assert.Equal(t, 0, app.IsDuplicate)
	assert.NotEmpty(t, app.ID)
}

func TestParseGateRejection(t *testing.T) {
	llm := &stubLLM{result: &ExtractionResult{IsJobEmail: true}}
	mapper := newTestMapper(llm, false)

	app := mapper.Parse(context.Background(), &EmailMessage{
		ID:      "<msg-2@example.com>",
		Subject: "Dinner on Friday?",
		Body:    "Let me know if you can make it.",
	})

	assert.Nil(t, app)
	// The oracle is never consulted for gated-out mail
	assert.Equal(t, 0, llm.calls)
}

func TestParseOracleSaysNotAJob(t *testing.T) {
	llm := &stubLLM{result: &ExtractionResult{IsJobEmail: false}}
	mapper := newTestMapper(llm, false)

	app := mapper.Parse(context.Background(), &EmailMessage{
		ID:      "<msg-3@example.com>",
		Subject: "Job opportunity of a lifetime",
		Body:    "Earn money fast with this position.",
	})

	assert.Nil(t, app)
	assert.Equal(t, 1, llm.calls)
}

func TestParseOracleFailureWithoutFallback(t *testing.T) {
	llm := &stubLLM{err: errors.New("oracle down")}
	mapper := newTestMapper(llm, false)

	app := mapper.Parse(context.Background(), &EmailMessage{
		ID:      "<msg-4@example.com>",
		Subject: "Your application to Acme",
		Body:    "Thank you for applying.",
	})

	assert.Nil(t, app)
}

func TestParseKeywordFallback(t *testing.T) {
	llm := &stubLLM{err: errors.New("oracle down")}
	mapper := newTestMapper(llm, true)

	app := mapper.Parse(context.Background(), &EmailMessage{
		ID:      "<msg-5@example.com>",
		Subject: "Your application to Acme",
		Body:    "We regret to inform you that we will not be moving forward.",
		Date:    "Wed, 04 Mar 2026 09:00:00 +0000",
	})

	require.NotNil(t, app)
	assert.Equal(t, StatusRejected, app.Status)
	assert.Equal(t, PlaceholderCompany, app.Company)
	assert.Equal(t, PlaceholderRole, app.Role)
	// Fallback base with a terminal-status bonus, no field credit
	assert.Equal(t, 40, app.ConfidenceScore)
}

func TestParseTrustedBypassesGate(t *testing.T) {
	llm := &stubLLM{result: &ExtractionResult{
		IsJobEmail: true,
		Company:    "Acme Corp",
		JobTitle:   "Software Engineer",
		Status:     StatusApplied,
		Location:   "Berlin",
	}}
	mapper := newTestMapper(llm, false)

	// No job keyword anywhere, yet the trusted path still extracts
	msg := &EmailMessage{
		ID:      "<msg-6@example.com>",
		From:    "no-reply@greenhouse.io",
		Subject: "Acme Corp",
		Body:    "Hello from the team.",
	}

	assert.Nil(t, mapper.Parse(context.Background(), msg))
	require.NotNil(t, mapper.ParseTrusted(context.Background(), msg))
}

func TestParseRemotePolicy(t *testing.T) {
	tests := []struct {
		name     string
		location string
		want     *string
	}{
		{
			name:     "remote location",
			location: "Remote (EU)",
			want:     strPtr("Remote"),
		},
		{
			name:     "lowercase remote",
			location: "fully remote",
			want:     strPtr("Remote"),
		},
		{
			name:     "on-site location",
			location: "Berlin, Germany",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &stubLLM{result: &ExtractionResult{
				IsJobEmail: true,
				Company:    "Acme",
				JobTitle:   "Engineer",
				Status:     StatusApplied,
				Location:   tt.location,
			}}
			mapper := newTestMapper(llm, false)

			app := mapper.Parse(context.Background(), &EmailMessage{
				ID:      "<msg-7@example.com>",
				Subject: "Your application",
				Body:    "Thanks for applying.",
			})
			require.NotNil(t, app)

			if tt.want == nil {
				assert.Nil(t, app.RemotePolicy)
			} else {
				require.NotNil(t, app.RemotePolicy)
				assert.Equal(t, *tt.want, *app.RemotePolicy)
			}
		})
	}
}

func TestParseDateFallback(t *testing.T) {
	llm := &stubLLM{result: validResult()}
	mapper := newTestMapper(llm, false)

	tests := []struct {
		name string
		date string
	}{
		{name: "empty date", date: ""},
		{name: "garbage date", date: "not a date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := mapper.Parse(context.Background(), &EmailMessage{
				ID:      "<msg-8@example.com>",
				Subject: "Your application",
				Body:    "Thanks for applying.",
				Date:    tt.date,
			})
			require.NotNil(t, app)

			// Falls back to today
			assert.Equal(t, time.Now().UTC().Format("2006-01-02"), app.DateApplied)
		})
	}
}

func TestParseDateAlwaysNormalized(t *testing.T) {
	llm := &stubLLM{result: validResult()}
	mapper := newTestMapper(llm, false)

	dates := []string{
		"Mon, 02 Jan 2006 15:04:05 -0700",
		"2 Jan 2006 15:04:05 +0000",
		"2026-08-30T12:00:00Z",
		"",
		"garbage",
	}

	for _, date := range dates {
		app := mapper.Parse(context.Background(), &EmailMessage{
			ID:      "<msg-9@example.com>",
			Subject: "Your application",
			Body:    "Thanks for applying.",
			Date:    date,
		})
		require.NotNil(t, app)
		assert.Regexp(t, dateAppliedPattern, app.DateApplied, "date %q", date)
	}
}

func TestParseDeterministicID(t *testing.T) {
	llm := &stubLLM{result: validResult()}
	mapper := newTestMapper(llm, false)

	msg := &EmailMessage{
		ID:      "<msg-10@example.com>",
		Subject: "Your application",
		Body:    "Thanks for applying.",
	}

	first := mapper.Parse(context.Background(), msg)
	second := mapper.Parse(context.Background(), msg)
	require.NotNil(t, first)
	require.NotNil(t, second)

	// Re-parsing the same message yields the same application ID
	assert.Equal(t, first.ID, second.ID)

	other := mapper.Parse(context.Background(), &EmailMessage{
		ID:      "<msg-11@example.com>",
		Subject: "Your application",
		Body:    "Thanks for applying.",
	})
	require.NotNil(t, other)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestParseNilMessage(t *testing.T) {
	mapper := newTestMapper(&stubLLM{result: validResult()}, false)
	assert.Nil(t, mapper.Parse(context.Background(), nil))
}

func strPtr(s string) *string {
	return &s
}
