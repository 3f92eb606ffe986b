package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordGateAcceptsJobMail(t *testing.T) {
	gate := NewKeywordGate(nil, nil)

	tests := []struct {
		name    string
		subject string
		body    string
		want    bool
	}{
		{
			name:    "application confirmation",
			subject: "Thank you for applying to Acme",
			body:    "We received your application for Software Engineer.",
			want:    true,
		},
		{
			name:    "interview invite",
			subject: "Next steps",
			body:    "We would like to schedule an interview with you.",
			want:    true,
		},
		{
			name:    "rejection",
			subject: "Your application",
			body:    "We regret to inform you that we will not be moving forward.",
			want:    true,
		},
		{
			name:    "keyword in subject only",
			subject: "Interview availability",
			body:    "Let us know your preferred times.",
			want:    true,
		},
		{
			name:    "keyword in body only",
			subject: "Quick question",
			body:    "Our recruiter would love to chat about a position.",
			want:    true,
		},
		{
			name:    "case insensitive",
			subject: "YOUR APPLICATION WAS RECEIVED",
			body:    "",
			want:    true,
		},
		{
			name:    "unrelated mail",
			subject: "Dinner on Friday?",
			body:    "Let me know if you can make it.",
			want:    false,
		},
		{
			name:    "empty message",
			subject: "",
			body:    "",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.IsJobEmail(tt.subject, tt.body))
		})
	}
}

func TestKeywordGateSpamSuppression(t *testing.T) {
	gate := NewKeywordGate(nil, nil)

	// Spam keyword with no job keyword rejects
	assert.False(t, gate.IsJobEmail("Weekly newsletter", "Click unsubscribe to opt out."))

	// A job keyword rescues a message that also carries spam vocabulary:
	// legitimate ATS mail routinely contains unsubscribe footers
	assert.True(t, gate.IsJobEmail("Your application to Acme", "We received your application.\n\nUnsubscribe"))
}

func TestKeywordGateCustomKeywords(t *testing.T) {
	gate := NewKeywordGate([]string{"bewerbung"}, []string{"werbung"})

	assert.True(t, gate.IsJobEmail("Ihre Bewerbung", ""))
	assert.False(t, gate.IsJobEmail("Werbung der Woche", ""))
	// Custom lists replace the defaults entirely
	assert.False(t, gate.IsJobEmail("Your application was received", ""))
}

func TestClassifyByKeywordsPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		want    Status
	}{
		{
			name:    "offer wins over interview vocabulary",
			subject: "We are pleased to offer you the role",
			body:    "Following your interview, we would like to extend an offer letter.",
			want:    StatusOffer,
		},
		{
			name:    "rejection wins over interview vocabulary",
			subject: "Your application",
			body:    "We regret to inform you that after your interview we chose other candidates.",
			want:    StatusRejected,
		},
		{
			name:    "interview wins over applied vocabulary",
			subject: "Schedule a call",
			body:    "Thanks for your application, we would like to invite you to an interview.",
			want:    StatusInterview,
		},
		{
			name:    "bare confirmation",
			subject: "Application received",
			body:    "Thank you for applying.",
			want:    StatusApplied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ClassifyByKeywords(tt.subject, tt.body)
			require.True(t, ok)
			assert.Equal(t, tt.want, result.Status)
			assert.True(t, result.IsJobEmail)
			assert.Equal(t, PlaceholderCompany, result.Company)
			assert.Equal(t, PlaceholderRole, result.JobTitle)
		})
	}
}

func TestClassifyByKeywordsNoMatch(t *testing.T) {
	result, ok := ClassifyByKeywords("Lunch tomorrow", "See you at noon.")
	assert.False(t, ok)
	assert.Nil(t, result)
}
