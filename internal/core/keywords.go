package core

import (
	"strings"
)

// DefaultJobKeywords is intentionally broad: a message rejected by the
// gate is never reconsidered, so false negatives are the costliest
// mistake this pipeline can make.
var DefaultJobKeywords = []string{
	"application",
	"applied",
	"interview",
	"offer",
	"rejected",
	"regret to inform",
	"thank you for applying",
	"thank you for your interest",
	"phone screen",
	"recruiter",
	"recruiting",
	"hiring",
	"position",
	"job opportunity",
	"candidacy",
	"next steps",
	"talent acquisition",
	"your candidature",
	"assessment",
	"coding challenge",
}

// DefaultSpamKeywords flag bulk mail that only gets rejected when no job
// keyword is present alongside it
var DefaultSpamKeywords = []string{
	"unsubscribe",
	"promotional",
	"newsletter",
	"limited time offer",
	"view in browser",
	"sponsored",
	"daily digest",
}

// KeywordGate is a cheap lexical pre-filter deciding whether a message is
// worth an oracle call. Pure and side-effect free.
type KeywordGate struct {
	jobKeywords  []string
	spamKeywords []string
}

// NewKeywordGate creates a gate with the given keyword lists, falling back
// to the defaults when a list is empty
func NewKeywordGate(jobKeywords, spamKeywords []string) *KeywordGate {
	if len(jobKeywords) == 0 {
		jobKeywords = DefaultJobKeywords
	}
	if len(spamKeywords) == 0 {
		spamKeywords = DefaultSpamKeywords
	}

	normalize := func(list []string) []string {
		out := make([]string, 0, len(list))
		for _, kw := range list {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				out = append(out, kw)
			}
		}
		return out
	}

	return &KeywordGate{
		jobKeywords:  normalize(jobKeywords),
		spamKeywords: normalize(spamKeywords),
	}
}

// IsJobEmail reports whether the message looks application-related. A spam
// keyword with no job keyword rejects; otherwise at least one job keyword
// must be present.
func (g *KeywordGate) IsJobEmail(subject, body string) bool {
	text := strings.ToLower(subject + " " + body)

	hasJob := containsAny(text, g.jobKeywords)
	hasSpam := containsAny(text, g.spamKeywords)

	if hasSpam && !hasJob {
		return false
	}
	return hasJob
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// fallback status keywords, checked in precedence order. An offer or
// rejection email almost always also contains interview and application
// vocabulary, so the most terminal status wins.
var fallbackStatusOrder = []struct {
	status   Status
	keywords []string
}{
	{StatusOffer, []string{"offer extended", "pleased to offer", "job offer", "offer letter"}},
	{StatusRejected, []string{"regret to inform", "not moving forward", "unfortunately", "other candidates", "rejected"}},
	{StatusInterview, []string{"interview", "phone screen", "schedule a call", "availability"}},
	{StatusApplied, []string{"application received", "thank you for applying", "applied", "application"}},
}

// ClassifyByKeywords is the oracle-unavailable fallback classifier. It
// returns a placeholder-field result with a status chosen by explicit
// precedence: Offer > Rejected > Interview > Applied. The second return
// is false when no status keyword matches at all.
func ClassifyByKeywords(subject, body string) (*ExtractionResult, bool) {
	text := strings.ToLower(subject + " " + body)

	for _, candidate := range fallbackStatusOrder {
		if containsAny(text, candidate.keywords) {
			return &ExtractionResult{
				IsJobEmail: true,
				Company:    PlaceholderCompany,
				JobTitle:   PlaceholderRole,
				Status:     candidate.status,
				Location:   "",
			}, true
		}
	}
	return nil, false
}
