package core

import (
	"strings"
)

// ScoreWeights are the additive components of a confidence score
type ScoreWeights struct {
	OracleBase   int
	FallbackBase int
	CompanyBonus int
	RoleBonus    int
	StatusBonus  int
}

// DefaultScoreWeights returns the standard scoring weights
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		OracleBase:   60,
		FallbackBase: 30,
		CompanyBonus: 15,
		RoleBonus:    15,
		StatusBonus:  10,
	}
}

// ConfidenceScorer maps extracted fields to a 0-100 confidence score.
// It is a pure function of its inputs so the score is a reproducible
// audit signal.
type ConfidenceScorer struct {
	weights ScoreWeights
}

// NewConfidenceScorer creates a scorer with the given weights
func NewConfidenceScorer(weights ScoreWeights) *ConfidenceScorer {
	return &ConfidenceScorer{weights: weights}
}

// Score computes a confidence score for an extraction. usedOracle is true
// when the fields came from the oracle rather than the keyword fallback.
func (s *ConfidenceScorer) Score(company, role string, status Status, usedOracle bool) int {
	score := s.weights.FallbackBase
	if usedOracle {
		score = s.weights.OracleBase
	}

	if isUsableField(company, PlaceholderCompany) {
		score += s.weights.CompanyBonus
	}
	if isUsableField(role, PlaceholderRole) {
		score += s.weights.RoleBonus
	}
	// A non-default status means the extractor read past boilerplate
	if status != "" && status != StatusApplied {
		score += s.weights.StatusBonus
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func isUsableField(value, placeholder string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	return !strings.EqualFold(value, placeholder) &&
		!strings.EqualFold(value, "Unknown") &&
		!strings.EqualFold(value, "Not specified")
}
