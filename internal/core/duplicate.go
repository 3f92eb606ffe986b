package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultSimilarityThreshold is the minimum advisory similarity reported
// by FindSimilarApplications
const DefaultSimilarityThreshold = 0.7

// DuplicateDetector decides whether a candidate application duplicates an
// existing record. The authoritative check is exact-match only: silently
// dropping a real, distinct application is considered worse than storing a
// near-duplicate a human can later merge.
type DuplicateDetector struct {
	repo   ApplicationRepository
	logger *zap.Logger
}

// NewDuplicateDetector creates a duplicate detector over a repository
func NewDuplicateDetector(repo ApplicationRepository, logger *zap.Logger) *DuplicateDetector {
	return &DuplicateDetector{
		repo:   repo,
		logger: logger,
	}
}

// CheckDuplicate is the authoritative duplicate gate used before
// persistence. It matches the (userID, company, role, dateApplied) natural
// key exactly and case-sensitively. A repository failure propagates: a
// duplicate check must not report "no duplicate" on a storage error, since
// that could cause a double insert.
func (d *DuplicateDetector) CheckDuplicate(ctx context.Context, userID, company, role, dateApplied string) (*DuplicateVerdict, error) {
	existing, err := d.repo.FindByNaturalKey(ctx, userID, company, role, dateApplied)
	if err != nil {
		return nil, fmt.Errorf("duplicate lookup failed: %w", err)
	}

	if existing == nil {
		return &DuplicateVerdict{
			IsDuplicate: false,
			DuplicateID: "",
			Similarity:  0,
			Reason:      "",
		}, nil
	}

	return &DuplicateVerdict{
		IsDuplicate: true,
		DuplicateID: existing.ID,
		Similarity:  1.0,
		Reason:      "Exact match",
	}, nil
}

// FindSimilarApplications ranks the user's existing applications by
// similarity to the candidate. Advisory only: it never blocks writes and
// never fails; a repository error degrades to an empty result.
func (d *DuplicateDetector) FindSimilarApplications(ctx context.Context, candidate *Application, threshold float64) []SimilarApplication {
	if candidate == nil || candidate.UserID == "" {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	existing, err := d.repo.ListByUser(ctx, candidate.UserID)
	if err != nil {
		d.logger.Warn("Similarity query failed",
			zap.String("user_id", candidate.UserID),
			zap.Error(err))
		return nil
	}

	similar := make([]SimilarApplication, 0)
	for _, app := range existing {
		if candidate.ID != "" && app.ID == candidate.ID {
			continue
		}
		similarity := (StringSimilarity(candidate.Company, app.Company) +
			StringSimilarity(candidate.Role, app.Role)) / 2
		if similarity >= threshold {
			similar = append(similar, SimilarApplication{
				Application: app,
				Similarity:  similarity,
			})
		}
	}

	// Stable sort keeps repository order among ties
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})

	return similar
}

// StringSimilarity is a symmetric heuristic in [0,1]: exact match 1.0,
// containment either direction 0.8, otherwise a Dice-style word-overlap
// coefficient. It is explicitly not a semantic similarity measure.
func StringSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}

	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	// Distinct common words keep the coefficient symmetric and in range
	// even when a phrase repeats a word.
	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}
	counted := make(map[string]bool, len(wordsB))
	common := 0
	for _, w := range wordsB {
		if setA[w] && !counted[w] {
			counted[w] = true
			common++
		}
	}

	return 2 * float64(common) / float64(len(wordsA)+len(wordsB))
}
