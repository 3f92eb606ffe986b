package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckDuplicateExactMatch(t *testing.T) {
	repo := &stubRepo{apps: []*Application{{
		ID:          "app-1",
		UserID:      "user-1",
		Company:     "Acme Corp",
		Role:        "Software Engineer",
		DateApplied: "2026-02-03",
	}}}
	detector := NewDuplicateDetector(repo, zap.NewNop())

	verdict, err := detector.CheckDuplicate(context.Background(), "user-1", "Acme Corp", "Software Engineer", "2026-02-03")
	require.NoError(t, err)
	assert.True(t, verdict.IsDuplicate)
	assert.Equal(t, "app-1", verdict.DuplicateID)
	assert.Equal(t, 1.0, verdict.Similarity)
	assert.Equal(t, "Exact match", verdict.Reason)
}

func TestCheckDuplicateIsExact(t *testing.T) {
	repo := &stubRepo{apps: []*Application{{
		ID:          "app-1",
		UserID:      "user-1",
		Company:     "Acme Corp",
		Role:        "Software Engineer",
		DateApplied: "2026-02-03",
	}}}
	detector := NewDuplicateDetector(repo, zap.NewNop())

	tests := []struct {
		name        string
		userID      string
		company     string
		role        string
		dateApplied string
	}{
		{
			name:        "different casing is not a duplicate",
			userID:      "user-1",
			company:     "acme corp",
			role:        "Software Engineer",
			dateApplied: "2026-02-03",
		},
		{
			name:        "different date is not a duplicate",
			userID:      "user-1",
			company:     "Acme Corp",
			role:        "Software Engineer",
			dateApplied: "2026-02-04",
		},
		{
			name:        "different role is not a duplicate",
			userID:      "user-1",
			company:     "Acme Corp",
			role:        "Senior Software Engineer",
			dateApplied: "2026-02-03",
		},
		{
			name:        "different user is not a duplicate",
			userID:      "user-2",
			company:     "Acme Corp",
			role:        "Software Engineer",
			dateApplied: "2026-02-03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, err := detector.CheckDuplicate(context.Background(), tt.userID, tt.company, tt.role, tt.dateApplied)
			require.NoError(t, err)
			assert.False(t, verdict.IsDuplicate)
			assert.Empty(t, verdict.DuplicateID)
		})
	}
}

func TestCheckDuplicateRepositoryFailure(t *testing.T) {
	detector := NewDuplicateDetector(&stubRepo{failFind: true}, zap.NewNop())

	// Never report "no duplicate" on a storage failure
	verdict, err := detector.CheckDuplicate(context.Background(), "user-1", "Acme", "Engineer", "2026-02-03")
	require.Error(t, err)
	assert.ErrorIs(t, err, errRepoDown)
	assert.Nil(t, verdict)
}

func TestFindSimilarApplications(t *testing.T) {
	repo := &stubRepo{apps: []*Application{
		{ID: "app-1", UserID: "user-1", Company: "Acme Corp", Role: "Software Engineer"},
		{ID: "app-2", UserID: "user-1", Company: "Globex", Role: "Accountant"},
		{ID: "app-3", UserID: "user-2", Company: "Acme Corp", Role: "Software Engineer"},
	}}
	detector := NewDuplicateDetector(repo, zap.NewNop())

	candidate := &Application{
		ID:      "candidate-1",
		UserID:  "user-1",
		Company: "Acme Corporation",
		Role:    "Senior Software Engineer",
	}

	similar := detector.FindSimilarApplications(context.Background(), candidate, 0.7)
	require.Len(t, similar, 1)
	assert.Equal(t, "app-1", similar[0].Application.ID)
	assert.GreaterOrEqual(t, similar[0].Similarity, 0.7)
	assert.LessOrEqual(t, similar[0].Similarity, 1.0)
}

func TestFindSimilarApplicationsExcludesSelf(t *testing.T) {
	repo := &stubRepo{apps: []*Application{
		{ID: "app-1", UserID: "user-1", Company: "Acme Corp", Role: "Software Engineer"},
	}}
	detector := NewDuplicateDetector(repo, zap.NewNop())

	candidate := &Application{
		ID:      "app-1",
		UserID:  "user-1",
		Company: "Acme Corp",
		Role:    "Software Engineer",
	}

	assert.Empty(t, detector.FindSimilarApplications(context.Background(), candidate, 0.7))
}

func TestFindSimilarApplicationsSorted(t *testing.T) {
	repo := &stubRepo{apps: []*Application{
		{ID: "app-1", UserID: "user-1", Company: "Acme Holdings", Role: "Engineer II"},
		{ID: "app-2", UserID: "user-1", Company: "Acme Corp", Role: "Software Engineer"},
	}}
	detector := NewDuplicateDetector(repo, zap.NewNop())

	candidate := &Application{
		ID:      "candidate-1",
		UserID:  "user-1",
		Company: "Acme Corp",
		Role:    "Software Engineer",
	}

	similar := detector.FindSimilarApplications(context.Background(), candidate, 0.5)
	require.Len(t, similar, 2)
	assert.Equal(t, "app-2", similar[0].Application.ID)
	assert.GreaterOrEqual(t, similar[0].Similarity, similar[1].Similarity)
}

func TestFindSimilarApplicationsDegradesOnFailure(t *testing.T) {
	detector := NewDuplicateDetector(&stubRepo{failList: true}, zap.NewNop())

	candidate := &Application{ID: "candidate-1", UserID: "user-1", Company: "Acme", Role: "Engineer"}
	assert.Empty(t, detector.FindSimilarApplications(context.Background(), candidate, 0.7))
}

func TestFindSimilarApplicationsGuards(t *testing.T) {
	detector := NewDuplicateDetector(&stubRepo{}, zap.NewNop())

	assert.Nil(t, detector.FindSimilarApplications(context.Background(), nil, 0.7))
	assert.Nil(t, detector.FindSimilarApplications(context.Background(), &Application{Company: "Acme"}, 0.7))
}

func TestStringSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{name: "exact match", a: "Acme Corp", b: "Acme Corp", want: 1.0},
		{name: "case and whitespace insensitive", a: "  ACME corp ", b: "acme CORP", want: 1.0},
		{name: "containment", a: "Acme", b: "Acme Corporation", want: 0.8},
		{name: "containment reversed", a: "Acme Corporation", b: "Acme", want: 0.8},
		{name: "empty left", a: "", b: "Acme", want: 0},
		{name: "empty right", a: "Acme", b: "", want: 0},
		{name: "both empty", a: "", b: "", want: 0},
		{name: "no overlap", a: "Acme Corp", b: "Globex Industries", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, StringSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestStringSimilarityWordOverlap(t *testing.T) {
	// Two common words of four total
	got := StringSimilarity("Senior Data Engineer", "Data Engineer Intern Role")
	assert.InDelta(t, 2*2.0/7.0, got, 1e-9)
}

func TestStringSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Software Engineer", "Senior Software Engineer Backend"},
		{"Acme Corp", "Acme Inc"},
		{"a a", "a"},
		{"Data Scientist", "Scientist Data"},
	}

	for _, pair := range pairs {
		ab := StringSimilarity(pair[0], pair[1])
		ba := StringSimilarity(pair[1], pair[0])
		assert.Equal(t, ab, ba, "similarity(%q, %q)", pair[0], pair[1])
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.LessOrEqual(t, ab, 1.0)
	}
}
