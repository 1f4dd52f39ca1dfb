package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/jonathan/placify/internal/analytics"
	"github.com/jonathan/placify/internal/ats"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedScore stores a score whose breakdown has keyword score kw.
func seedScore(t *testing.T, env *testEnv, userID uuid.UUID, score, kw int, title, company string) *db.ResumeScore {
	t.Helper()
	breakdown, err := json.Marshal(ats.Result{
		OverallScore: score,
		Weights:      ats.DefaultWeights(),
		Factors:      ats.Factors{Keywords: ats.KeywordResult{Score: kw}},
	})
	require.NoError(t, err)

	rec := &db.ResumeScore{
		UserID:             userID,
		Score:              score,
		Breakdown:          breakdown,
		JobTitle:           title,
		CompanyName:        company,
		JobDescriptionHash: analytics.JobDescriptionHash(title, company),
		FileName:           "resume.pdf",
		ProcessingMS:       120,
		ScoringVersion:     ats.Version,
	}
	require.NoError(t, env.store.SaveResumeScore(t.Context(), rec))
	return rec
}

func scoreValues(scores []types.ResumeScore) []int {
	out := make([]int, 0, len(scores))
	for _, s := range scores {
		out = append(out, s.Score)
	}
	return out
}

func TestScoreHistory(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "Priya", "priya@example.com", db.RoleStudent)
	other, _ := env.createUser(t, "Other", "other@example.com", db.RoleStudent)

	seedScore(t, env, user.ID, 40, 30, "Backend Engineer", "Acme")
	seedScore(t, env, user.ID, 80, 70, "Backend Engineer", "Acme")
	seedScore(t, env, user.ID, 60, 50, "Data Analyst", "Globex")
	seedScore(t, env, other.ID, 95, 90, "SRE", "Initech")

	tests := []struct {
		name      string
		query     string
		want      []int
		wantPages int
	}{
		{"default newest first", "", []int{60, 80, 40}, 1},
		{"score ascending", "?sortBy=score&sortOrder=asc", []int{40, 60, 80}, 1},
		{"score descending", "?sortBy=score&sortOrder=desc", []int{80, 60, 40}, 1},
		{"unknown sort field falls back", "?sortBy=password", []int{60, 80, 40}, 1},
		{"second page", "?limit=2&page=2", []int{40}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/resume/score"+tt.query, nil, token)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			resp := decodeBody[types.ScoreHistoryResponse](t, w)
			assert.Equal(t, tt.want, scoreValues(resp.Scores))
			assert.Equal(t, 3, resp.Pagination.TotalCount)
			assert.Equal(t, tt.wantPages, resp.Pagination.TotalPages)
		})
	}

	t.Run("limit is capped", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/resume/score?limit=500", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 100, decodeBody[types.ScoreHistoryResponse](t, w).Pagination.Limit)
	})

	t.Run("breakdown is embedded", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/resume/score?limit=1", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[types.ScoreHistoryResponse](t, w)
		require.Len(t, resp.Scores, 1)
		var result ats.Result
		require.NoError(t, json.Unmarshal(resp.Scores[0].Breakdown, &result))
		assert.Equal(t, 50, result.Factors.Keywords.Score)
		assert.Equal(t, ats.Version, resp.Scores[0].ScoringVersion)
		assert.Nil(t, resp.Scores[0].AIFeedback)
	})

	t.Run("requires auth", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/resume/score", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLatestScore(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "Priya", "priya@example.com", db.RoleStudent)

	w := env.do(t, http.MethodGet, "/api/resume/score/latest", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	seedScore(t, env, user.ID, 55, 40, "A", "B")
	latest := seedScore(t, env, user.ID, 72, 60, "C", "D")

	w = env.do(t, http.MethodGet, "/api/resume/score/latest", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[types.ResumeScore](t, w)
	assert.Equal(t, latest.ID, got.ID)
	assert.Equal(t, 72, got.Score)
}

func TestScoreAnalytics(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "Priya", "priya@example.com", db.RoleStudent)

	t.Run("empty history", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/resume/score/analytics", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		report := decodeBody[analytics.Report](t, w)
		assert.Equal(t, 0, report.Stats.TotalScores)
		assert.Nil(t, report.ImprovementTrend)
	})

	seedScore(t, env, user.ID, 40, 30, "Backend Engineer", "Acme")
	seedScore(t, env, user.ID, 80, 70, "backend engineer", "ACME")
	seedScore(t, env, user.ID, 60, 50, "Data Analyst", "Globex")

	w := env.do(t, http.MethodGet, "/api/resume/score/analytics", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decodeBody[analytics.Report](t, w)

	assert.Equal(t, analytics.Stats{
		TotalScores: 3, AverageScore: 60, BestScore: 80, WorstScore: 40, LatestScore: 60, FirstScore: 40,
	}, report.Stats)

	require.Len(t, report.RecentProgress, 3)
	assert.Equal(t, 60, report.RecentProgress[0].Score)
	assert.Equal(t, 50, report.RecentProgress[0].KeywordScore)

	require.NotNil(t, report.ImprovementTrend)
	assert.Equal(t, 60, report.ImprovementTrend.Current)
	assert.Equal(t, 80, report.ImprovementTrend.Previous)
	assert.Equal(t, -20, report.ImprovementTrend.Difference)
	assert.Equal(t, -25.0, report.ImprovementTrend.PercentageChange)
	assert.False(t, report.ImprovementTrend.IsImprovement)

	assert.Equal(t, 50.0, report.FactorAverages.Keywords)
	assert.Equal(t, 3, report.FactorAverages.Samples)

	// Title and company are case-folded into one job.
	require.Len(t, report.JobInsights, 2)
	assert.Equal(t, "Data Analyst", report.JobInsights[0].JobTitle)
	assert.Equal(t, 2, report.JobInsights[1].Attempts)
	assert.Equal(t, 80, report.JobInsights[1].BestScore)
}

func TestDeleteScore(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.createUser(t, "Priya", "priya@example.com", db.RoleStudent)
	_, otherToken := env.createUser(t, "Other", "other@example.com", db.RoleStudent)

	older := seedScore(t, env, user.ID, 50, 40, "A", "B")
	newer := seedScore(t, env, user.ID, 70, 60, "A", "B")
	path := "/api/resume/score/" + newer.ID.String()

	t.Run("other user cannot delete", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, path, nil, otherToken)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("owner deletes", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, path, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, http.MethodGet, "/api/resume/score/latest", nil, token)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, older.ID, decodeBody[types.ResumeScore](t, w).ID)

		w = env.do(t, http.MethodGet, "/api/resume/score", nil, token)
		assert.Equal(t, []int{50}, scoreValues(decodeBody[types.ScoreHistoryResponse](t, w).Scores))
	})

	t.Run("already deleted", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, path, nil, token)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/api/resume/score/latest", nil, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminScoreAnalytics(t *testing.T) {
	env := newTestEnv(t)
	a, studentToken := env.createUser(t, "A", "a@example.com", db.RoleStudent)
	b, _ := env.createUser(t, "B", "b@example.com", db.RoleStudent)
	_, adminToken := env.createUser(t, "Root", "admin@placify.test", db.RoleAdmin)

	for _, s := range []int{40, 80, 60} {
		seedScore(t, env, a.ID, s, s, "T", "C")
	}
	seedScore(t, env, b.ID, 95, 90, "T", "C")
	deleted := seedScore(t, env, b.ID, 10, 10, "T", "C")
	_, err := env.store.SoftDeleteResumeScore(t.Context(), deleted.ID, b.ID)
	require.NoError(t, err)

	t.Run("students are refused", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/resume/score/admin/analytics", nil, studentToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin sees distribution", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/resume/score/admin/analytics", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decodeBody[types.AdminScoreAnalytics](t, w)
		assert.Equal(t, 4, got.TotalScores)
		assert.InDelta(t, 68.75, got.AverageScore, 0.001)
		assert.Equal(t, 2, got.UniqueUsers)
		assert.Equal(t, []types.ScoreBucket{
			{Min: 0, Max: 20, Count: 0},
			{Min: 20, Max: 40, Count: 0},
			{Min: 40, Max: 60, Count: 1},
			{Min: 60, Max: 80, Count: 1},
			{Min: 80, Max: 100, Count: 2},
		}, got.Distribution)
	})
}
