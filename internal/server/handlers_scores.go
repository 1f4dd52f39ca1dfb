package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/placify/internal/analytics"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/server/middleware"
	"github.com/jonathan/placify/internal/types"
)

const (
	defaultScorePageSize = 20
	maxScorePageSize     = 100
)

func toAPIScore(s *db.ResumeScore) types.ResumeScore {
	out := types.ResumeScore{
		ID:                 s.ID,
		Score:              s.Score,
		Breakdown:          rawOrNull(s.Breakdown),
		JobTitle:           s.JobTitle,
		CompanyName:        s.CompanyName,
		JobDescriptionHash: s.JobDescriptionHash,
		FileName:           s.FileName,
		ProcessingMS:       s.ProcessingMS,
		ScoringVersion:     s.ScoringVersion,
		CreatedAt:          s.CreatedAt,
	}
	if len(s.AIFeedback) > 0 {
		out.AIFeedback = json.RawMessage(s.AIFeedback)
	}
	return out
}

func rawOrNull(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}

// handleScoreHistory pages through the caller's scores.
// Query: limit (max 100), page, sortBy (createdAt|score), sortOrder (asc|desc).
func (s *Server) handleScoreHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	q := r.URL.Query()
	page := queryInt(r, "page", 1)
	limit := min(queryInt(r, "limit", defaultScorePageSize), maxScorePageSize)
	sortBy := q.Get("sortBy")
	if sortBy != db.ScoreSortScore {
		sortBy = db.ScoreSortCreatedAt
	}

	scores, total, err := s.store.ListResumeScores(r.Context(), db.ScoreFilters{
		UserID:    userID,
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		Ascending: strings.EqualFold(q.Get("sortOrder"), "asc"),
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}

	out := make([]types.ResumeScore, 0, len(scores))
	for i := range scores {
		out = append(out, toAPIScore(&scores[i]))
	}
	jsonResponse(w, http.StatusOK, types.ScoreHistoryResponse{
		Scores:     out,
		Pagination: types.NewPagination(page, limit, total),
	})
}

func (s *Server) handleLatestScore(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	latest, err := s.store.LatestResumeScore(r.Context(), userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if latest == nil {
		errorResponse(w, http.StatusNotFound, "No scores found for this user")
		return
	}
	jsonResponse(w, http.StatusOK, toAPIScore(latest))
}

func (s *Server) handleScoreAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	scores, err := s.store.ListAllResumeScores(r.Context(), userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, analytics.Build(scores))
}

// handleDeleteScore soft-deletes one of the caller's scores.
func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, r, err)
		return
	}
	userID, _ := middleware.GetUserID(r)

	deleted, err := s.store.SoftDeleteResumeScore(r.Context(), id, userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if !deleted {
		errorResponse(w, http.StatusNotFound, "Score entry not found or access denied")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Score entry deleted successfully",
		"id":      id,
	})
}

// handleAdminScoreAnalytics reports platform-wide totals and the score
// distribution. Admin only.
func (s *Server) handleAdminScoreAnalytics(w http.ResponseWriter, r *http.Request) {
	dist, err := s.store.ResumeScoreDistribution(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}

	bounds := db.ScoreBucketBounds
	buckets := make([]types.ScoreBucket, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		count := 0
		if i < len(dist.Buckets) {
			count = dist.Buckets[i]
		}
		buckets = append(buckets, types.ScoreBucket{Min: bounds[i], Max: bounds[i+1], Count: count})
	}

	jsonResponse(w, http.StatusOK, types.AdminScoreAnalytics{
		TotalScores:  dist.TotalScores,
		AverageScore: dist.AverageScore,
		UniqueUsers:  dist.UniqueUsers,
		Distribution: buckets,
	})
}
