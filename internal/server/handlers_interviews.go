package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/types"
)

const (
	defaultExperiencePageSize = 10
	maxExperiencePageSize     = 50
)

func toAPIExperience(e *db.InterviewExperience) types.InterviewExperience {
	return types.InterviewExperience{
		ID:            e.ID,
		Name:          e.Name,
		Company:       e.Company,
		Role:          e.Role,
		CompanyRole:   e.Company + " - " + e.Role,
		InterviewType: e.InterviewType,
		Difficulty:    e.Difficulty,
		Rating:        e.Rating,
		Experience:    e.Experience,
		Tips:          e.Tips,
		CreatedAt:     e.CreatedAt,
	}
}

// handleCreateInterviewExperience publishes a write-up. Submissions are
// approved on arrival.
func (s *Server) handleCreateInterviewExperience(w http.ResponseWriter, r *http.Request) {
	var req types.CreateInterviewExperienceRequest
	if err := decodeJSONWith(w, r, &req, req.Normalize); err != nil {
		serviceError(w, r, err)
		return
	}

	e := &db.InterviewExperience{
		Name:          req.Name,
		Email:         req.Email,
		Company:       req.Company,
		Role:          req.Role,
		InterviewType: req.InterviewType,
		Difficulty:    req.Difficulty,
		Rating:        req.Rating,
		Experience:    req.Experience,
		Tips:          req.Tips,
		IsApproved:    true,
		IsPublic:      true,
	}
	if err := s.store.CreateInterviewExperience(r.Context(), e); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toAPIExperience(e))
}

// handleListInterviewExperiences returns a page of visible write-ups.
// sortBy is createdAt (default) or rating; sortOrder is desc (default) or asc.
func (s *Server) handleListInterviewExperiences(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := min(queryInt(r, "limit", defaultExperiencePageSize), maxExperiencePageSize)
	q := r.URL.Query()

	sortBy := db.ExperienceSortCreatedAt
	if q.Get("sortBy") == db.ExperienceSortRating {
		sortBy = db.ExperienceSortRating
	}

	experiences, total, err := s.store.ListInterviewExperiences(r.Context(), db.ExperienceFilters{
		Page:      page,
		Limit:     limit,
		SortBy:    sortBy,
		Ascending: strings.EqualFold(q.Get("sortOrder"), "asc"),
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}

	out := make([]types.InterviewExperience, 0, len(experiences))
	for i := range experiences {
		out = append(out, toAPIExperience(&experiences[i]))
	}
	jsonResponse(w, http.StatusOK, types.InterviewExperienceListResponse{
		Experiences: out,
		Pagination:  types.NewPagination(page, limit, total),
	})
}

func (s *Server) handleGetInterviewExperience(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, r, err)
		return
	}
	e, err := s.store.GetInterviewExperience(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if e == nil {
		serviceError(w, r, &ErrNotFound{Resource: "interview experience", ID: id})
		return
	}
	if !e.IsApproved || !e.IsPublic {
		serviceError(w, r, &ErrForbidden{Reason: "this interview experience is not publicly available"})
		return
	}
	jsonResponse(w, http.StatusOK, toAPIExperience(e))
}

func (s *Server) handleInterviewStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetInterviewStats(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	top := make([]types.CompanyInterviewSummary, 0, len(stats.TopCompanies))
	for _, c := range stats.TopCompanies {
		top = append(top, types.CompanyInterviewSummary{
			Company:         c.Company,
			ExperienceCount: c.Count,
			AverageRating:   round2(c.AverageRating),
		})
	}
	jsonResponse(w, http.StatusOK, types.InterviewStatsResponse{
		TotalExperiences: stats.TotalExperiences,
		AverageRating:    round2(stats.AverageRating),
		UniqueCompanies:  stats.UniqueCompanies,
		ByType:           stats.ByType,
		ByDifficulty:     stats.ByDifficulty,
		TopCompanies:     top,
	})
}
