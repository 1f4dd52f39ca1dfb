package server

import (
	"net/http"

	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/server/middleware"
	"github.com/jonathan/placify/internal/types"
)

// handleDashboard returns the caller's profile summary plus activity
// counts for students and companies.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	ctx := r.Context()

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if user == nil {
		serviceError(w, r, &ErrNotFound{Resource: "user", ID: userID})
		return
	}

	resp := types.DashboardResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Phone:     user.Phone,
		Education: user.Education,
		Skills:    nonNil(user.Skills),
	}
	if user.ProfileImage != "" {
		resp.ProfileImage = &user.ProfileImage
	}

	switch user.Role {
	case db.RoleStudent:
		a, err := s.store.GetStudentActivity(ctx, user.ID)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		resp.Student = &types.StudentDashboard{
			Applications: a.Applications,
			Resumes:      a.Resumes,
			ScoreCount:   a.ScoreCount,
			LatestScore:  a.LatestScore,
			BestScore:    a.BestScore,
		}
	case db.RoleCompany:
		a, err := s.store.GetCompanyActivity(ctx, user.ID)
		if err != nil {
			serviceError(w, r, err)
			return
		}
		resp.Company = &types.CompanyDashboard{
			JobsPosted:      a.JobsPosted,
			OpenJobs:        a.OpenJobs,
			TotalApplicants: a.TotalApplicants,
		}
	}
	jsonResponse(w, http.StatusOK, resp)
}
