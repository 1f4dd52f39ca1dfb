package server

import (
	"net/http"

	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/server/middleware"
	"github.com/jonathan/placify/internal/types"
)

func toAPIResume(r *db.Resume) types.Resume {
	out := types.Resume{
		ID:             r.ID,
		FullName:       r.FullName,
		Email:          r.Email,
		Phone:          r.Phone,
		Summary:        r.Summary,
		Skills:         nonNil(r.Skills),
		Education:      make([]types.EducationEntry, 0, len(r.Education)),
		WorkExperience: make([]types.WorkEntry, 0, len(r.WorkExperience)),
		Projects:       make([]types.ProjectEntry, 0, len(r.Projects)),
		Version:        r.Version,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	for _, e := range r.Education {
		out.Education = append(out.Education, types.EducationEntry(e))
	}
	for _, w := range r.WorkExperience {
		out.WorkExperience = append(out.WorkExperience, types.WorkEntry(w))
	}
	for _, p := range r.Projects {
		p.TechStack = nonNil(p.TechStack)
		out.Projects = append(out.Projects, types.ProjectEntry(p))
	}
	return out
}

func fromAPIEducation(in []types.EducationEntry) []db.Education {
	out := make([]db.Education, 0, len(in))
	for _, e := range in {
		out = append(out, db.Education(e))
	}
	return out
}

func fromAPIWork(in []types.WorkEntry) []db.WorkExperience {
	out := make([]db.WorkExperience, 0, len(in))
	for _, w := range in {
		out = append(out, db.WorkExperience(w))
	}
	return out
}

func fromAPIProjects(in []types.ProjectEntry) []db.Project {
	out := make([]db.Project, 0, len(in))
	for _, p := range in {
		out = append(out, db.Project(p))
	}
	return out
}

// handleCreateResume stores a new structured resume for the caller.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req types.CreateResumeRequest
	if err := decodeJSONWith(w, r, &req, req.Normalize); err != nil {
		serviceError(w, r, err)
		return
	}

	resume := &db.Resume{
		UserID:         userID,
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Summary:        req.Summary,
		Skills:         req.Skills,
		Education:      fromAPIEducation(req.Education),
		WorkExperience: fromAPIWork(req.WorkExperience),
		Projects:       fromAPIProjects(req.Projects),
	}
	if err := s.store.CreateResume(r.Context(), resume); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toAPIResume(resume))
}

// handleListResumes lists the caller's active resumes, most recently
// updated first.
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	resumes, err := s.store.ListResumes(r.Context(), userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	out := make([]types.Resume, 0, len(resumes))
	for i := range resumes {
		out = append(out, toAPIResume(&resumes[i]))
	}
	jsonResponse(w, http.StatusOK, types.ResumeListResponse{Resumes: out, Count: len(out)})
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, r, err)
		return
	}
	userID, _ := middleware.GetUserID(r)
	resume, err := s.store.GetResume(r.Context(), id, userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if resume == nil {
		serviceError(w, r, &ErrNotFound{Resource: "resume", ID: id})
		return
	}
	jsonResponse(w, http.StatusOK, toAPIResume(resume))
}

// handleUpdateResume applies a partial update and bumps the version.
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, r, err)
		return
	}
	userID, _ := middleware.GetUserID(r)

	var req types.UpdateResumeRequest
	if err := decodeJSONWith(w, r, &req, req.Normalize); err != nil {
		serviceError(w, r, err)
		return
	}

	u := db.ResumeUpdate{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Summary:  req.Summary,
		Skills:   req.Skills,
	}
	if req.Education != nil {
		v := fromAPIEducation(*req.Education)
		u.Education = &v
	}
	if req.WorkExperience != nil {
		v := fromAPIWork(*req.WorkExperience)
		u.WorkExperience = &v
	}
	if req.Projects != nil {
		v := fromAPIProjects(*req.Projects)
		u.Projects = &v
	}

	updated, err := s.store.UpdateResume(r.Context(), id, userID, u)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if updated == nil {
		serviceError(w, r, &ErrNotFound{Resource: "resume", ID: id})
		return
	}
	jsonResponse(w, http.StatusOK, toAPIResume(updated))
}

// handleDeleteResume soft-deletes one of the caller's resumes.
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, r, err)
		return
	}
	userID, _ := middleware.GetUserID(r)
	removed, err := s.store.DeactivateResume(r.Context(), id, userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if !removed {
		serviceError(w, r, &ErrNotFound{Resource: "resume", ID: id})
		return
	}
	jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "Resume deleted successfully"})
}

func (s *Server) handleResumeAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	stats, err := s.store.GetResumeStats(r.Context(), userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types.ResumeAnalytics{
		TotalResumes:      stats.TotalResumes,
		AverageSkills:     round2(stats.AverageSkills),
		AverageEducation:  round2(stats.AverageEducation),
		AverageExperience: round2(stats.AverageExperience),
		AverageProjects:   round2(stats.AverageProjects),
		LastUpdated:       stats.LastUpdated,
	})
}
