package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/server/middleware"
	"github.com/jonathan/placify/internal/types"
)

const (
	defaultJobsPageSize = 10
	maxJobsPageSize     = 100
)

func toAPIJob(j *db.Job) types.Job {
	return types.Job{
		ID:               j.ID,
		CompanyID:        j.CompanyID,
		CompanyName:      j.CompanyName,
		Title:            j.Title,
		Type:             j.Type,
		Domain:           j.Domain,
		Location:         j.Location,
		Status:           j.Status,
		Salary:           j.Salary,
		Description:      j.Description,
		Requirements:     nonNil(j.Requirements),
		Responsibilities: nonNil(j.Responsibilities),
		ApplicantCount:   j.ApplicantCount,
		CreatedAt:        j.CreatedAt,
		UpdatedAt:        j.UpdatedAt,
	}
}

func toAPIJobs(jobs []db.Job) []types.Job {
	out := make([]types.Job, 0, len(jobs))
	for i := range jobs {
		out = append(out, toAPIJob(&jobs[i]))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// pathUUID parses the {name} path value.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a valid ID"}
	}
	return id, nil
}

// handleListJobs returns a page of open jobs.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := min(queryInt(r, "limit", defaultJobsPageSize), maxJobsPageSize)

	jobs, total, err := s.store.ListJobs(r.Context(), db.JobFilters{Status: db.JobStatusOpen, Page: page, Limit: limit})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types.JobListResponse{
		Jobs:       toAPIJobs(jobs),
		Pagination: types.NewPagination(page, limit, total),
	})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, r, err)
		return
	}
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if job == nil {
		serviceError(w, r, &ErrNotFound{Resource: "job", ID: id})
		return
	}
	jsonResponse(w, http.StatusOK, toAPIJob(job))
}

// handleCreateJob posts a job owned by the calling company.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	companyID, _ := middleware.GetUserID(r)

	var req types.CreateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, r, err)
		return
	}

	job, err := s.store.CreateJob(r.Context(), db.NewJob{
		CompanyID:        companyID,
		Title:            strings.TrimSpace(req.Title),
		Type:             req.Type,
		Domain:           strings.TrimSpace(req.Domain),
		Location:         strings.TrimSpace(req.Location),
		Salary:           strings.TrimSpace(req.Salary),
		Description:      req.Description,
		Requirements:     req.Requirements,
		Responsibilities: req.Responsibilities,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, toAPIJob(job))
}

// loadJob fetches the {id} job, writing 400/404 responses itself.
func (s *Server) loadJob(w http.ResponseWriter, r *http.Request) (*db.Job, bool) {
	id, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, r, err)
		return nil, false
	}
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		serviceError(w, r, err)
		return nil, false
	}
	if job == nil {
		serviceError(w, r, &ErrNotFound{Resource: "job", ID: id})
		return nil, false
	}
	return job, true
}

// handleUpdateJob lets the owning company edit its posting.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r)
	if job.CompanyID != userID {
		serviceError(w, r, &ErrForbidden{Reason: "only the posting company can edit this job"})
		return
	}

	var req types.UpdateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, r, err)
		return
	}

	updated, err := s.store.UpdateJob(r.Context(), job.ID, db.JobUpdate{
		Title:            trimmed(req.Title),
		Type:             req.Type,
		Domain:           trimmed(req.Domain),
		Location:         trimmed(req.Location),
		Status:           req.Status,
		Salary:           trimmed(req.Salary),
		Description:      req.Description,
		Requirements:     req.Requirements,
		Responsibilities: req.Responsibilities,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if updated == nil {
		serviceError(w, r, &ErrNotFound{Resource: "job", ID: job.ID})
		return
	}
	jsonResponse(w, http.StatusOK, toAPIJob(updated))
}

// handleDeleteJob lets the owning company or an admin remove a posting.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserID(r)
	if job.CompanyID != userID && middleware.GetRole(r) != db.RoleAdmin {
		serviceError(w, r, &ErrForbidden{Reason: "only the posting company or an admin can delete this job"})
		return
	}

	if _, err := s.store.DeleteJob(r.Context(), job.ID); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "Job deleted successfully"})
}

// handleApplyJob records a student's application to an open job.
func (s *Server) handleApplyJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	if job.Status != db.JobStatusOpen {
		serviceError(w, r, &ErrConflict{Message: "This job is no longer accepting applications."})
		return
	}

	var req types.ApplyJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, r, err)
		return
	}

	userID, _ := middleware.GetUserID(r)
	app, err := s.store.ApplyToJob(r.Context(), job.ID, userID, strings.TrimSpace(req.Resume))
	if errors.Is(err, db.ErrDuplicate) {
		serviceError(w, r, &ErrConflict{Message: "You have already applied for this job."})
		return
	}
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, types.Application{
		ID:        app.ID,
		JobID:     app.JobID,
		Resume:    app.Resume,
		AppliedAt: app.AppliedAt,
	})
}

// handleAppliedJobs lists the calling student's applications.
func (s *Server) handleAppliedJobs(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	apps, err := s.store.ListApplicationsByUser(r.Context(), userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	out := make([]types.Application, 0, len(apps))
	for _, a := range apps {
		item := types.Application{ID: a.ID, JobID: a.JobID, Resume: a.Resume, AppliedAt: a.AppliedAt}
		if a.Job != nil {
			j := toAPIJob(a.Job)
			item.Job = &j
		}
		out = append(out, item)
	}
	jsonResponse(w, http.StatusOK, map[string]any{"applications": out})
}

func (s *Server) handleWithdrawApplication(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathUUID(r, "id")
	if err != nil {
		serviceError(w, r, err)
		return
	}
	userID, _ := middleware.GetUserID(r)

	removed, err := s.store.WithdrawApplication(r.Context(), jobID, userID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if !removed {
		serviceError(w, r, &ErrNotFound{Resource: "application"})
		return
	}
	jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "Application withdrawn successfully"})
}

// handleMyJobs lists every posting of the calling company, open or closed,
// with applicant counts.
func (s *Server) handleMyJobs(w http.ResponseWriter, r *http.Request) {
	companyID, _ := middleware.GetUserID(r)
	jobs, _, err := s.store.ListJobs(r.Context(), db.JobFilters{CompanyID: companyID})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"jobs": toAPIJobs(jobs)})
}
