package types

import (
	"time"

	"github.com/google/uuid"
)

// CreateJobRequest is posted by a company.
type CreateJobRequest struct {
	Title            string   `json:"title" validate:"required,max=200"`
	Type             string   `json:"type" validate:"required,oneof=Full-time Part-time Internship"`
	Domain           string   `json:"domain" validate:"required,max=100"`
	Location         string   `json:"location" validate:"required,max=200"`
	Salary           string   `json:"salary,omitempty" validate:"omitempty,max=100"`
	Description      string   `json:"description,omitempty"`
	Requirements     []string `json:"requirements,omitempty" validate:"omitempty,dive,min=1"`
	Responsibilities []string `json:"responsibilities,omitempty" validate:"omitempty,dive,min=1"`
}

// UpdateJobRequest is a partial update; nil fields are left unchanged.
type UpdateJobRequest struct {
	Title            *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Type             *string   `json:"type,omitempty" validate:"omitempty,oneof=Full-time Part-time Internship"`
	Domain           *string   `json:"domain,omitempty" validate:"omitempty,min=1,max=100"`
	Location         *string   `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	Status           *string   `json:"status,omitempty" validate:"omitempty,oneof=Open Closed"`
	Salary           *string   `json:"salary,omitempty" validate:"omitempty,max=100"`
	Description      *string   `json:"description,omitempty"`
	Requirements     *[]string `json:"requirements,omitempty"`
	Responsibilities *[]string `json:"responsibilities,omitempty"`
}

// ApplyJobRequest carries a resume link or identifier.
type ApplyJobRequest struct {
	Resume string `json:"resume" validate:"required,max=2048"`
}

// Job is the API view of a posting.
type Job struct {
	ID               uuid.UUID `json:"id"`
	CompanyID        uuid.UUID `json:"companyId"`
	CompanyName      string    `json:"companyName"`
	Title            string    `json:"title"`
	Type             string    `json:"type"`
	Domain           string    `json:"domain"`
	Location         string    `json:"location"`
	Status           string    `json:"status"`
	Salary           string    `json:"salary,omitempty"`
	Description      string    `json:"description,omitempty"`
	Requirements     []string  `json:"requirements"`
	Responsibilities []string  `json:"responsibilities"`
	ApplicantCount   int       `json:"applicantCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Application is the API view of a job application.
type Application struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"jobId"`
	Resume    string    `json:"resume"`
	AppliedAt time.Time `json:"appliedAt"`
	Job       *Job      `json:"job,omitempty"`
}

// Pagination describes one page of a list.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalCount  int  `json:"totalCount"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPagination computes page metadata. limit must be positive.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// JobListResponse is a page of open jobs.
type JobListResponse struct {
	Jobs       []Job      `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateJobRequest using the validator.
func (r *UpdateJobRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ApplyJobRequest using the validator.
func (r *ApplyJobRequest) Validate() error {
	return validate.Struct(r)
}
