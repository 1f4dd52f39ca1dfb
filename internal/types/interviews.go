package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateInterviewExperienceRequest shares an interview write-up.
type CreateInterviewExperienceRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Email         string `json:"email" validate:"required,email"`
	Company       string `json:"company" validate:"required,max=200"`
	Role          string `json:"role" validate:"required,max=200"`
	InterviewType string `json:"interviewType" validate:"required,oneof='Technical' 'HR' 'Behavioral' 'Group Discussion' 'Case Study' 'Mixed'"`
	Difficulty    string `json:"difficulty" validate:"required,oneof='Easy' 'Medium' 'Hard' 'Very Hard'"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Experience    string `json:"experience" validate:"required,max=10000"`
	Tips          string `json:"tips,omitempty" validate:"max=5000"`
}

// Normalize trims the text fields and lowercases the email.
func (r *CreateInterviewExperienceRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Company = strings.TrimSpace(r.Company)
	r.Role = strings.TrimSpace(r.Role)
	r.Experience = strings.TrimSpace(r.Experience)
	r.Tips = strings.TrimSpace(r.Tips)
}

// InterviewExperience is the public view of an experience. The author's
// email is never returned.
type InterviewExperience struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Company       string    `json:"company"`
	Role          string    `json:"role"`
	CompanyRole   string    `json:"companyRole"`
	InterviewType string    `json:"interviewType"`
	Difficulty    string    `json:"difficulty"`
	Rating        int       `json:"rating"`
	Experience    string    `json:"experience"`
	Tips          string    `json:"tips"`
	CreatedAt     time.Time `json:"createdAt"`
}

// InterviewExperienceListResponse is a page of visible experiences.
type InterviewExperienceListResponse struct {
	Experiences []InterviewExperience `json:"experiences"`
	Pagination  Pagination            `json:"pagination"`
}

// CompanyInterviewSummary is one of the most-reviewed companies.
type CompanyInterviewSummary struct {
	Company         string  `json:"company"`
	ExperienceCount int     `json:"experienceCount"`
	AverageRating   float64 `json:"averageRating"`
}

// InterviewStatsResponse aggregates the visible experiences.
type InterviewStatsResponse struct {
	TotalExperiences int                       `json:"totalExperiences"`
	AverageRating    float64                   `json:"averageRating"`
	UniqueCompanies  int                       `json:"uniqueCompanies"`
	ByType           map[string]int            `json:"byInterviewType"`
	ByDifficulty     map[string]int            `json:"byDifficulty"`
	TopCompanies     []CompanyInterviewSummary `json:"topCompanies"`
}

// Validate validates the CreateInterviewExperienceRequest using the validator.
func (r *CreateInterviewExperienceRequest) Validate() error {
	return validate.Struct(r)
}
