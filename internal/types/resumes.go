package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EducationEntry is one schooling entry of a resume.
type EducationEntry struct {
	Institution string `json:"institution" validate:"max=200"`
	Degree      string `json:"degree" validate:"max=200"`
	StartDate   string `json:"startDate,omitempty" validate:"max=30"`
	EndDate     string `json:"endDate,omitempty" validate:"max=30"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// WorkEntry is one position of a resume.
type WorkEntry struct {
	Company     string `json:"company" validate:"max=200"`
	Role        string `json:"role" validate:"max=200"`
	StartDate   string `json:"startDate,omitempty" validate:"max=30"`
	EndDate     string `json:"endDate,omitempty" validate:"max=30"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// ProjectEntry is one portfolio entry of a resume.
type ProjectEntry struct {
	Title       string   `json:"title" validate:"max=200"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	TechStack   []string `json:"techStack" validate:"max=50,dive,max=50"`
	Link        string   `json:"link,omitempty" validate:"omitempty,url"`
}

// CreateResumeRequest creates a structured resume.
type CreateResumeRequest struct {
	FullName       string           `json:"fullName" validate:"required,max=100"`
	Email          string           `json:"email" validate:"required,email"`
	Phone          string           `json:"phone" validate:"required,max=20"`
	Summary        string           `json:"summary,omitempty" validate:"max=5000"`
	Skills         []string         `json:"skills,omitempty" validate:"max=100,dive,max=100"`
	Education      []EducationEntry `json:"education,omitempty" validate:"max=20,dive"`
	WorkExperience []WorkEntry      `json:"workExperience,omitempty" validate:"max=30,dive"`
	Projects       []ProjectEntry   `json:"projects,omitempty" validate:"max=30,dive"`
}

// UpdateResumeRequest is a partial update; nil fields are left unchanged.
// Present contact fields may not be blank.
type UpdateResumeRequest struct {
	FullName       *string           `json:"fullName,omitempty" validate:"omitnil,min=1,max=100"`
	Email          *string           `json:"email,omitempty" validate:"omitnil,email"`
	Phone          *string           `json:"phone,omitempty" validate:"omitnil,min=1,max=20"`
	Summary        *string           `json:"summary,omitempty" validate:"omitempty,max=5000"`
	Skills         *[]string         `json:"skills,omitempty" validate:"omitempty,max=100,dive,max=100"`
	Education      *[]EducationEntry `json:"education,omitempty" validate:"omitempty,max=20,dive"`
	WorkExperience *[]WorkEntry      `json:"workExperience,omitempty" validate:"omitempty,max=30,dive"`
	Projects       *[]ProjectEntry   `json:"projects,omitempty" validate:"omitempty,max=30,dive"`
}

// Resume is the API view of a structured resume.
type Resume struct {
	ID             uuid.UUID        `json:"id"`
	FullName       string           `json:"fullName"`
	Email          string           `json:"email"`
	Phone          string           `json:"phone"`
	Summary        string           `json:"summary"`
	Skills         []string         `json:"skills"`
	Education      []EducationEntry `json:"education"`
	WorkExperience []WorkEntry      `json:"workExperience"`
	Projects       []ProjectEntry   `json:"projects"`
	Version        int              `json:"version"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ResumeListResponse lists the caller's resumes.
type ResumeListResponse struct {
	Resumes []Resume `json:"resumes"`
	Count   int      `json:"count"`
}

// ResumeAnalytics averages entry counts over the caller's resumes.
type ResumeAnalytics struct {
	TotalResumes      int        `json:"totalResumes"`
	AverageSkills     float64    `json:"averageSkills"`
	AverageEducation  float64    `json:"averageEducation"`
	AverageExperience float64    `json:"averageExperience"`
	AverageProjects   float64    `json:"averageProjects"`
	LastUpdated       *time.Time `json:"lastUpdated"`
}

// Normalize trims every field, lowercases the email and drops blank
// list entries.
func (r *CreateResumeRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Summary = strings.TrimSpace(r.Summary)
	r.Skills = CleanStrings(r.Skills)
	r.Education = CleanEducation(r.Education)
	r.WorkExperience = CleanWork(r.WorkExperience)
	r.Projects = CleanProjects(r.Projects)
}

// Normalize applies the CreateResumeRequest rules to the present fields.
func (r *UpdateResumeRequest) Normalize() {
	trim := func(p *string) {
		if p != nil {
			*p = strings.TrimSpace(*p)
		}
	}
	trim(r.FullName)
	trim(r.Phone)
	trim(r.Summary)
	if r.Email != nil {
		*r.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Skills != nil {
		*r.Skills = CleanStrings(*r.Skills)
	}
	if r.Education != nil {
		*r.Education = CleanEducation(*r.Education)
	}
	if r.WorkExperience != nil {
		*r.WorkExperience = CleanWork(*r.WorkExperience)
	}
	if r.Projects != nil {
		*r.Projects = CleanProjects(*r.Projects)
	}
}

// CleanStrings trims each value and drops the blank ones. Never nil.
func CleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CleanEducation trims entries and drops those with every field blank.
func CleanEducation(in []EducationEntry) []EducationEntry {
	out := make([]EducationEntry, 0, len(in))
	for _, e := range in {
		e = EducationEntry{
			Institution: strings.TrimSpace(e.Institution),
			Degree:      strings.TrimSpace(e.Degree),
			StartDate:   strings.TrimSpace(e.StartDate),
			EndDate:     strings.TrimSpace(e.EndDate),
			Description: strings.TrimSpace(e.Description),
		}
		if e != (EducationEntry{}) {
			out = append(out, e)
		}
	}
	return out
}

// CleanWork trims entries and drops those with every field blank.
func CleanWork(in []WorkEntry) []WorkEntry {
	out := make([]WorkEntry, 0, len(in))
	for _, w := range in {
		w = WorkEntry{
			Company:     strings.TrimSpace(w.Company),
			Role:        strings.TrimSpace(w.Role),
			StartDate:   strings.TrimSpace(w.StartDate),
			EndDate:     strings.TrimSpace(w.EndDate),
			Description: strings.TrimSpace(w.Description),
		}
		if w != (WorkEntry{}) {
			out = append(out, w)
		}
	}
	return out
}

// CleanProjects trims entries and drops those with every field blank.
func CleanProjects(in []ProjectEntry) []ProjectEntry {
	out := make([]ProjectEntry, 0, len(in))
	for _, p := range in {
		p = ProjectEntry{
			Title:       strings.TrimSpace(p.Title),
			Description: strings.TrimSpace(p.Description),
			TechStack:   CleanStrings(p.TechStack),
			Link:        strings.TrimSpace(p.Link),
		}
		if p.Title != "" || p.Description != "" || len(p.TechStack) > 0 || p.Link != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate validates the CreateResumeRequest using the validator.
func (r *CreateResumeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateResumeRequest using the validator.
func (r *UpdateResumeRequest) Validate() error {
	return validate.Struct(r)
}
