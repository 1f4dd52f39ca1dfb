package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleAdmin       = "admin"
	RoleCompany     = "company"
	RoleEmployee    = "employee"
	RoleStudent     = "student"
	RoleInstitution = "institution"
)

// Job statuses and types.
const (
	JobStatusOpen   = "Open"
	JobStatusClosed = "Closed"

	JobTypeFullTime   = "Full-time"
	JobTypePartTime   = "Part-time"
	JobTypeInternship = "Internship"
)

// User represents an account of any role
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"` // Never serialize to JSON
	Role         string      `json:"role"`
	Name         string      `json:"name"`
	Phone        string      `json:"phone,omitempty"`
	Address      string      `json:"address,omitempty"`
	Gender       string      `json:"gender,omitempty"`
	Education    string      `json:"education,omitempty"`
	ProfileImage string      `json:"profile_image,omitempty"`
	DOB          *time.Time  `json:"dob,omitempty"`
	Skills       StringArray `json:"skills"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewUser holds the fields needed to create a user.
type NewUser struct {
	Email        string
	PasswordHash string
	Role         string
	Name         string
	Phone        string
}

// ProfileUpdate holds optional profile changes. Nil fields are left as is.
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	Address      *string
	Gender       *string
	Education    *string
	ProfileImage *string
	DOB          *time.Time
	Skills       *[]string
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Phone == nil && p.Address == nil && p.Gender == nil &&
		p.Education == nil && p.ProfileImage == nil && p.DOB == nil && p.Skills == nil
}

// Job is a posting owned by a company user
type Job struct {
	ID               uuid.UUID   `json:"id"`
	CompanyID        uuid.UUID   `json:"company_id"`
	CompanyName      string      `json:"company_name"`
	Title            string      `json:"title"`
	Type             string      `json:"type"`
	Domain           string      `json:"domain"`
	Location         string      `json:"location"`
	Status           string      `json:"status"`
	Salary           string      `json:"salary,omitempty"`
	Description      string      `json:"description,omitempty"`
	Requirements     StringArray `json:"requirements"`
	Responsibilities StringArray `json:"responsibilities"`
	ApplicantCount   int         `json:"applicant_count"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// JobUpdate holds optional job changes. Nil fields are left as is.
type JobUpdate struct {
	Title            *string
	Type             *string
	Domain           *string
	Location         *string
	Status           *string
	Salary           *string
	Description      *string
	Requirements     *[]string
	Responsibilities *[]string
}

// IsEmpty reports whether the update changes nothing.
func (u JobUpdate) IsEmpty() bool {
	return u.Title == nil && u.Type == nil && u.Domain == nil && u.Location == nil && u.Status == nil &&
		u.Salary == nil && u.Description == nil && u.Requirements == nil && u.Responsibilities == nil
}

// Application links a student to a job they applied for
type Application struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	UserID    uuid.UUID `json:"user_id"`
	Resume    string    `json:"resume"`
	AppliedAt time.Time `json:"applied_at"`
	Job       *Job      `json:"job,omitempty"`
}

// ResumeScore is a persisted ATS scoring run
type ResumeScore struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	Score              int       `json:"score"`
	Breakdown          []byte    `json:"-"` // JSONB ats.Result
	JobTitle           string    `json:"job_title"`
	CompanyName        string    `json:"company_name"`
	JobDescriptionHash string    `json:"job_description_hash"`
	FileName           string    `json:"file_name"`
	ProcessingMS       int       `json:"processing_ms"`
	ScoringVersion     string    `json:"scoring_version"`
	AIFeedback         []byte    `json:"-"` // JSONB, NULL when no AI analysis ran
	IsDeleted          bool      `json:"is_deleted"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ResetToken is a stored password reset token. Only the hash is kept.
type ResetToken struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// Question is a multiple-choice aptitude question
type Question struct {
	ID          uuid.UUID   `json:"id"`
	Question    string      `json:"question"`
	Options     StringArray `json:"options"`
	Answer      string      `json:"answer"`
	Explanation string      `json:"explanation"`
	Topic       string      `json:"topic"`
	Difficulty  string      `json:"difficulty"`
	Source      string      `json:"source"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Education is one schooling entry on a resume.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// WorkExperience is one position on a resume.
type WorkExperience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Description string `json:"description,omitempty"`
}

// Project is one portfolio entry on a resume.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	TechStack   []string `json:"techStack"`
	Link        string   `json:"link,omitempty"`
}

// Resume is a structured resume owned by a user. Deleting only clears
// IsActive; Version counts edits starting at 1.
type Resume struct {
	ID             uuid.UUID                `json:"id"`
	UserID         uuid.UUID                `json:"user_id"`
	FullName       string                   `json:"full_name"`
	Email          string                   `json:"email"`
	Phone          string                   `json:"phone"`
	Summary        string                   `json:"summary"`
	Skills         StringArray              `json:"skills"`
	Education      JSONList[Education]      `json:"education"`
	WorkExperience JSONList[WorkExperience] `json:"work_experience"`
	Projects       JSONList[Project]        `json:"projects"`
	IsActive       bool                     `json:"is_active"`
	Version        int                      `json:"version"`
	CreatedAt      time.Time                `json:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at"`
}

// ResumeUpdate holds optional resume changes. Nil fields are left as is.
type ResumeUpdate struct {
	FullName       *string
	Email          *string
	Phone          *string
	Summary        *string
	Skills         *[]string
	Education      *[]Education
	WorkExperience *[]WorkExperience
	Projects       *[]Project
}

// ResumeStats aggregates a user's active resumes.
type ResumeStats struct {
	TotalResumes      int
	AverageSkills     float64
	AverageEducation  float64
	AverageExperience float64
	AverageProjects   float64
	LastUpdated       *time.Time
}

// Interview experience types and difficulties.
var (
	InterviewTypes        = []string{"Technical", "HR", "Behavioral", "Group Discussion", "Case Study", "Mixed"}
	InterviewDifficulties = []string{"Easy", "Medium", "Hard", "Very Hard"}
)

// InterviewExperience is a candidate's write-up of an interview.
type InterviewExperience struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"-"`
	Company       string    `json:"company"`
	Role          string    `json:"role"`
	InterviewType string    `json:"interview_type"`
	Difficulty    string    `json:"difficulty"`
	Rating        int       `json:"rating"`
	Experience    string    `json:"experience"`
	Tips          string    `json:"tips"`
	IsApproved    bool      `json:"is_approved"`
	IsPublic      bool      `json:"is_public"`
	CreatedAt     time.Time `json:"created_at"`
}

// CompanyInterviewStats is one row of the most-reviewed companies.
type CompanyInterviewStats struct {
	Company       string
	Count         int
	AverageRating float64
}

// InterviewStats aggregates the visible interview experiences.
type InterviewStats struct {
	TotalExperiences int
	AverageRating    float64
	UniqueCompanies  int
	ByType           map[string]int
	ByDifficulty     map[string]int
	TopCompanies     []CompanyInterviewStats
}

// JSONList handles JSONB arrays of structured entries
type JSONList[T any] []T

// Scan implements the Scanner interface for JSONList
func (l *JSONList[T]) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = JSONList[T]{}
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return errors.New("JSONList: unsupported source type")
	}
}

// Value implements the Valuer interface for JSONList
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// StringArray handles JSONB string arrays
type StringArray []string

// Scan implements the Scanner interface for StringArray
func (a *StringArray) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return errors.New("StringArray: unsupported source type")
	}
}

// Value implements the Valuer interface for StringArray
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}
