package types

import "github.com/google/uuid"

// StudentDashboard is the activity block shown to students.
type StudentDashboard struct {
	Applications int  `json:"applications"`
	Resumes      int  `json:"resumes"`
	ScoreCount   int  `json:"scoreCount"`
	LatestScore  *int `json:"latestScore"`
	BestScore    *int `json:"bestScore"`
}

// CompanyDashboard is the activity block shown to companies.
type CompanyDashboard struct {
	JobsPosted      int `json:"jobsPosted"`
	OpenJobs        int `json:"openJobs"`
	TotalApplicants int `json:"totalApplicants"`
}

// DashboardResponse is the signed-in user's landing data. Exactly one of
// Student and Company is set for those roles; other roles get neither.
type DashboardResponse struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	Email        string            `json:"email"`
	Role         string            `json:"role"`
	ProfileImage *string           `json:"profileImage"`
	Phone        string            `json:"phone,omitempty"`
	Education    string            `json:"education,omitempty"`
	Skills       []string          `json:"skills"`
	Student      *StudentDashboard `json:"student,omitempty"`
	Company      *CompanyDashboard `json:"company,omitempty"`
}
