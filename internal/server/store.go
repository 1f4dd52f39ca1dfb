package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/placify/internal/db"
)

// UserStore is the user persistence used by UserService.
type UserStore interface {
	CreateUser(ctx context.Context, in db.NewUser) (*db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, p db.ProfileUpdate) (*db.User, error)
}

// ResetTokenStore is the persistence used by the password reset flow.
type ResetTokenStore interface {
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CreateResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetResetToken(ctx context.Context, tokenHash string) (*db.ResetToken, error)
	ConsumeResetToken(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) (bool, error)
	DeleteExpiredResetTokens(ctx context.Context) (int64, error)
}

// JobStore is the job board persistence.
type JobStore interface {
	CreateJob(ctx context.Context, in db.NewJob) (*db.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*db.Job, error)
	ListJobs(ctx context.Context, filters db.JobFilters) ([]db.Job, int, error)
	UpdateJob(ctx context.Context, id uuid.UUID, u db.JobUpdate) (*db.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) (bool, error)
	ApplyToJob(ctx context.Context, jobID, userID uuid.UUID, resume string) (*db.Application, error)
	ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
	WithdrawApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error)
}

// ScoreStore is the resume score history persistence.
type ScoreStore interface {
	SaveResumeScore(ctx context.Context, s *db.ResumeScore) error
	ListResumeScores(ctx context.Context, f db.ScoreFilters) ([]db.ResumeScore, int, error)
	ListAllResumeScores(ctx context.Context, userID uuid.UUID) ([]db.ResumeScore, error)
	LatestResumeScore(ctx context.Context, userID uuid.UUID) (*db.ResumeScore, error)
	SoftDeleteResumeScore(ctx context.Context, id, userID uuid.UUID) (bool, error)
	ResumeScoreDistribution(ctx context.Context) (*db.ScoreDistribution, error)
}

// QuestionStore is the aptitude question bank.
type QuestionStore interface {
	CreateQuestion(ctx context.Context, q *db.Question) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*db.Question, error)
	ListQuestions(ctx context.Context, f db.QuestionFilters) ([]db.Question, error)
}

// ResumeStore is the structured resume persistence. Every call is scoped
// to the owning user.
type ResumeStore interface {
	CreateResume(ctx context.Context, r *db.Resume) error
	GetResume(ctx context.Context, id, userID uuid.UUID) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	UpdateResume(ctx context.Context, id, userID uuid.UUID, u db.ResumeUpdate) (*db.Resume, error)
	DeactivateResume(ctx context.Context, id, userID uuid.UUID) (bool, error)
	GetResumeStats(ctx context.Context, userID uuid.UUID) (*db.ResumeStats, error)
}

// InterviewStore is the interview experience board.
type InterviewStore interface {
	CreateInterviewExperience(ctx context.Context, e *db.InterviewExperience) error
	GetInterviewExperience(ctx context.Context, id uuid.UUID) (*db.InterviewExperience, error)
	ListInterviewExperiences(ctx context.Context, f db.ExperienceFilters) ([]db.InterviewExperience, int, error)
	GetInterviewStats(ctx context.Context) (*db.InterviewStats, error)
}

// DashboardStore aggregates per-role activity.
type DashboardStore interface {
	GetStudentActivity(ctx context.Context, userID uuid.UUID) (*db.StudentActivity, error)
	GetCompanyActivity(ctx context.Context, companyID uuid.UUID) (*db.CompanyActivity, error)
}

// Store is everything the HTTP API persists. *db.DB implements it.
type Store interface {
	UserStore
	ResetTokenStore
	JobStore
	ScoreStore
	QuestionStore
	ResumeStore
	InterviewStore
	DashboardStore
	Ping(ctx context.Context) error
}

var _ Store = (*db.DB)(nil)
