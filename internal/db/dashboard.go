package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// StudentActivity summarizes a student's use of the platform.
type StudentActivity struct {
	Applications int
	Resumes      int
	ScoreCount   int
	LatestScore  *int
	BestScore    *int
}

// CompanyActivity summarizes a company's postings.
type CompanyActivity struct {
	JobsPosted      int
	OpenJobs        int
	TotalApplicants int
}

// GetStudentActivity counts the student's applications, active resumes
// and live scores.
func (db *DB) GetStudentActivity(ctx context.Context, userID uuid.UUID) (*StudentActivity, error) {
	var a StudentActivity
	err := db.pool.QueryRow(ctx,
		`SELECT
		     (SELECT COUNT(*) FROM job_applications WHERE user_id = $1),
		     (SELECT COUNT(*) FROM resumes WHERE user_id = $1 AND is_active),
		     (SELECT COUNT(*) FROM resume_scores WHERE user_id = $1 AND NOT is_deleted),
		     (SELECT score FROM resume_scores WHERE user_id = $1 AND NOT is_deleted
		      ORDER BY created_at DESC LIMIT 1),
		     (SELECT MAX(score) FROM resume_scores WHERE user_id = $1 AND NOT is_deleted)`,
		userID,
	).Scan(&a.Applications, &a.Resumes, &a.ScoreCount, &a.LatestScore, &a.BestScore)
	if err != nil {
		return nil, fmt.Errorf("failed to load student activity: %w", err)
	}
	return &a, nil
}

// GetCompanyActivity counts the company's jobs and the applications they
// received.
func (db *DB) GetCompanyActivity(ctx context.Context, companyID uuid.UUID) (*CompanyActivity, error) {
	var a CompanyActivity
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'Open'),
		        (SELECT COUNT(*) FROM job_applications a JOIN jobs j ON j.id = a.job_id WHERE j.company_id = $1)
		 FROM jobs WHERE company_id = $1`,
		companyID,
	).Scan(&a.JobsPosted, &a.OpenJobs, &a.TotalApplicants)
	if err != nil {
		return nil, fmt.Errorf("failed to load company activity: %w", err)
	}
	return &a, nil
}
