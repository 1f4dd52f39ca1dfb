package db

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// NewJob holds the fields needed to post a job.
type NewJob struct {
	CompanyID        uuid.UUID
	Title            string
	Type             string
	Domain           string
	Location         string
	Salary           string
	Description      string
	Requirements     []string
	Responsibilities []string
}

// JobFilters holds optional filters for listing jobs
type JobFilters struct {
	Status    string
	CompanyID uuid.UUID
	Page      int
	Limit     int
}

var jobSelect = psql.Select(
	"j.id", "j.company_id", "u.name", "j.title", "j.type", "j.domain", "j.location", "j.status",
	"j.salary", "j.description", "j.requirements", "j.responsibilities",
	"(SELECT COUNT(*) FROM job_applications a WHERE a.job_id = j.id)",
	"j.created_at", "j.updated_at",
).From("jobs j").Join("users u ON u.id = j.company_id")

func scanJob(row pgx.Row) (*Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Type, &j.Domain, &j.Location,
		&j.Status, &j.Salary, &j.Description, &j.Requirements, &j.Responsibilities,
		&j.ApplicantCount, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts an open job posting.
func (db *DB) CreateJob(ctx context.Context, in NewJob) (*Job, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (company_id, title, type, domain, location, salary, description, requirements, responsibilities)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		in.CompanyID, in.Title, in.Type, in.Domain, in.Location, in.Salary, in.Description,
		StringArray(in.Requirements), StringArray(in.Responsibilities),
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return db.GetJob(ctx, id)
}

// GetJob retrieves a job by ID. Returns (nil, nil) when absent.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*Job, error) {
	sqlStr, args, err := jobSelect.Where(sq.Eq{"j.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build job query: %w", err)
	}
	j, err := scanJob(db.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// ListJobs returns one page of jobs, newest first, and the total count
// matching the filters. A zero Limit returns every match.
func (db *DB) ListJobs(ctx context.Context, filters JobFilters) ([]Job, int, error) {
	where := sq.And{}
	if filters.Status != "" {
		where = append(where, sq.Eq{"j.status": filters.Status})
	}
	if filters.CompanyID != uuid.Nil {
		where = append(where, sq.Eq{"j.company_id": filters.CompanyID})
	}

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("jobs j").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build job count: %w", err)
	}
	var total int
	if err := db.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	q := jobSelect.Where(where).OrderBy("j.created_at DESC")
	if filters.Limit > 0 {
		q = q.Limit(uint64(filters.Limit)).Offset(pageOffset(filters.Page, filters.Limit))
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build job list: %w", err)
	}

	rows, err := db.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, total, nil
}

// UpdateJob applies the non-nil fields of u. Returns (nil, nil) when the
// job does not exist.
func (db *DB) UpdateJob(ctx context.Context, id uuid.UUID, u JobUpdate) (*Job, error) {
	if u.IsEmpty() {
		return db.GetJob(ctx, id)
	}

	q := psql.Update("jobs").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})
	set := func(col string, v *string) {
		if v != nil {
			q = q.Set(col, *v)
		}
	}
	set("title", u.Title)
	set("type", u.Type)
	set("domain", u.Domain)
	set("location", u.Location)
	set("status", u.Status)
	set("salary", u.Salary)
	set("description", u.Description)
	if u.Requirements != nil {
		q = q.Set("requirements", StringArray(*u.Requirements))
	}
	if u.Responsibilities != nil {
		q = q.Set("responsibilities", StringArray(*u.Responsibilities))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build job update: %w", err)
	}
	tag, err := db.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetJob(ctx, id)
}

// DeleteJob removes a job and its applications. Reports whether a row was
// deleted.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ApplyToJob records an application. Applying twice yields ErrDuplicate.
func (db *DB) ApplyToJob(ctx context.Context, jobID, userID uuid.UUID, resume string) (*Application, error) {
	a := Application{JobID: jobID, UserID: userID, Resume: resume}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_applications (job_id, user_id, resume) VALUES ($1, $2, $3)
		 RETURNING id, applied_at`,
		jobID, userID, resume,
	).Scan(&a.ID, &a.AppliedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to apply to job: %w", err)
	}
	return &a, nil
}

// ListApplicationsByUser returns a student's applications with their jobs,
// most recent first.
func (db *DB) ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]Application, error) {
	sqlStr, args, err := jobSelect.
		Columns("a.id", "a.resume", "a.applied_at").
		Join("job_applications a ON a.job_id = j.id").
		Where(sq.Eq{"a.user_id": userID}).
		OrderBy("a.applied_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build application list: %w", err)
	}

	rows, err := db.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		var j Job
		a := Application{UserID: userID}
		if err := rows.Scan(&j.ID, &j.CompanyID, &j.CompanyName, &j.Title, &j.Type, &j.Domain, &j.Location,
			&j.Status, &j.Salary, &j.Description, &j.Requirements, &j.Responsibilities,
			&j.ApplicantCount, &j.CreatedAt, &j.UpdatedAt,
			&a.ID, &a.Resume, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		a.JobID = j.ID
		a.Job = &j
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// WithdrawApplication deletes a student's application. Reports whether one
// existed.
func (db *DB) WithdrawApplication(ctx context.Context, jobID, userID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM job_applications WHERE job_id = $1 AND user_id = $2`, jobID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to withdraw application: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
