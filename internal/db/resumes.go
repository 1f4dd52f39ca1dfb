package db

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var resumeSelect = psql.Select(
	"id", "user_id", "full_name", "email", "phone", "summary", "skills", "education",
	"work_experience", "projects", "is_active", "version", "created_at", "updated_at",
).From("resumes")

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	err := row.Scan(&r.ID, &r.UserID, &r.FullName, &r.Email, &r.Phone, &r.Summary, &r.Skills,
		&r.Education, &r.WorkExperience, &r.Projects, &r.IsActive, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateResume inserts an active resume at version 1, filling ID, version
// and timestamps.
func (db *DB) CreateResume(ctx context.Context, r *Resume) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, full_name, email, phone, summary, skills, education, work_experience, projects)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, is_active, version, created_at, updated_at`,
		r.UserID, r.FullName, r.Email, r.Phone, r.Summary, r.Skills, r.Education, r.WorkExperience, r.Projects,
	).Scan(&r.ID, &r.IsActive, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

// GetResume retrieves one of the user's active resumes. Returns (nil, nil)
// when it is absent, deleted or owned by someone else.
func (db *DB) GetResume(ctx context.Context, id, userID uuid.UUID) (*Resume, error) {
	sqlStr, args, err := resumeSelect.
		Where(sq.Eq{"id": id, "user_id": userID, "is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build resume query: %w", err)
	}
	r, err := scanResume(db.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// ListResumes returns the user's active resumes, most recently updated
// first.
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	sqlStr, args, err := resumeSelect.
		Where(sq.Eq{"user_id": userID, "is_active": true}).
		OrderBy("updated_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build resume list: %w", err)
	}
	rows, err := db.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return resumes, nil
}

// UpdateResume applies the non-nil fields of u and bumps the version.
// Returns (nil, nil) when no active resume of the user matches.
func (db *DB) UpdateResume(ctx context.Context, id, userID uuid.UUID, u ResumeUpdate) (*Resume, error) {
	q := psql.Update("resumes").
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "user_id": userID, "is_active": true})
	set := func(col string, v *string) {
		if v != nil {
			q = q.Set(col, *v)
		}
	}
	set("full_name", u.FullName)
	set("email", u.Email)
	set("phone", u.Phone)
	set("summary", u.Summary)
	if u.Skills != nil {
		q = q.Set("skills", StringArray(*u.Skills))
	}
	if u.Education != nil {
		q = q.Set("education", JSONList[Education](*u.Education))
	}
	if u.WorkExperience != nil {
		q = q.Set("work_experience", JSONList[WorkExperience](*u.WorkExperience))
	}
	if u.Projects != nil {
		q = q.Set("projects", JSONList[Project](*u.Projects))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build resume update: %w", err)
	}
	tag, err := db.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetResume(ctx, id, userID)
}

// DeactivateResume soft-deletes one of the user's resumes. Reports whether
// an active resume was found.
func (db *DB) DeactivateResume(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes SET is_active = FALSE, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND is_active`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetResumeStats averages entry counts over the user's active resumes.
// Every field is zero when the user has none.
func (db *DB) GetResumeStats(ctx context.Context, userID uuid.UUID) (*ResumeStats, error) {
	var s ResumeStats
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(AVG(jsonb_array_length(skills)), 0)::float8,
		        COALESCE(AVG(jsonb_array_length(education)), 0)::float8,
		        COALESCE(AVG(jsonb_array_length(work_experience)), 0)::float8,
		        COALESCE(AVG(jsonb_array_length(projects)), 0)::float8,
		        MAX(updated_at)
		 FROM resumes WHERE user_id = $1 AND is_active`, userID,
	).Scan(&s.TotalResumes, &s.AverageSkills, &s.AverageEducation, &s.AverageExperience,
		&s.AverageProjects, &s.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("failed to compute resume stats: %w", err)
	}
	return &s, nil
}
