package db

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Sortable interview experience columns.
const (
	ExperienceSortCreatedAt = "createdAt"
	ExperienceSortRating    = "rating"
)

// topCompanyLimit caps InterviewStats.TopCompanies.
const topCompanyLimit = 5

// ExperienceFilters selects a page of visible interview experiences.
type ExperienceFilters struct {
	Page      int
	Limit     int
	SortBy    string // createdAt or rating
	Ascending bool
}

var experienceSelect = psql.Select(
	"id", "name", "email", "company", "role", "interview_type", "difficulty", "rating",
	"experience", "tips", "is_approved", "is_public", "created_at",
).From("interview_experiences")

// visibleExperience matches experiences anyone may read.
var visibleExperience = sq.Eq{"is_approved": true, "is_public": true}

func scanExperience(row pgx.Row) (*InterviewExperience, error) {
	var e InterviewExperience
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Company, &e.Role, &e.InterviewType, &e.Difficulty,
		&e.Rating, &e.Experience, &e.Tips, &e.IsApproved, &e.IsPublic, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateInterviewExperience inserts an experience, filling ID and
// CreatedAt. IsApproved and IsPublic are stored as given.
func (db *DB) CreateInterviewExperience(ctx context.Context, e *InterviewExperience) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO interview_experiences (name, email, company, role, interview_type, difficulty,
		     rating, experience, tips, is_approved, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		e.Name, e.Email, e.Company, e.Role, e.InterviewType, e.Difficulty,
		e.Rating, e.Experience, e.Tips, e.IsApproved, e.IsPublic,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create interview experience: %w", err)
	}
	return nil
}

// GetInterviewExperience retrieves an experience whatever its visibility.
// Returns (nil, nil) when absent.
func (db *DB) GetInterviewExperience(ctx context.Context, id uuid.UUID) (*InterviewExperience, error) {
	sqlStr, args, err := experienceSelect.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build interview experience query: %w", err)
	}
	e, err := scanExperience(db.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview experience: %w", err)
	}
	return e, nil
}

// ListInterviewExperiences returns one page of visible experiences and the
// total visible count.
func (db *DB) ListInterviewExperiences(ctx context.Context, f ExperienceFilters) ([]InterviewExperience, int, error) {
	var total int
	countSQL, countArgs, err := psql.Select("COUNT(*)").From("interview_experiences").Where(visibleExperience).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build interview experience count: %w", err)
	}
	if err := db.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count interview experiences: %w", err)
	}

	col := "created_at"
	if f.SortBy == ExperienceSortRating {
		col = "rating"
	}
	dir := " DESC"
	if f.Ascending {
		dir = " ASC"
	}
	q := experienceSelect.Where(visibleExperience).OrderBy(col+dir, "id")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit)).Offset(pageOffset(f.Page, f.Limit))
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build interview experience list: %w", err)
	}

	rows, err := db.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list interview experiences: %w", err)
	}
	defer rows.Close()

	out := []InterviewExperience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan interview experience: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list interview experiences: %w", err)
	}
	return out, total, nil
}

// GetInterviewStats aggregates the visible experiences: totals, counts per
// type and difficulty, and the most-reviewed companies.
func (db *DB) GetInterviewStats(ctx context.Context) (*InterviewStats, error) {
	s := InterviewStats{ByType: map[string]int{}, ByDifficulty: map[string]int{}, TopCompanies: []CompanyInterviewStats{}}
	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8, COUNT(DISTINCT company)
		 FROM interview_experiences WHERE is_approved AND is_public`,
	).Scan(&s.TotalExperiences, &s.AverageRating, &s.UniqueCompanies)
	if err != nil {
		return nil, fmt.Errorf("failed to compute interview stats: %w", err)
	}

	groups := []struct {
		col string
		dst map[string]int
	}{
		{"interview_type", s.ByType},
		{"difficulty", s.ByDifficulty},
	}
	for _, g := range groups {
		if err := db.countBy(ctx, g.col, g.dst); err != nil {
			return nil, err
		}
	}

	rows, err := db.pool.Query(ctx,
		`SELECT company, COUNT(*), AVG(rating)::float8
		 FROM interview_experiences WHERE is_approved AND is_public
		 GROUP BY company ORDER BY COUNT(*) DESC, company LIMIT $1`, topCompanyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank interview companies: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c CompanyInterviewStats
		if err := rows.Scan(&c.Company, &c.Count, &c.AverageRating); err != nil {
			return nil, fmt.Errorf("failed to scan interview company: %w", err)
		}
		s.TopCompanies = append(s.TopCompanies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to rank interview companies: %w", err)
	}
	return &s, nil
}

// countBy fills dst with visible experience counts grouped by col. col is
// never user input.
func (db *DB) countBy(ctx context.Context, col string, dst map[string]int) error {
	sqlStr, args, err := psql.Select(col, "COUNT(*)").
		From("interview_experiences").
		Where(visibleExperience).
		GroupBy(col).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build %s counts: %w", col, err)
	}
	rows, err := db.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("failed to count by %s: %w", col, err)
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan %s count: %w", col, err)
		}
		dst[key] = n
	}
	return rows.Err()
}
