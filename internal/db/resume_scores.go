package db

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Sortable score columns.
const (
	ScoreSortCreatedAt = "createdAt"
	ScoreSortScore     = "score"
)

// ScoreFilters selects a page of one user's score history.
type ScoreFilters struct {
	UserID    uuid.UUID
	Page      int
	Limit     int
	SortBy    string // createdAt or score
	Ascending bool
}

// ScoreDistribution is the admin histogram over all live scores.
type ScoreDistribution struct {
	TotalScores  int
	AverageScore float64
	UniqueUsers  int
	// Buckets[i] counts scores in [Bounds[i], Bounds[i+1]); the last
	// bucket includes 100.
	Buckets []int
}

// ScoreBucketBounds are the histogram edges used by ScoreDistribution.
var ScoreBucketBounds = []int{0, 20, 40, 60, 80, 100}

var scoreSelect = psql.Select(
	"id", "user_id", "score", "breakdown", "job_title", "company_name", "job_description_hash",
	"file_name", "processing_ms", "scoring_version", "ai_feedback", "is_deleted", "created_at", "updated_at",
).From("resume_scores")

func scanScore(row pgx.Row) (*ResumeScore, error) {
	var s ResumeScore
	err := row.Scan(&s.ID, &s.UserID, &s.Score, &s.Breakdown, &s.JobTitle, &s.CompanyName,
		&s.JobDescriptionHash, &s.FileName, &s.ProcessingMS, &s.ScoringVersion, &s.AIFeedback,
		&s.IsDeleted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveResumeScore inserts a score record, filling ID and timestamps.
func (db *DB) SaveResumeScore(ctx context.Context, s *ResumeScore) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resume_scores (user_id, score, breakdown, job_title, company_name,
		     job_description_hash, file_name, processing_ms, scoring_version, ai_feedback)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at, updated_at`,
		s.UserID, s.Score, s.Breakdown, s.JobTitle, s.CompanyName, s.JobDescriptionHash,
		s.FileName, s.ProcessingMS, s.ScoringVersion, s.AIFeedback,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save resume score: %w", err)
	}
	return nil
}

// ListResumeScores returns one page of a user's live scores and the total
// count of live scores.
func (db *DB) ListResumeScores(ctx context.Context, f ScoreFilters) ([]ResumeScore, int, error) {
	where := sq.Eq{"user_id": f.UserID, "is_deleted": false}

	var total int
	countSQL, countArgs, err := psql.Select("COUNT(*)").From("resume_scores").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build score count: %w", err)
	}
	if err := db.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count resume scores: %w", err)
	}

	column := "created_at"
	if f.SortBy == ScoreSortScore {
		column = "score"
	}
	direction := "DESC"
	if f.Ascending {
		direction = "ASC"
	}

	q := scoreSelect.Where(where).OrderBy(column+" "+direction, "created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit)).Offset(pageOffset(f.Page, f.Limit))
	}
	scores, err := db.queryScores(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	return scores, total, nil
}

// ListAllResumeScores returns every live score of a user, oldest first.
func (db *DB) ListAllResumeScores(ctx context.Context, userID uuid.UUID) ([]ResumeScore, error) {
	return db.queryScores(ctx, scoreSelect.
		Where(sq.Eq{"user_id": userID, "is_deleted": false}).
		OrderBy("created_at ASC"))
}

// LatestResumeScore returns the newest live score, or (nil, nil).
func (db *DB) LatestResumeScore(ctx context.Context, userID uuid.UUID) (*ResumeScore, error) {
	sqlStr, args, err := scoreSelect.
		Where(sq.Eq{"user_id": userID, "is_deleted": false}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build latest score query: %w", err)
	}
	s, err := scanScore(db.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest resume score: %w", err)
	}
	return s, nil
}

// SoftDeleteResumeScore hides a score owned by userID. Reports whether a
// live row matched.
func (db *DB) SoftDeleteResumeScore(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resume_scores SET is_deleted = TRUE, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2 AND NOT is_deleted`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume score: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ResumeScoreDistribution aggregates every live score for the admin view.
func (db *DB) ResumeScoreDistribution(ctx context.Context) (*ScoreDistribution, error) {
	d := &ScoreDistribution{Buckets: make([]int, len(ScoreBucketBounds)-1)}

	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0), COUNT(DISTINCT user_id)
		 FROM resume_scores WHERE NOT is_deleted`,
	).Scan(&d.TotalScores, &d.AverageScore, &d.UniqueUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate resume scores: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT LEAST(width_bucket(score, 0, 100, 5), 5) AS bucket, COUNT(*)
		 FROM resume_scores WHERE NOT is_deleted
		 GROUP BY bucket`)
	if err != nil {
		return nil, fmt.Errorf("failed to bucket resume scores: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bucket, count int
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("failed to scan score bucket: %w", err)
		}
		if bucket >= 1 && bucket <= len(d.Buckets) {
			d.Buckets[bucket-1] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to bucket resume scores: %w", err)
	}
	return d, nil
}

func (db *DB) queryScores(ctx context.Context, q sq.SelectBuilder) ([]ResumeScore, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build score query: %w", err)
	}
	rows, err := db.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume scores: %w", err)
	}
	defer rows.Close()

	scores := []ResumeScore{}
	for rows.Next() {
		s, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume score: %w", err)
		}
		scores = append(scores, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resume scores: %w", err)
	}
	return scores, nil
}
