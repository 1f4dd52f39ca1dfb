package db

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// QuestionFilters holds optional filters for listing questions
type QuestionFilters struct {
	Topic      string
	Difficulty string
	Limit      int
}

var questionSelect = psql.Select(
	"id", "question", "options", "answer", "explanation", "topic", "difficulty", "source", "created_at",
).From("questions")

func scanQuestion(row pgx.Row) (*Question, error) {
	var q Question
	if err := row.Scan(&q.ID, &q.Question, &q.Options, &q.Answer, &q.Explanation,
		&q.Topic, &q.Difficulty, &q.Source, &q.CreatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateQuestion inserts a question, filling ID and CreatedAt.
func (db *DB) CreateQuestion(ctx context.Context, q *Question) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO questions (question, options, answer, explanation, topic, difficulty, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		q.Question, q.Options, q.Answer, q.Explanation, q.Topic, q.Difficulty, q.Source,
	).Scan(&q.ID, &q.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	return nil
}

// GetQuestion retrieves a question by ID. Returns (nil, nil) when absent.
func (db *DB) GetQuestion(ctx context.Context, id uuid.UUID) (*Question, error) {
	sqlStr, args, err := questionSelect.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build question query: %w", err)
	}
	q, err := scanQuestion(db.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// ListQuestions returns questions matching the filters, newest first.
// Topic matching is case-insensitive.
func (db *DB) ListQuestions(ctx context.Context, f QuestionFilters) ([]Question, error) {
	q := questionSelect.OrderBy("created_at DESC")
	if f.Topic != "" {
		q = q.Where("LOWER(topic) = LOWER(?)", f.Topic)
	}
	if f.Difficulty != "" {
		q = q.Where("LOWER(difficulty) = LOWER(?)", f.Difficulty)
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build question list: %w", err)
	}
	rows, err := db.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	questions := []Question{}
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, *question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}
