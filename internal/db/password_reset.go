package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateResetToken stores a new token hash for userID and invalidates any
// earlier unused tokens, so only the latest link works.
func (db *DB) CreateResetToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE password_reset_tokens SET used = TRUE WHERE user_id = $1 AND NOT used`,
			userID,
		); err != nil {
			return fmt.Errorf("failed to invalidate reset tokens: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO password_reset_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3)`,
			userID, tokenHash, expiresAt,
		); err != nil {
			return fmt.Errorf("failed to store reset token: %w", err)
		}
		return nil
	})
}

// GetResetToken looks a token up by hash. Returns (nil, nil) when absent.
func (db *DB) GetResetToken(ctx context.Context, tokenHash string) (*ResetToken, error) {
	var t ResetToken
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, used, created_at
		 FROM password_reset_tokens WHERE token_hash = $1`,
		tokenHash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.Used, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &t, nil
}

// ConsumeResetToken marks the token used and sets the new password hash in
// one transaction. It reports false when the token was already used or has
// expired by the time the update runs.
func (db *DB) ConsumeResetToken(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string) (bool, error) {
	consumed := false
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE password_reset_tokens SET used = TRUE
			 WHERE id = $1 AND user_id = $2 AND NOT used AND expires_at > NOW()`,
			tokenID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to consume reset token: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx,
			`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
			passwordHash, userID,
		); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		consumed = true
		return nil
	})
	return consumed, err
}

// DeleteExpiredResetTokens removes tokens past their expiry or already
// used, returning how many were deleted.
func (db *DB) DeleteExpiredResetTokens(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE used OR expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
