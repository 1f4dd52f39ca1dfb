package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, role, name, phone, address, gender,
	education, profile_image, dob, skills, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Name, &u.Phone, &u.Address,
		&u.Gender, &u.Education, &u.ProfileImage, &u.DOB, &u.Skills, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a user and returns the stored row. Emails are stored
// lowercased; a duplicate email yields ErrDuplicate.
func (db *DB) CreateUser(ctx context.Context, in NewUser) (*User, error) {
	role := in.Role
	if role == "" {
		role = RoleStudent
	}
	u, err := scanUser(db.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, role, name, phone)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		normalizeEmail(in.Email), in.PasswordHash, role, strings.TrimSpace(in.Name), in.Phone,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when absent.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(db.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively. Returns
// (nil, nil) when absent.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	u, err := scanUser(db.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// CheckEmailExists reports whether an account uses email.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, normalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// UpdatePassword replaces a user's password hash.
func (db *DB) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", id)
	}
	return nil
}

// UpdateProfile applies the non-nil fields of p and returns the updated
// user, or (nil, nil) when the user does not exist.
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, p ProfileUpdate) (*User, error) {
	if p.IsEmpty() {
		return db.GetUser(ctx, id)
	}

	q := psql.Update("users").Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": id})
	if p.Name != nil {
		q = q.Set("name", strings.TrimSpace(*p.Name))
	}
	if p.Phone != nil {
		q = q.Set("phone", *p.Phone)
	}
	if p.Address != nil {
		q = q.Set("address", *p.Address)
	}
	if p.Gender != nil {
		q = q.Set("gender", *p.Gender)
	}
	if p.Education != nil {
		q = q.Set("education", *p.Education)
	}
	if p.ProfileImage != nil {
		q = q.Set("profile_image", *p.ProfileImage)
	}
	if p.DOB != nil {
		q = q.Set("dob", *p.DOB)
	}
	if p.Skills != nil {
		q = q.Set("skills", StringArray(*p.Skills))
	}

	sqlStr, args, err := q.Suffix("RETURNING " + userColumns).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile update: %w", err)
	}
	u, err := scanUser(db.pool.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}

// DeleteUser removes a user and, by cascade, everything they own.
func (db *DB) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
