package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/placify/internal/config"
	"github.com/jonathan/placify/internal/mail"
	"github.com/jonathan/placify/internal/types"
)

const (
	resetTokenBytes = 32
	// forgotPasswordMessage is identical whether or not the account exists.
	forgotPasswordMessage = "If an account with that email exists, we have sent a password reset link."
)

// ErrWeakPassword lists every password policy violation.
type ErrWeakPassword struct {
	Problems []string
}

func (e *ErrWeakPassword) Error() string {
	return "Password does not meet security requirements"
}

// PasswordResetService issues and redeems single-use reset tokens. Only the
// SHA-256 hash of a token is stored.
type PasswordResetService struct {
	store          ResetTokenStore
	passwordConfig *config.PasswordConfig
	mailer         mail.Mailer
	frontendURL    string
	ttl            time.Duration
	now            func() time.Time
	random         io.Reader
}

// NewPasswordResetService creates a reset service. Links point at
// frontendURL + "/reset-password".
func NewPasswordResetService(store ResetTokenStore, passwordConfig *config.PasswordConfig, mailer mail.Mailer, frontendURL string, ttl time.Duration) *PasswordResetService {
	return &PasswordResetService{
		store:          store,
		passwordConfig: passwordConfig,
		mailer:         mailer,
		frontendURL:    strings.TrimRight(frontendURL, "/"),
		ttl:            ttl,
		now:            time.Now,
		random:         rand.Reader,
	}
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RequestReset mails a reset link when email belongs to an account. Unknown
// emails and mail delivery failures are logged, not returned.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		slog.Info("password reset requested for unknown email")
		return nil
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := io.ReadFull(s.random, raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if err := s.store.CreateResetToken(ctx, user.ID, hashResetToken(token), s.now().Add(s.ttl)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link := s.frontendURL + "/reset-password?token=" + token
	msg, err := mail.PasswordReset(user.Email, user.Name, link, s.ttl)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("failed to send password reset email",
			slog.String("user_id", user.ID.String()),
			slog.Any("error", err))
	}
	return nil
}

// ResetPassword redeems token and sets the new password.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if problems := config.CheckStrength(newPassword); len(problems) > 0 {
		return &ErrWeakPassword{Problems: problems}
	}

	stored, err := s.store.GetResetToken(ctx, hashResetToken(token))
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if stored == nil || stored.Used || !s.now().Before(stored.ExpiresAt) {
		return &ErrInvalidResetToken{}
	}

	passwordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ok, err := s.store.ConsumeResetToken(ctx, stored.ID, stored.UserID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	// A concurrent request redeemed it first.
	if !ok {
		return &ErrInvalidResetToken{}
	}
	return nil
}

// PurgeExpired deletes reset tokens that are used or past expiry.
func (s *PasswordResetService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpiredResetTokens(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("purged password reset tokens", slog.Int64("count", n))
	}
	return n, nil
}

// purgeResetTokensEvery runs PurgeExpired on every tick until ctx is done.
func (s *Server) purgeResetTokensEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.resetService.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
				slog.Warn("failed to purge reset tokens", slog.Any("error", err))
			}
		}
	}
}

// handleForgotPassword always answers 200 for well-formed requests.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req types.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, r, err)
		return
	}

	if err := s.resetService.RequestReset(r.Context(), req.Email); err != nil {
		slog.Error("forgot password failed", slog.Any("error", err))
		errorResponse(w, http.StatusInternalServerError,
			"An error occurred while processing your request. Please try again later.")
		return
	}
	jsonResponse(w, http.StatusOK, types.MessageResponse{Message: forgotPasswordMessage})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req types.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		serviceError(w, r, err)
		return
	}

	err := s.resetService.ResetPassword(r.Context(), strings.ToLower(req.Token), req.NewPassword)
	var weak *ErrWeakPassword
	if errors.As(err, &weak) {
		jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":  weak.Error(),
			"errors": weak.Problems,
		})
		return
	}
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "Password has been reset successfully"})
}
