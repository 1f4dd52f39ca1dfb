package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes; the pepper needs room too.
	maxPasswordLength = 64
	passwordSpecials  = "@$!%*?&"
)

var commonPasswords = map[string]struct{}{
	"password": {}, "123456": {}, "123456789": {}, "qwerty": {}, "abc123": {},
	"password123": {}, "admin": {}, "letmein": {}, "welcome": {}, "monkey": {},
	"password1!": {}, "passw0rd!": {},
}

// PasswordConfig holds the bcrypt cost and optional pepper used for user passwords.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string
}

// NewPasswordConfig reads BCRYPT_COST (default 12, range 10-14) and the
// optional PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12"
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	cfg := &PasswordConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword hashes a password with bcrypt.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether pw matches storedHash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}

// CheckStrength returns every policy violation of pw; nil means acceptable.
// A password needs 8-64 characters with a lowercase letter, an uppercase
// letter, a digit and one of @$!%*?&, and must not be a well-known password.
func CheckStrength(pw string) []string {
	if pw == "" {
		return []string{"Password is required"}
	}

	var problems []string
	n := len([]rune(pw))
	if n < minPasswordLength {
		problems = append(problems, fmt.Sprintf("Password must be at least %d characters long", minPasswordLength))
	}
	if n > maxPasswordLength {
		problems = append(problems, fmt.Sprintf("Password must be at most %d characters long", maxPasswordLength))
	}

	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !lower {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if !upper {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if !digit {
		problems = append(problems, "Password must contain at least one number")
	}
	if !special {
		problems = append(problems, "Password must contain at least one special character ("+passwordSpecials+")")
	}
	if _, common := commonPasswords[strings.ToLower(pw)]; common {
		problems = append(problems, "Password is too common. Please choose a more secure password")
	}
	return problems
}
