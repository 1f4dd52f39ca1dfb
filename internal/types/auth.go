// Package types provides the request and response shapes of the Placify HTTP API.
package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// RegisterRequest represents the request to create a new account.
// Admins cannot self-register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
	Role     string `json:"role" validate:"required,oneof=student company institution employee"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user profile for API responses (avoids import cycle with db package).
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	Education    string    `json:"education,omitempty"`
	ProfileImage string    `json:"profileImage,omitempty"`
	DOB          string    `json:"dob,omitempty"`
	Skills       []string  `json:"skills"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AuthResponse represents the login/register response with user data and authentication token.
type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateProfileRequest holds optional profile changes. Email and role are
// not editable.
type UpdateProfileRequest struct {
	Name         *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone        *string   `json:"phone,omitempty" validate:"omitempty,max=20"`
	Address      *string   `json:"address,omitempty" validate:"omitempty,max=200"`
	Gender       *string   `json:"gender,omitempty" validate:"omitempty,max=30"`
	Education    *string   `json:"education,omitempty" validate:"omitempty,max=200"`
	ProfileImage *string   `json:"profileImage,omitempty" validate:"omitempty,url"`
	DOB          *string   `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Skills       *[]string `json:"skills,omitempty" validate:"omitempty,max=50,dive,min=1,max=50"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the password reset flow. The token is the
// 64-character hex string mailed to the user. ConfirmPassword is optional
// but must match when sent.
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required,len=64,hexadecimal"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=64"`
	ConfirmPassword string `json:"confirmPassword,omitempty" validate:"omitempty,eqfield=NewPassword"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

var validate = validator.New()

// Validate validates the RegisterRequest using the validator.
func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateProfileRequest using the validator.
func (r *UpdateProfileRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ForgotPasswordRequest using the validator.
func (r *ForgotPasswordRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ResetPasswordRequest using the validator.
func (r *ResetPasswordRequest) Validate() error {
	return validate.Struct(r)
}
