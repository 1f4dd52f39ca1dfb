package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/placify/internal/config"
	"github.com/jonathan/placify/internal/db"
	"github.com/jonathan/placify/internal/types"
)

const dobLayout = "2006-01-02"

// UserService provides business logic for accounts and profiles
type UserService struct {
	store          UserStore
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// toAPIUser converts db.User to types.User, excluding password hash
func toAPIUser(u *db.User) *types.User {
	if u == nil {
		return nil
	}
	out := &types.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Phone:        u.Phone,
		Address:      u.Address,
		Gender:       u.Gender,
		Education:    u.Education,
		ProfileImage: u.ProfileImage,
		Skills:       []string(u.Skills),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	if u.DOB != nil {
		out.DOB = u.DOB.Format(dobLayout)
	}
	return out
}

// Register creates a new account. Email addresses are case-insensitive.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &ErrValidation{Field: "Name", Message: "is required"}
	}

	exists, err := s.store.CheckEmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, db.NewUser{
		Email:        email,
		PasswordHash: passwordHash,
		Role:         req.Role,
		Name:         name,
		Phone:        strings.TrimSpace(req.Phone),
	})
	if err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &ErrEmailAlreadyExists{Email: email}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toAPIUser(user), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Security: Always return generic error if user not found or password wrong
	if dbUser == nil || dbUser.PasswordHash == "" {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, dbUser.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return toAPIUser(dbUser), nil
}

// Profile returns the user's own profile.
func (s *UserService) Profile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	dbUser, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return toAPIUser(dbUser), nil
}

// UpdateProfile applies the non-nil fields of req. An empty request
// returns the profile unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*types.User, error) {
	update, err := profileUpdate(req)
	if err != nil {
		return nil, err
	}
	if update.IsEmpty() {
		return s.Profile(ctx, userID)
	}

	dbUser, err := s.store.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return toAPIUser(dbUser), nil
}

func profileUpdate(req *types.UpdateProfileRequest) (db.ProfileUpdate, error) {
	u := db.ProfileUpdate{
		Phone:        trimmed(req.Phone),
		Address:      trimmed(req.Address),
		Gender:       trimmed(req.Gender),
		Education:    trimmed(req.Education),
		ProfileImage: trimmed(req.ProfileImage),
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return db.ProfileUpdate{}, &ErrValidation{Field: "Name", Message: "cannot be blank"}
		}
		u.Name = &name
	}
	if req.DOB != nil {
		dob, err := time.Parse(dobLayout, *req.DOB)
		if err != nil {
			return db.ProfileUpdate{}, &ErrValidation{Field: "DOB", Message: "must be YYYY-MM-DD"}
		}
		u.DOB = &dob
	}
	if req.Skills != nil {
		skills := make([]string, 0, len(*req.Skills))
		seen := make(map[string]bool)
		for _, sk := range *req.Skills {
			sk = strings.TrimSpace(sk)
			key := strings.ToLower(sk)
			if sk == "" || seen[key] {
				continue
			}
			seen[key] = true
			skills = append(skills, sk)
		}
		u.Skills = &skills
	}
	return u, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
