package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-forge/internal/config"
	"github.com/jonathan/resume-forge/internal/types"
)

// UserService provides login-or-register account logic.
type UserService struct {
	store          Store
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a UserService.
func NewUserService(store Store, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{store: store, passwordConfig: passwordConfig}
}

// LoginOrRegister authenticates an existing user or creates a new one.
// New accounts get a username derived from the email local-part and an
// empty profile. Returns the user, their oldest profile ID, and whether
// the account was created on this call.
func (s *UserService) LoginOrRegister(ctx context.Context, email, password string) (*types.User, uuid.UUID, bool, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, uuid.Nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	if user != nil {
		if !s.passwordConfig.VerifyPassword(password, user.PasswordHash) {
			return nil, uuid.Nil, false, &ErrInvalidCredentials{}
		}
		profileID, err := s.ensureProfile(ctx, user.ID)
		if err != nil {
			return nil, uuid.Nil, false, err
		}
		return user, profileID, false, nil
	}

	username, err := s.deriveUsername(ctx, email)
	if err != nil {
		return nil, uuid.Nil, false, err
	}

	hash, err := s.passwordConfig.HashPassword(password)
	if err != nil {
		return nil, uuid.Nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err = s.store.CreateUser(ctx, username, email, hash)
	if err != nil {
		return nil, uuid.Nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	profile, err := s.store.CreateProfile(ctx, user.ID)
	if err != nil {
		return nil, uuid.Nil, false, fmt.Errorf("failed to create profile: %w", err)
	}

	return user, profile.ID, true, nil
}

// GetUser fetches a user by ID.
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrUserNotFound{UserID: id}
	}
	return user, nil
}

// ensureProfile returns the user's oldest profile, creating one if the
// account somehow has none.
func (s *UserService) ensureProfile(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	ids, err := s.store.ListProfileIDsByUser(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	if len(ids) > 0 {
		return ids[0], nil
	}
	profile, err := s.store.CreateProfile(ctx, userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile.ID, nil
}

// deriveUsername takes the email local-part and appends _2, _3, ... until
// the name is free.
func (s *UserService) deriveUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}

	candidate := base
	for n := 2; ; n++ {
		taken, err := s.store.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s_%d", base, n)
	}
}
