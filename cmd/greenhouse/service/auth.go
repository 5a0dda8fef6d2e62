package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sproutly/greenhouse/cmd/greenhouse/models"
	"github.com/sproutly/greenhouse/cmd/greenhouse/repository"
	"github.com/sproutly/greenhouse/common/logger"
)

const sessionTokenLength = 32

// UserStore is the persistence surface the auth service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// AuthService handles accounts and sessions
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	sessionTTL time.Duration
	log        *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, sessions SessionStore, sessionTTL time.Duration, log *logger.Logger) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// Signup creates a new account
func (s *AuthService) Signup(ctx context.Context, email, password, displayName string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.Info("user signed up", "user_id", user.ID, "email", user.Email)

	return user, nil
}

// Login verifies credentials and mints a session token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to look up user: %w", err)
	}

	ok, err := VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return "", nil, ErrInvalidCredentials
	}

	token, err := gonanoid.New(sessionTokenLength)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	if err := s.sessions.Put(ctx, token, user.ID.String(), s.sessionTTL); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info("user logged in", "user_id", user.ID)

	return token, user, nil
}

// Logout deletes a session token
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrNotAuthenticated
	}
	return s.sessions.Delete(ctx, token)
}

// Resolve maps a session token to its user, sliding the session expiry
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	userIDStr, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("corrupt session value: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		// Account deleted while the session was alive
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}

	// Sliding expiry: active sessions stay alive
	if err := s.sessions.Refresh(ctx, token, s.sessionTTL); err != nil {
		s.log.Warn("failed to refresh session TTL", "error", err)
	}

	return user, nil
}
