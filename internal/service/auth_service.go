package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/personal-blog-cms/internal/models"
	"github.com/personal-blog-cms/internal/repository"
)

// authService is the concrete implementation of AuthService
type authService struct {
	repos      *repository.Repositories
	sessionTTL time.Duration
	log        zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repos *repository.Repositories, sessionTTL time.Duration, log zerolog.Logger) AuthService {
	return &authService{
		repos:      repos,
		sessionTTL: sessionTTL,
		log:        log.With().Str("service", "auth").Logger(),
	}
}

// Login authenticates a staff principal and establishes a session.
// Unknown users, wrong passwords and non-staff accounts all return
// ErrInvalidCredentials so the login view cannot leak which one it
// was.
func (s *authService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.repos.User.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsStaff {
		return nil, ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	session := &models.Session{
		Token:     uuid.New().String(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.sessionTTL),
	}
	if err := s.repos.User.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("Staff user logged in")
	return session, nil
}

// Logout tears down a session. An unknown token is not an error.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repos.User.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Principal resolves a session token to its staff user. Returns
// (nil, nil) when the token does not map to a live staff session.
func (s *authService) Principal(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.repos.User.GetSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.repos.User.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsStaff {
		return nil, nil
	}
	return user, nil
}

// CleanExpiredSessions sweeps expired session rows
func (s *authService) CleanExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repos.User.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clean sessions: %w", err)
	}
	if n > 0 {
		s.log.Debug().Int64("removed", n).Msg("Expired sessions cleaned")
	}
	return n, nil
}

// HashPassword produces a bcrypt hash for seeding staff users
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
