package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"webshop/internal/auth"
	apperrors "webshop/internal/errors"
	"webshop/internal/model"
	"webshop/internal/repository"
	"webshop/internal/session"
)

// PingStatus is the answer to a session ping.
type PingStatus int

const (
	// PingAlive means the user has no live session.
	PingAlive PingStatus = iota
	// PingBusy means the user's session is still within the window.
	PingBusy
)

// Token returns the legacy wire form: "" for PingBusy, "Pong" for PingAlive.
func (p PingStatus) Token() string {
	if p == PingBusy {
		return ""
	}
	return "Pong"
}

func (p PingStatus) String() string {
	if p == PingBusy {
		return "busy"
	}
	return "alive"
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, name, password, passwordVerify string) (*model.User, error)
	Login(ctx context.Context, name, password string) (*model.User, error)
	Logout(ctx context.Context, userID uint) error
	Ping(ctx context.Context, userID uint) (PingStatus, error)
}

type authService struct {
	store    repository.Store
	sessions *session.Tracker
	logger   zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store repository.Store, sessions *session.Tracker, logger zerolog.Logger) AuthService {
	return &authService{
		store:    store,
		sessions: sessions,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new non-admin user with a hashed password.
// Names are not required to be unique.
func (s *authService) Register(ctx context.Context, name, password, passwordVerify string) (*model.User, error) {
	if name == "" || password == "" {
		return nil, apperrors.ErrInvalidInput
	}
	if password != passwordVerify {
		return nil, apperrors.ErrPasswordMismatch
	}
	return createUser(ctx, s.store.Users(), name, password)
}

func createUser(ctx context.Context, users repository.UserRepository, name, password string) (*model.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         name,
		PasswordHash: hashedPassword,
		IsActive:     true,
		IsAdmin:      false,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks every user with exactly this name, lowest id first, and
// starts a session for the first whose password matches.
func (s *authService) Login(ctx context.Context, name, password string) (*model.User, error) {
	candidates, err := s.store.Users().FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	for i := range candidates {
		user := &candidates[i]
		if !auth.VerifyPassword(user.PasswordHash, password) {
			continue
		}

		now := s.sessions.Now()
		if err := s.store.Users().RecordLogin(ctx, user.ID, now); err != nil {
			return nil, fmt.Errorf("record login: %w", err)
		}
		started, err := s.sessions.Begin(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("start session: %w", err)
		}
		user.LastLogin = &now
		user.SessionActivity = &started

		s.logger.Info().Uint("user_id", user.ID).Msg("user logged in")
		return user, nil
	}

	return nil, apperrors.ErrInvalidCredentials
}

// Logout expires a live session. Unknown users and expired sessions are a no-op.
func (s *authService) Logout(ctx context.Context, userID uint) error {
	_, err := s.store.Users().FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Info().Uint("user_id", userID).Msg("logout ignored: unknown user")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	active, err := s.sessions.IsActive(ctx, userID)
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if !active {
		s.logger.Info().Uint("user_id", userID).Msg("logout ignored: no live session")
		return nil
	}

	if err := s.sessions.Expire(ctx, userID); err != nil {
		return fmt.Errorf("expire session: %w", err)
	}
	s.logger.Info().Uint("user_id", userID).Msg("user logged out")
	return nil
}

// Ping reports PingBusy while the user's session is live.
func (s *authService) Ping(ctx context.Context, userID uint) (PingStatus, error) {
	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		return PingAlive, translate(err, apperrors.ErrUserNotFound, "find user")
	}

	active, err := s.sessions.IsActive(ctx, userID)
	if err != nil {
		return PingAlive, fmt.Errorf("check session: %w", err)
	}
	if active {
		return PingBusy, nil
	}
	return PingAlive, nil
}
