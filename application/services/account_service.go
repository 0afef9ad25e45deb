// Package services wires the domain logic to the persistence ports. Each
// service handles one request synchronously; there are no background
// workers.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"skinsight/application/ports"
	"skinsight/pkg/auth"
	apperrors "skinsight/pkg/errors"
)

// AccountService handles registration, sign-in, and sign-out.
type AccountService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// SignedInSession is a freshly created session and the token referencing it.
type SignedInSession struct {
	Session *ports.Session
	Token   string
}

// Register creates a user and signs them in. A taken username surfaces as a
// conflict with a user-facing message.
func (s *AccountService) Register(ctx context.Context, username, password string) (*SignedInSession, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.NewInternal("failed to hash password", err)
	}

	user, err := s.users.Create(ctx, username, hash)
	if errors.Is(err, ports.ErrDuplicateUsername) {
		return nil, apperrors.NewConflict(fmt.Sprintf("User %s is already registered.", username))
	}
	if err != nil {
		return nil, apperrors.NewDatabase("failed to create user", err)
	}

	s.logger.Info("user registered", zap.String("username", username))

	return s.startSession(ctx, user)
}

// SignIn verifies credentials and creates a session with the persisted
// routine mirrored into it.
func (s *AccountService) SignIn(ctx context.Context, username, password string) (*SignedInSession, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, ports.ErrUserNotFound) {
		return nil, apperrors.NewUnauthorized("Incorrect username.")
	}
	if err != nil {
		return nil, apperrors.NewDatabase("failed to load user", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.NewUnauthorized("Incorrect password.")
	}

	return s.startSession(ctx, user)
}

// SignOut drops the session and with it the routine mirror.
func (s *AccountService) SignOut(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return apperrors.NewInternal("failed to delete session", err)
	}
	return nil
}

func (s *AccountService) startSession(ctx context.Context, user *ports.UserRecord) (*SignedInSession, error) {
	session := &ports.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Username:  user.Username,
		Routine:   user.Routine,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, apperrors.NewInternal("failed to store session", err)
	}

	token, err := s.tokens.Generate(session.ID, user.Username)
	if err != nil {
		return nil, apperrors.NewInternal("failed to mint session token", err)
	}

	s.logger.Debug("session started",
		zap.String("username", user.Username),
		zap.String("sessionID", session.ID),
	)

	return &SignedInSession{Session: session, Token: token}, nil
}
