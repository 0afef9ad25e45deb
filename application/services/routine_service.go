package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"skinsight/application/ports"
	"skinsight/domain/routine"
	apperrors "skinsight/pkg/errors"
)

// RoutineService normalizes submitted routines and keeps the persisted
// record and the session mirror in step.
type RoutineService struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	logger   *zap.Logger
}

// NewRoutineService creates a new routine service.
func NewRoutineService(
	users ports.UserRepository,
	sessions ports.SessionStore,
	logger *zap.Logger,
) *RoutineService {
	return &RoutineService{
		users:    users,
		sessions: sessions,
		logger:   logger,
	}
}

// Submit normalizes the raw sections, persists the canonical routine for the
// user (full replace), and mirrors it into the session. Submitting the same
// input twice is idempotent.
func (s *RoutineService) Submit(ctx context.Context, sessionID, username string, raw []routine.RawSection) (routine.Routine, error) {
	canonical := routine.Normalize(raw)

	if err := s.users.ReplaceRoutine(ctx, username, canonical); err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return nil, apperrors.NewNotFound("user not found")
		}
		return nil, apperrors.NewDatabase("failed to persist routine", err)
	}

	if err := s.sessions.SetRoutine(ctx, sessionID, canonical); err != nil {
		return nil, apperrors.NewInternal("failed to mirror routine into session", err)
	}

	s.logger.Info("routine replaced",
		zap.String("username", username),
		zap.Int("sections", len(canonical)),
		zap.Int("products", len(canonical.Products())),
	)

	return canonical, nil
}

// Current returns the session's routine mirror. A session without a routine
// yields nil, which callers treat as an empty routine.
func (s *RoutineService) Current(ctx context.Context, sessionID string) (routine.Routine, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return nil, apperrors.NewUnauthorized("session expired")
	}
	if err != nil {
		return nil, apperrors.NewInternal("failed to load session", err)
	}
	return session.Routine, nil
}
