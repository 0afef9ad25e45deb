package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"skinsight/application/ports"
	"skinsight/domain/compat"
	"skinsight/domain/insights"
	apperrors "skinsight/pkg/errors"
)

// TableProvider yields the current compatibility-table snapshot. The
// returned value is immutable; hot reloads swap the snapshot out between
// requests.
type TableProvider interface {
	Current() *compat.Tables
}

// InsightsService builds the compatibility graph for the session's routine.
type InsightsService struct {
	sessions ports.SessionStore
	catalog  ports.ProductCatalog
	tables   TableProvider
	logger   *zap.Logger
}

// NewInsightsService creates a new insights service.
func NewInsightsService(
	sessions ports.SessionStore,
	catalog ports.ProductCatalog,
	tables TableProvider,
	logger *zap.Logger,
) *InsightsService {
	return &InsightsService{
		sessions: sessions,
		catalog:  catalog,
		tables:   tables,
		logger:   logger,
	}
}

// Graph recomputes the element sequence for the session's routine under the
// given view. It degrades rather than fails: a session without a routine
// produces an empty graph.
func (s *InsightsService) Graph(ctx context.Context, sessionID string, view compat.View) ([]insights.Element, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return nil, apperrors.NewUnauthorized("session expired")
	}
	if err != nil {
		return nil, apperrors.NewInternal("failed to load session", err)
	}

	elements := insights.Build(session.Routine, view, s.tables.Current(), s.catalog)

	s.logger.Debug("graph built",
		zap.String("view", string(view)),
		zap.String("username", session.Username),
		zap.Int("elements", len(elements)),
	)

	return elements, nil
}
