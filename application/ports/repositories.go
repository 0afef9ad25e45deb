// Package ports defines the persistence and dataset interfaces the
// application services depend on. Implementations live under
// infrastructure/.
package ports

import (
	"context"
	"errors"
	"time"

	"skinsight/domain/catalog"
	"skinsight/domain/routine"
)

// Store errors.
var (
	ErrDuplicateUsername = errors.New("username already registered")
	ErrUserNotFound      = errors.New("user not found")
	ErrSessionNotFound   = errors.New("session not found")
)

// UserRecord is a persisted user. Routine is nil until the user submits one.
type UserRecord struct {
	ID           int64
	Username     string
	PasswordHash string
	Routine      routine.Routine
}

// UserRepository persists user records and their routines.
type UserRepository interface {
	// Create inserts a new user. Returns ErrDuplicateUsername when the
	// username is taken.
	Create(ctx context.Context, username, passwordHash string) (*UserRecord, error)

	// GetByUsername retrieves a user. Returns ErrUserNotFound when absent.
	GetByUsername(ctx context.Context, username string) (*UserRecord, error)

	// ReplaceRoutine overwrites the user's persisted routine wholesale.
	ReplaceRoutine(ctx context.Context, username string, r routine.Routine) error
}

// Session is the per-sign-in server-side state, including the routine
// mirror kept for reads without a store round trip.
type Session struct {
	ID        string
	UserID    int64
	Username  string
	Routine   routine.Routine
	CreatedAt time.Time
}

// SessionStore keeps active sessions.
type SessionStore interface {
	// Put stores a session, replacing any session with the same ID.
	Put(ctx context.Context, s *Session) error

	// Get retrieves a session. Returns ErrSessionNotFound when absent.
	Get(ctx context.Context, id string) (*Session, error)

	// SetRoutine replaces the routine mirror of an existing session.
	SetRoutine(ctx context.Context, id string, r routine.Routine) error

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error
}

// ProductCatalog is the read-only product dataset.
type ProductCatalog interface {
	// Ingredients returns the important-ingredient set for a product id.
	// Unknown ids return an empty set, never an error.
	Ingredients(productID string) catalog.IngredientSet

	// Search ranks products by how many query terms match their name or
	// brand and returns up to limit product ids, best matches first.
	Search(query string, limit int) []string
}
