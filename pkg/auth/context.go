package auth

import (
	"context"

	apperrors "skinsight/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user_context"

// UserContext is the authenticated identity attached to a request by the
// session middleware.
type UserContext struct {
	SessionID string
	UserID    int64
	Username  string
}

// SetUserInContext attaches the user context to a request context.
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the user context set by the session middleware.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, apperrors.NewUnauthorized("no authenticated user in context")
	}
	return user, nil
}
