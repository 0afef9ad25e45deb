package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"skinsight/application/ports"
	"skinsight/pkg/auth"
	"skinsight/pkg/common"
	apperrors "skinsight/pkg/errors"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "skinsight_session"

// RequireSession authenticates requests by validating the session token and
// resolving the referenced server-side session. Unauthenticated requests get
// a 401; they are never passed through.
func RequireSession(tokens *auth.TokenManager, sessions ports.SessionStore, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				respondUnauthorized(w, "Sign in required")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					respondUnauthorized(w, "Session has expired")
				default:
					respondUnauthorized(w, "Invalid session token")
				}
				return
			}

			session, err := sessions.Get(r.Context(), claims.SessionID)
			if err != nil {
				// Token is valid but the process no longer knows the
				// session (restart, sign-out elsewhere).
				respondUnauthorized(w, "Session has expired")
				return
			}

			userCtx := &auth.UserContext{
				SessionID: session.ID,
				UserID:    session.UserID,
				Username:  session.Username,
			}

			logger.Debug("request authenticated",
				zap.String("username", session.Username),
				zap.String("path", r.URL.Path),
			)

			ctx := auth.SetUserInContext(r.Context(), userCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken pulls the session token from the cookie or, for non-browser
// clients, a bearer Authorization header.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	return ""
}

// GetClientIP extracts the client IP address for rate limiting.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	common.RespondError(w, http.StatusUnauthorized, string(apperrors.ErrorTypeUnauthorized), message)
}
