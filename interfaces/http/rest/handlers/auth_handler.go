package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"skinsight/application/services"
	"skinsight/pkg/auth"
	"skinsight/pkg/common"
	apperrors "skinsight/pkg/errors"
	"skinsight/pkg/utils"

	"skinsight/interfaces/http/rest/middleware"
)

// AuthHandler handles registration, sign-in, and sign-out.
type AuthHandler struct {
	accounts      *services.AccountService
	signInLimiter *auth.TokenBucketLimiter
	secureCookies bool
	logger        *zap.Logger
}

// NewAuthHandler creates a new auth handler. secureCookies should be true
// outside development so the session cookie is HTTPS-only.
func NewAuthHandler(accounts *services.AccountService, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		// 10 attempts per IP, one token back every 30 seconds.
		signInLimiter: auth.NewTokenBucketLimiter(10, 30*time.Second),
		secureCookies: secureCookies,
		logger:        logger,
	}
}

// CredentialsRequest is the body for register and sign-in.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// SessionResponse reports the signed-in identity.
type SessionResponse struct {
	Username string `json:"username"`
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	signedIn, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.setSessionCookie(w, signedIn.Token)
	common.RespondJSON(w, http.StatusCreated, SessionResponse{Username: signedIn.Session.Username})
}

// SignIn handles POST /auth/sign-in.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	clientIP := middleware.GetClientIP(r)
	if !h.signInLimiter.Allow(r.Context(), clientIP) {
		h.logger.Warn("sign-in rate limited", zap.String("ip", clientIP))
		common.RespondAppError(w, apperrors.NewRateLimit("Too many sign-in attempts"))
		return
	}

	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	signedIn, err := h.accounts.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.setSessionCookie(w, signedIn.Token)
	common.RespondJSON(w, http.StatusOK, SessionResponse{Username: signedIn.Session.Username})
}

// SignOut handles POST /auth/sign-out. It requires an authenticated session
// and drops it along with the routine mirror.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	if err := h.accounts.SignOut(r.Context(), userCtx.SessionID); err != nil {
		common.RespondAppError(w, err)
		return
	}

	h.clearSessionCookie(w)
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (*CredentialsRequest, bool) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondAppError(w, apperrors.NewValidation("Invalid request body"))
		return nil, false
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidation(err.Error()))
		return nil, false
	}
	return &req, true
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
