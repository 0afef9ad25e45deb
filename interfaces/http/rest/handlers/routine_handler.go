package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"skinsight/application/services"
	"skinsight/domain/routine"
	"skinsight/pkg/auth"
	"skinsight/pkg/common"
	apperrors "skinsight/pkg/errors"
	"skinsight/pkg/utils"
)

// RoutineHandler handles reading and replacing the user's routine.
type RoutineHandler struct {
	routines *services.RoutineService
	logger   *zap.Logger
}

// NewRoutineHandler creates a new routine handler.
func NewRoutineHandler(routines *services.RoutineService, logger *zap.Logger) *RoutineHandler {
	return &RoutineHandler{routines: routines, logger: logger}
}

// RawSectionRequest mirrors the client's loose section shape. Empty names
// and empty product strings are sanitized, not rejected.
type RawSectionRequest struct {
	Section  string   `json:"section"`
	Products []string `json:"products"`
}

// SubmitRoutineRequest is the body for routine submission.
type SubmitRoutineRequest struct {
	Routine []RawSectionRequest `json:"routine" validate:"max=100"`
}

// RoutineResponse carries the canonical routine.
type RoutineResponse struct {
	Routine routine.Routine `json:"routine"`
}

// Get handles GET /routine, returning the session's routine mirror.
func (h *RoutineHandler) Get(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	current, err := h.routines.Current(r.Context(), userCtx.SessionID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}
	if current == nil {
		current = routine.Routine{}
	}

	common.RespondJSON(w, http.StatusOK, RoutineResponse{Routine: current})
}

// Submit handles PUT /routine: normalize, persist (full replace), and mirror
// into the session.
func (h *RoutineHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	var req SubmitRoutineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondAppError(w, apperrors.NewValidation("Invalid request body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondAppError(w, apperrors.NewValidation(err.Error()))
		return
	}

	raw := make([]routine.RawSection, len(req.Routine))
	for i, sec := range req.Routine {
		raw[i] = routine.RawSection{Section: sec.Section, Products: sec.Products}
	}

	canonical, err := h.routines.Submit(r.Context(), userCtx.SessionID, userCtx.Username, raw)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, RoutineResponse{Routine: canonical})
}
