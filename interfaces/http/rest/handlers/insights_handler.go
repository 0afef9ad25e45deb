package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"skinsight/application/services"
	"skinsight/domain/compat"
	"skinsight/domain/insights"
	"skinsight/pkg/auth"
	"skinsight/pkg/common"
)

// InsightsHandler serves the compatibility graph for the session's routine.
type InsightsHandler struct {
	insights *services.InsightsService
	logger   *zap.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(insights *services.InsightsService, logger *zap.Logger) *InsightsHandler {
	return &InsightsHandler{insights: insights, logger: logger}
}

// GraphResponse carries the element sequence (nodes first, then edges) the
// rendering widget consumes verbatim, plus the view it was built under.
type GraphResponse struct {
	View     compat.View        `json:"view"`
	Elements []insights.Element `json:"elements"`
}

// Graph handles GET /insights/graph?view=conflicts|synergies. The graph is
// recomputed in full on every request; toggling views re-requests it.
func (h *InsightsHandler) Graph(w http.ResponseWriter, r *http.Request) {
	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	view := compat.ParseView(r.URL.Query().Get("view"))

	elements, err := h.insights.Graph(r.Context(), userCtx.SessionID, view)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, GraphResponse{View: view, Elements: elements})
}
