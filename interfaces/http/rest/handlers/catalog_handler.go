package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"skinsight/application/services"
	"skinsight/pkg/common"
)

// CatalogHandler answers product searches for the routine editor.
type CatalogHandler struct {
	catalog *services.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// SearchResponse lists matching product ids, best matches first.
type SearchResponse struct {
	Products []string `json:"products"`
}

// Search handles GET /products/search?query=...
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	products := h.catalog.Search(r.Context(), query)

	common.RespondJSON(w, http.StatusOK, SearchResponse{Products: products})
}
