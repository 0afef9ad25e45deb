package services

import (
	"context"
	"strings"

	"skinsight/application/ports"
)

// searchResultLimit caps how many product ids a search returns.
const searchResultLimit = 10

// CatalogService answers product searches for the routine editor.
type CatalogService struct {
	catalog ports.ProductCatalog
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog ports.ProductCatalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

// Search returns up to ten product ids matching the query, best matches
// first. A blank query matches nothing.
func (s *CatalogService) Search(ctx context.Context, query string) []string {
	if strings.TrimSpace(query) == "" {
		return []string{}
	}
	return s.catalog.Search(query, searchResultLimit)
}
