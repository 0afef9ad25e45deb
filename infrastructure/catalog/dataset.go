// Package catalog loads the static product dataset and answers ingredient
// lookups and product searches over it.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"skinsight/application/ports"
	domaincatalog "skinsight/domain/catalog"
)

//go:embed seed_products.json
var seedProducts []byte

// Dataset is the immutable in-memory product dataset, loaded once at
// startup.
type Dataset struct {
	products    []domaincatalog.Product
	ingredients map[string]domaincatalog.IngredientSet
}

// Load reads the dataset from path, or from the embedded seed when path is
// empty.
func Load(path string, logger *zap.Logger) (*Dataset, error) {
	data := seedProducts
	source := "embedded seed"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read product dataset: %w", err)
		}
		data = b
		source = path
	}

	var products []domaincatalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse product dataset: %w", err)
	}

	ingredients := make(map[string]domaincatalog.IngredientSet, len(products))
	for _, p := range products {
		ingredients[p.ID] = domaincatalog.NewIngredientSet(p.Ingredients)
	}

	logger.Info("product dataset loaded",
		zap.String("source", source),
		zap.Int("products", len(products)),
	)

	return &Dataset{products: products, ingredients: ingredients}, nil
}

// Ingredients returns the important-ingredient set for a product id.
// Unknown ids yield an empty set.
func (d *Dataset) Ingredients(productID string) domaincatalog.IngredientSet {
	if set, ok := d.ingredients[productID]; ok {
		return set
	}
	return domaincatalog.IngredientSet{}
}

// Search splits the query into terms, counts per-product how many terms are
// case-insensitive substrings of the name or brand, and returns up to limit
// product ids ordered by match count descending. Products matching no term
// are excluded.
func (d *Dataset) Search(query string, limit int) []string {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []string{}
	}

	type scored struct {
		id    string
		count int
	}
	var results []scored
	for _, p := range d.products {
		name := strings.ToLower(p.Name)
		brand := strings.ToLower(p.Brand)

		count := 0
		for _, term := range terms {
			if strings.Contains(name, term) || strings.Contains(brand, term) {
				count++
			}
		}
		if count > 0 {
			results = append(results, scored{id: p.ID, count: count})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].count > results[j].count
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.id
	}
	return ids
}

var _ ports.ProductCatalog = (*Dataset)(nil)
