// Package catalog defines the product records the routine and insights
// logic read from the product dataset.
package catalog

import "strings"

// Product is one catalog entry. ID is the hyphen-separated human-readable
// key routines reference products by.
type Product struct {
	ID          string   `json:"id"`
	Brand       string   `json:"brand"`
	Name        string   `json:"name"`
	Ingredients []string `json:"important_ingredients"`
}

// IngredientSet is the set of lowercase important-ingredient tokens for a
// product. A product missing from the dataset has an empty set, never an
// error.
type IngredientSet map[string]struct{}

// NewIngredientSet lowercases the given tokens into a set.
func NewIngredientSet(tokens []string) IngredientSet {
	set := make(IngredientSet, len(tokens))
	for _, tok := range tokens {
		set[strings.ToLower(tok)] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given (already lowercase) token.
func (s IngredientSet) Contains(token string) bool {
	_, ok := s[token]
	return ok
}
