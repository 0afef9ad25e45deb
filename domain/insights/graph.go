// Package insights builds the compatibility graph for a routine: one node
// per product occurrence and a directed edge for every ordered product pair
// whose ingredients are related under the selected view.
package insights

import (
	"skinsight/domain/catalog"
	"skinsight/domain/compat"
	"skinsight/domain/routine"
)

// ElementData is the payload of a cytoscape-style graph element. Nodes carry
// ID and Label; edges additionally carry Source and Target.
type ElementData struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// Element is one graph element in the shape the rendering widget consumes
// verbatim.
type Element struct {
	Data ElementData `json:"data"`
}

// IngredientSource resolves a product id to its important-ingredient set.
// Unknown products resolve to an empty set.
type IngredientSource interface {
	Ingredients(productID string) catalog.IngredientSet
}

// Build returns the full element sequence for the routine under the given
// view: nodes first (in encountered order), then edges. It never fails; an
// empty or nil routine produces an empty sequence.
func Build(r routine.Routine, view compat.View, tables *compat.Tables, src IngredientSource) []Element {
	elements := Nodes(r)
	return append(elements, Edges(r, view, tables, src)...)
}

// Nodes emits one node per product occurrence, in routine order. Occurrences
// are deliberately not deduplicated; node identity is keyed by the product
// id string, so repeated ids collapse in the renderer.
func Nodes(r routine.Routine) []Element {
	nodes := []Element{}
	for _, sec := range r {
		for _, product := range sec.Products {
			nodes = append(nodes, Element{Data: ElementData{ID: product, Label: product}})
		}
	}
	return nodes
}

// Edges visits every ordered pair of distinct positions in the flattened
// product list (permutations, so both directions of each pairing) and emits
// an edge whenever the two ingredient sets contain a related pair. The edge
// label is the matching ingredient from the source product's set.
func Edges(r routine.Routine, view compat.View, tables *compat.Tables, src IngredientSource) []Element {
	products := r.Products()
	edges := []Element{}

	for i, product1 := range products {
		for j, product2 := range products {
			if i == j {
				continue
			}

			match, ok := tables.FirstMatch(view, src.Ingredients(product1), src.Ingredients(product2))
			if !ok {
				continue
			}

			// Edge ids concatenate the two product ids with no delimiter;
			// the renderer keys edges by this exact string.
			edges = append(edges, Element{Data: ElementData{
				ID:     product1 + product2,
				Source: product1,
				Target: product2,
				Label:  match.From,
			}})
		}
	}
	return edges
}
