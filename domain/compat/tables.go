// Package compat models the static ingredient-compatibility relations and
// the direction-agnostic pair lookup the insights graph is built from.
package compat

import (
	"strings"

	"skinsight/domain/catalog"
)

// View selects which relation a graph is built against.
type View string

const (
	ViewConflicts View = "conflicts"
	ViewSynergies View = "synergies"
)

// ParseView maps a client-supplied view name to a View, defaulting to
// conflicts the way the original toggle does.
func ParseView(s string) View {
	if View(strings.ToLower(s)) == ViewSynergies {
		return ViewSynergies
	}
	return ViewConflicts
}

// Relation is an ingredient adjacency list. Relations are symmetric in
// effect but are not guaranteed to be fully mirrored, so membership must be
// tested in both directions.
type Relation map[string][]string

// Match is the ingredient pair that triggered a relation hit. From belongs
// to the first product's set; it becomes the edge label.
type Match struct {
	From string
	To   string
}

// Tables holds the conflict and synergy relations as an immutable snapshot.
// Build one at startup (or on config reload) and share it read-only.
type Tables struct {
	conflicts Relation
	synergies Relation
}

// NewTables copies the given relations into an immutable snapshot,
// lowercasing every token.
func NewTables(conflicts, synergies Relation) *Tables {
	return &Tables{
		conflicts: normalizeRelation(conflicts),
		synergies: normalizeRelation(synergies),
	}
}

func normalizeRelation(rel Relation) Relation {
	out := make(Relation, len(rel))
	for ingred, others := range rel {
		copied := make([]string, len(others))
		for i, o := range others {
			copied[i] = strings.ToLower(o)
		}
		out[strings.ToLower(ingred)] = copied
	}
	return out
}

// DefaultTables returns the built-in relations. A deployment can override
// them with a loadable table file; the lookup is the same either way.
func DefaultTables() *Tables {
	return NewTables(
		Relation{
			"retinoid":         {"benzoyl peroxide", "aha", "bha", "vitamin c"},
			"benzoyl peroxide": {"retinoid", "vitamin c"},
			"aha":              {"vitamin c", "retinoid"},
			"bha":              {"vitamin c", "retinoid"},
			"vitamin c":        {"aha", "bha", "benzoyl peroxide"},
		},
		Relation{
			"aha":         {"bha"},
			"bha":         {"aha"},
			"ceramides":   {"niacinamide"},
			"niacinamide": {"ceramides"},
			"vitamin c":   {"vitamin e"},
			"vitamin e":   {"vitamin c"},
			"retinoid":    {"peptides"},
			"peptides":    {"retinoid"},
		},
	)
}

// FirstMatch scans the two ingredient sets for the first pair related under
// the view, checking the adjacency list in both directions. Iteration order
// over the sets is unspecified, so when several pairs qualify the one
// reported is arbitrary; callers accept that.
func (t *Tables) FirstMatch(view View, set1, set2 catalog.IngredientSet) (Match, bool) {
	rel := t.conflicts
	if view == ViewSynergies {
		rel = t.synergies
	}

	for ingred1 := range set1 {
		for ingred2 := range set2 {
			if related(rel, ingred1, ingred2) {
				return Match{From: ingred1, To: ingred2}, true
			}
		}
	}
	return Match{}, false
}

func related(rel Relation, a, b string) bool {
	for _, other := range rel[a] {
		if other == b {
			return true
		}
	}
	for _, other := range rel[b] {
		if other == a {
			return true
		}
	}
	return false
}
