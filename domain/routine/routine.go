// Package routine holds the canonical skincare-routine model and the
// normalization rules applied to client-submitted routines.
package routine

import "encoding/json"

// PlaceholderTitle is substituted for sections submitted without a name.
const PlaceholderTitle = "Unnamed step"

// Section is one named step of a routine and the products applied in it.
// Order of products inside a section is meaningful.
type Section struct {
	Title    string   `json:"title"`
	Products []string `json:"products"`
}

// Routine is an ordered sequence of sections. Section order reflects
// application order (cleanser before moisturizer) but carries no weight in
// the compatibility logic.
type Routine []Section

// RawSection is the loosely-structured shape clients submit. Both fields are
// optional; Normalize sanitizes rather than rejects.
type RawSection struct {
	Section  string   `json:"section"`
	Products []string `json:"products"`
}

// Normalize converts raw submitted sections into the canonical Routine.
// Empty section names become PlaceholderTitle, empty-string product entries
// are dropped, and the order of everything else is preserved. Duplicate
// products are legal and kept.
func Normalize(raw []RawSection) Routine {
	r := make(Routine, 0, len(raw))
	for _, sec := range raw {
		title := sec.Section
		if title == "" {
			title = PlaceholderTitle
		}

		products := make([]string, 0, len(sec.Products))
		for _, p := range sec.Products {
			if p != "" {
				products = append(products, p)
			}
		}

		r = append(r, Section{Title: title, Products: products})
	}
	return r
}

// Products flattens the routine into a single ordered product list: section
// order first, then within-section order. This is the iteration order the
// graph generator pairs products in.
func (r Routine) Products() []string {
	var products []string
	for _, sec := range r {
		products = append(products, sec.Products...)
	}
	return products
}

// Encode serializes the routine to the structured text stored in the user
// record's routine column.
func Encode(r Routine) (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a stored routine back into the canonical form. An empty
// string decodes to a nil routine, which the rest of the system treats as
// "no routine yet".
func Decode(s string) (Routine, error) {
	if s == "" {
		return nil, nil
	}
	var r Routine
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return nil, err
	}
	return r, nil
}
