package compare

import (
	"errors"
	"slices"

	"github.com/tayloree/appliance-compare/internal/catalog"
)

// ErrSelectionFull is returned when all compare slots are taken.
var ErrSelectionFull = errors.New("compare selection is full")

// Selection is the ordered set of products picked for comparison. All members
// share one category; adding a product from another category starts over.
type Selection struct {
	Category catalog.Category `json:"category,omitempty"`
	IDs      []string         `json:"ids,omitempty"`
}

// Add appends p. It reports whether the previous selection was replaced
// because p belongs to another category.
func (s *Selection) Add(p catalog.Product) (replaced bool, err error) {
	if s.Category != "" && s.Category != p.Category && len(s.IDs) > 0 {
		s.Category = p.Category
		s.IDs = []string{p.ID}
		return true, nil
	}
	s.Category = p.Category
	if s.Contains(p.ID) {
		return false, nil
	}
	if len(s.IDs) >= MaxProducts {
		return false, ErrSelectionFull
	}
	s.IDs = append(s.IDs, p.ID)
	return false, nil
}

// Remove drops id from the selection.
func (s *Selection) Remove(id string) {
	s.IDs = slices.DeleteFunc(s.IDs, func(v string) bool { return v == id })
	if len(s.IDs) == 0 {
		s.Category = ""
	}
}

// Toggle adds p when absent and removes it when present.
func (s *Selection) Toggle(p catalog.Product) (replaced bool, err error) {
	if s.Category == p.Category && s.Contains(p.ID) {
		s.Remove(p.ID)
		return false, nil
	}
	return s.Add(p)
}

// Contains reports whether id is selected.
func (s Selection) Contains(id string) bool { return slices.Contains(s.IDs, id) }

// Len is the number of selected products.
func (s Selection) Len() int { return len(s.IDs) }

// Ready reports whether the selection has enough products to compare.
func (s Selection) Ready() bool { return len(s.IDs) >= MinProducts }

// Clear empties the selection.
func (s *Selection) Clear() {
	s.Category = ""
	s.IDs = nil
}

// Resolver finds products by category and id.
type Resolver interface {
	Find(cat catalog.Category, id string) (catalog.Product, bool)
}

// Resolve maps the selection to products, skipping ids no longer in the
// catalog.
func (s Selection) Resolve(r Resolver) []catalog.Product {
	out := make([]catalog.Product, 0, len(s.IDs))
	for _, id := range s.IDs {
		if p, ok := r.Find(s.Category, id); ok {
			out = append(out, p)
		}
	}
	return out
}
