package catalog

import "fmt"

// Selection is the filter controller of a page: the selected category plus
// the catalog it ranges over. It always holds the sentinel or a category
// present in the catalog.
type Selection[T Record] struct {
	catalog  *Catalog[T]
	selected string
}

// NewSelection starts on the sentinel.
func NewSelection[T Record](c *Catalog[T]) *Selection[T] {
	return &Selection[T]{catalog: c, selected: c.Sentinel()}
}

// Selected returns the current category.
func (s *Selection[T]) Selected() string {
	return s.selected
}

// Select switches the category. Values outside the category set are
// rejected and the current selection is kept.
func (s *Selection[T]) Select(value string) error {
	if !s.catalog.HasCategory(value) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, value)
	}
	s.selected = value
	return nil
}

// Visible returns the records matching the current selection.
func (s *Selection[T]) Visible() []T {
	return s.catalog.Filter(s.selected)
}

// Categories returns the selectable values.
func (s *Selection[T]) Categories() []string {
	return s.catalog.Categories()
}
