// Package catalog holds the read-only record lists behind the storefront and
// portfolio pages and derives the category-filtered views over them.
package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID      = errors.New("duplicate record id")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrRecordNotFound   = errors.New("record not found")
	ErrSentinelCategory = errors.New("record uses the sentinel category")
)

// Record is anything a Catalog can index and filter.
type Record interface {
	RecordID() int64
	RecordCategory() string
}

// Catalog is an immutable list of records with unique ids.
type Catalog[T Record] struct {
	sentinel string
	records  []T
	index    map[int64]int
}

// New copies records into a catalog. Ids must be unique and no record may
// use the sentinel as its category.
func New[T Record](sentinel string, records []T) (*Catalog[T], error) {
	c := &Catalog[T]{
		sentinel: sentinel,
		records:  make([]T, len(records)),
		index:    make(map[int64]int, len(records)),
	}
	copy(c.records, records)

	for i, r := range c.records {
		if _, ok := c.index[r.RecordID()]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, r.RecordID())
		}
		if r.RecordCategory() == sentinel {
			return nil, fmt.Errorf("%w: record %d", ErrSentinelCategory, r.RecordID())
		}
		c.index[r.RecordID()] = i
	}

	return c, nil
}

// Sentinel returns the "show everything" selection value.
func (c *Catalog[T]) Sentinel() string {
	return c.sentinel
}

// All returns a copy of every record in definition order.
func (c *Catalog[T]) All() []T {
	out := make([]T, len(c.records))
	copy(out, c.records)
	return out
}

// Len returns the number of records.
func (c *Catalog[T]) Len() int {
	return len(c.records)
}

// Get returns the record with the given id.
func (c *Catalog[T]) Get(id int64) (T, error) {
	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %d", ErrRecordNotFound, id)
	}
	return c.records[i], nil
}

// Categories returns the sentinel followed by the distinct record categories
// in first-seen order.
func (c *Catalog[T]) Categories() []string {
	seen := make(map[string]struct{}, len(c.records))
	out := []string{c.sentinel}
	for _, r := range c.records {
		cat := r.RecordCategory()
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	return out
}

// HasCategory reports whether value is the sentinel or a record category.
func (c *Catalog[T]) HasCategory(value string) bool {
	if value == c.sentinel {
		return true
	}
	for _, r := range c.records {
		if r.RecordCategory() == value {
			return true
		}
	}
	return false
}

// Filter returns every record when selected is the sentinel and otherwise
// the records whose category equals selected. A value that matches no
// category yields an empty, non-nil slice.
func (c *Catalog[T]) Filter(selected string) []T {
	if selected == c.sentinel {
		return c.All()
	}
	out := make([]T, 0)
	for _, r := range c.records {
		if r.RecordCategory() == selected {
			out = append(out, r)
		}
	}
	return out
}
