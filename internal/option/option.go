// Package option holds the selectable entries of a dropdown and derives the
// working view (filtered or sorted) shown in the overlay.
//
// The source list is treated as read-only. Every derivation returns a fresh
// slice built from the source and the current query, so callers never have
// to reason about incremental updates.
package option

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Option is one selectable entry. Its identity is Value.
type Option[V comparable] struct {
	Label string
	Value V
}

// New creates an option.
func New[V comparable](label string, value V) Option[V] {
	return Option[V]{Label: label, Value: value}
}

// SortOrder is the direction labels are sorted in.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// ErrSortOrder is returned for unknown sort order names.
var ErrSortOrder = errors.New("invalid sort order")

// ParseSortOrder parses "asc" or "desc" (case-insensitive). The empty string
// yields Asc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	}
	return Asc, fmt.Errorf("%w: %q", ErrSortOrder, s)
}

// Query describes how the view is derived from the source list.
type Query struct {
	Text          string
	SearchEnabled bool
	SortEnabled   bool
	Order         SortOrder
}

// DeriveView computes the options to display.
//
// A non-empty search text (with search enabled) filters the source and
// keeps its order; otherwise the source is sorted when sorting is enabled;
// otherwise it is returned as given.
func DeriveView[V comparable](source []Option[V], q Query) []Option[V] {
	if q.SearchEnabled && q.Text != "" {
		return Filter(source, q.Text)
	}
	if q.SortEnabled {
		return Sort(source, q.Order)
	}
	return slices.Clone(source)
}

// Filter returns the options whose label contains text, ignoring case.
// Order is preserved. The result is never nil.
func Filter[V comparable](source []Option[V], text string) []Option[V] {
	needle := strings.ToLower(text)
	out := make([]Option[V], 0, len(source))
	for _, o := range source {
		if strings.Contains(strings.TrimSpace(strings.ToLower(o.Label)), needle) {
			out = append(out, o)
		}
	}
	return out
}

// Sort returns a copy of source ordered by label. Equal labels keep their
// relative order.
func Sort[V comparable](source []Option[V], order SortOrder) []Option[V] {
	out := slices.Clone(source)
	if out == nil {
		out = []Option[V]{}
	}
	slices.SortStableFunc(out, func(a, b Option[V]) int {
		c := cmp.Compare(a.Label, b.Label)
		if order == Desc {
			return -c
		}
		return c
	})
	return out
}

// Find looks up the option with the given value.
func Find[V comparable](list []Option[V], v V) (Option[V], bool) {
	if i := IndexOf(list, v); i >= 0 {
		return list[i], true
	}
	return Option[V]{}, false
}

// IndexOf returns the index of the option with the given value, or -1.
func IndexOf[V comparable](list []Option[V], v V) int {
	return slices.IndexFunc(list, func(o Option[V]) bool { return o.Value == v })
}
