// Package collection filters, sorts and pages an in-memory result set.
package collection

import (
	"sort"
	"strings"
)

const DefaultPageSize = 10

type Query[T any] struct {
	Predicate func(T) bool
	Less      func(a, b T) bool
	Page      int
	PageSize  int
}

type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalItems int  `json:"totalItems"`
	TotalPages int  `json:"totalPages"`
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// Apply returns the requested page of items matching q. The input slice
// is never reordered. Out-of-range pages are clamped.
func Apply[T any](items []T, q Query[T]) Page[T] {
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if q.Predicate == nil || q.Predicate(item) {
			filtered = append(filtered, item)
		}
	}

	if q.Less != nil {
		sort.SliceStable(filtered, func(i, j int) bool {
			return q.Less(filtered[i], filtered[j])
		})
	}

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}

	total := len(filtered)
	totalPages := 1
	if total > 0 {
		totalPages = (total + size - 1) / size
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := min(start+size, total)

	return Page[T]{
		Items:      filtered[start:end],
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
}

// ContainsFold reports whether any field contains term, ignoring case.
// An empty term matches everything.
func ContainsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

// And combines predicates; nil predicates are skipped.
func And[T any](predicates ...func(T) bool) func(T) bool {
	return func(item T) bool {
		for _, p := range predicates {
			if p != nil && !p(item) {
				return false
			}
		}
		return true
	}
}

type SortOrder string

const (
	Newest SortOrder = "newest"
	Oldest SortOrder = "oldest"
)

func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(Oldest)) {
		return Oldest
	}
	return Newest
}

// By orders items by key according to order.
func By[T any, K int | int64 | float64 | string](order SortOrder, key func(T) K) func(a, b T) bool {
	if order == Oldest {
		return func(a, b T) bool { return key(a) < key(b) }
	}
	return func(a, b T) bool { return key(a) > key(b) }
}
