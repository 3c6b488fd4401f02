// Package query filters and orders entity collections. Every function is
// pure and preserves the input order unless it says otherwise.
package query

import (
	"strings"
)

// Predicate reports whether an item passes one filter clause.
type Predicate[T any] func(T) bool

// Filter keeps the items that satisfy every predicate (AND logic). Nil
// predicates are ignored. The result is always a new slice.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	active := preds[:0:0]
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if matchAll(item, active) {
			out = append(out, item)
		}
	}
	return out
}

func matchAll[T any](item T, preds []Predicate[T]) bool {
	for _, p := range preds {
		if !p(item) {
			return false
		}
	}
	return true
}

// IsBlank reports whether a search query imposes no constraint.
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// ContainsFold performs case-insensitive substring matching of query
// against any of fields. The query is used untrimmed.
func ContainsFold(query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// first returns at most n items of in. A negative n means all of them.
func first[T any](in []T, n int) []T {
	if n >= 0 && len(in) > n {
		in = in[:n]
	}
	return append([]T{}, in...)
}
