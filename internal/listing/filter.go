// Package listing resolves filter, sort and pagination requests over a
// candidate set of content items. Every function here is pure: it performs
// no I/O, never mutates its input and is safe for concurrent use.
package listing

import (
	"slices"
	"strings"

	"promptlab-content-service/internal/domain"
)

// Filter returns the items that pass every active facet of spec, in input order.
func Filter(items []domain.ContentItem, spec domain.FilterSpec) []domain.ContentItem {
	term := strings.ToLower(spec.SearchTerm)

	out := make([]domain.ContentItem, 0, len(items))
	for i := range items {
		if matches(&items[i], spec, term) {
			out = append(out, items[i])
		}
	}

	return out
}

// Matches reports whether a single item passes every active facet of spec.
func Matches(item *domain.ContentItem, spec domain.FilterSpec) bool {
	return matches(item, spec, strings.ToLower(spec.SearchTerm))
}

// matches short-circuits on the first failing facet. term is already normalized.
func matches(item *domain.ContentItem, spec domain.FilterSpec, term string) bool {
	if spec.FeaturedOnly && !item.Featured {
		return false
	}
	if len(spec.Tags) > 0 && !item.HasTag(spec.Tags) {
		return false
	}
	if len(spec.Categories) > 0 && !item.HasCategory(spec.Categories) {
		return false
	}
	if len(spec.PriceTypes) > 0 && !slices.Contains(spec.PriceTypes, item.PriceType) {
		return false
	}
	if term != "" && !containsTerm(item, term) {
		return false
	}

	return true
}

func containsTerm(item *domain.ContentItem, term string) bool {
	for _, field := range item.SearchableText() {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}

	return false
}
