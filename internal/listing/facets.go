package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"promptlab-content-service/internal/domain"
)

// CountCategories counts items per category id.
func CountCategories(items []domain.ContentItem) []domain.FacetCount {
	return countBy(items, func(item *domain.ContentItem) []string { return item.Categories })
}

// CountTags counts items per tag id.
func CountTags(items []domain.ContentItem) []domain.FacetCount {
	return countBy(items, func(item *domain.ContentItem) []string { return item.Tags })
}

// countBy groups values case-insensitively, keeping the first spelling seen.
// Results are ordered by count descending, then by collated id.
func countBy(items []domain.ContentItem, values func(*domain.ContentItem) []string) []domain.FacetCount {
	index := make(map[string]int)
	counts := make([]domain.FacetCount, 0)

	for i := range items {
		seen := make(map[string]struct{})
		for _, v := range values(&items[i]) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			key := strings.ToLower(v)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if pos, ok := index[key]; ok {
				counts[pos].Count++
				continue
			}
			index[key] = len(counts)
			counts = append(counts, domain.FacetCount{ID: v, Count: 1})
		}
	}

	col := collators.Get().(*collate.Collator)
	defer collators.Put(col)

	slices.SortFunc(counts, func(a, b domain.FacetCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		if c := col.CompareString(a.ID, b.ID); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return counts
}
