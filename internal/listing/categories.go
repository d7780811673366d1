package listing

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"

	"promptlab-content-service/internal/domain"
)

// MergeCategories attaches article counts to catalog entries, matching slugs
// case-insensitively. Catalog entries nobody uses keep a zero count. Counted
// categories missing from the catalog are added with their id as title.
// The result is ordered by collated title, then slug.
func MergeCategories(catalog []domain.Category, counts []domain.FacetCount) []domain.Category {
	index := make(map[string]int, len(catalog)+len(counts))
	out := make([]domain.Category, 0, len(catalog)+len(counts))

	for _, c := range catalog {
		slug := strings.TrimSpace(c.Slug)
		key := strings.ToLower(slug)
		if slug == "" {
			continue
		}
		if _, dup := index[key]; dup {
			continue
		}
		c.Slug = slug
		if strings.TrimSpace(c.Title) == "" {
			c.Title = slug
		}
		c.ArticleCount = 0
		index[key] = len(out)
		out = append(out, c)
	}

	for _, fc := range counts {
		key := strings.ToLower(fc.ID)
		if pos, ok := index[key]; ok {
			out[pos].ArticleCount += fc.Count
			continue
		}
		index[key] = len(out)
		out = append(out, domain.Category{Slug: fc.ID, Title: fc.ID, ArticleCount: fc.Count})
	}

	col := collators.Get().(*collate.Collator)
	defer collators.Put(col)

	slices.SortFunc(out, func(a, b domain.Category) int {
		if c := col.CompareString(a.Title, b.Title); c != 0 {
			return c
		}

		return strings.Compare(a.Slug, b.Slug)
	})

	return out
}
