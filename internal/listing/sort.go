package listing

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"promptlab-content-service/internal/domain"
)

// Titles are collated with Spanish rules so accented letters sort next to
// their base letter. A Collator is not safe for concurrent use, hence the pool.
var collators = sync.Pool{
	New: func() any {
		return collate.New(language.Spanish)
	},
}

// Sort returns a copy of items ordered by key. Unknown keys sort as featured.
// Every ordering ends in an id tie-break, so no two distinct items compare equal.
func Sort(items []domain.ContentItem, key domain.SortKey) []domain.ContentItem {
	out := slices.Clone(items)
	if out == nil {
		out = []domain.ContentItem{}
	}

	switch key {
	case domain.SortName:
		col := collators.Get().(*collate.Collator)
		defer collators.Put(col)

		slices.SortFunc(out, func(a, b domain.ContentItem) int {
			if c := col.CompareString(a.Title, b.Title); c != 0 {
				return c
			}

			return strings.Compare(a.ID, b.ID)
		})
	case domain.SortRating:
		slices.SortFunc(out, func(a, b domain.ContentItem) int {
			if c := cmp.Compare(b.RatingValue(), a.RatingValue()); c != 0 {
				return c
			}

			return strings.Compare(a.ID, b.ID)
		})
	case domain.SortRecent:
		slices.SortFunc(out, compareRecent)
	default:
		slices.SortFunc(out, compareFeatured)
	}

	return out
}

// compareRecent orders dated items newest first, then undated items.
// Remaining ties fall back to id descending.
func compareRecent(a, b domain.ContentItem) int {
	aZero, bZero := a.PublishedAt.IsZero(), b.PublishedAt.IsZero()

	switch {
	case aZero && !bZero:
		return 1
	case !aZero && bZero:
		return -1
	case !aZero && !bZero:
		if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
			return c
		}
	}

	return strings.Compare(b.ID, a.ID)
}

func compareFeatured(a, b domain.ContentItem) int {
	if a.Featured != b.Featured {
		if a.Featured {
			return -1
		}

		return 1
	}
	if c := cmp.Compare(b.RatingValue(), a.RatingValue()); c != 0 {
		return c
	}

	return strings.Compare(a.ID, b.ID)
}
