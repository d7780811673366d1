package domain

import "strings"

// SortKey is a named ordering strategy for listings.
type SortKey string

const (
	SortFeatured SortKey = "featured" // default
	SortRating   SortKey = "rating"
	SortName     SortKey = "name"
	SortRecent   SortKey = "recent"
)

// ParseSortKey maps a raw value to a SortKey, falling back to def when empty or unknown.
func ParseSortKey(raw string, def SortKey) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(raw))); k {
	case SortFeatured, SortRating, SortName, SortRecent:
		return k
	default:
		return def
	}
}

// FilterSpec is the validated set of client-side facets of a listing request.
// An empty facet does not filter. Facets combine with AND; values within
// a facet combine with OR.
type FilterSpec struct {
	Tags         []string
	Categories   []string
	SearchTerm   string
	PriceTypes   []PriceType
	FeaturedOnly bool
}

// IsEmpty reports whether no facet is active.
func (f FilterSpec) IsEmpty() bool {
	return len(f.Tags) == 0 &&
		len(f.Categories) == 0 &&
		f.SearchTerm == "" &&
		len(f.PriceTypes) == 0 &&
		!f.FeaturedOnly
}

// ListingRequest is a fully typed request for one page of a listing.
type ListingRequest struct {
	Facet    Facet
	Filter   FilterSpec
	Sort     SortKey
	Page     int
	PageSize int
}

// Page is one slice of a resolved listing.
type Page struct {
	Items       []ContentItem `json:"items"`
	Page        int           `json:"page"`
	PageSize    int           `json:"page_size"`
	Total       int           `json:"total"`
	TotalPages  int           `json:"total_pages"`
	HasNextPage bool          `json:"has_next_page"`
	HasPrevPage bool          `json:"has_prev_page"`
}

// EmptyPage returns the page reported when no candidates could be loaded.
func EmptyPage(page, pageSize int) Page {
	if page < 1 {
		page = 1
	}

	return Page{
		Items:       []ContentItem{},
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  1,
		HasPrevPage: page > 1,
	}
}

// PageSizes holds the fixed page size for every listing type.
type PageSizes struct {
	Articles int
	Search   int
	Tools    int
	Featured int
}

// DefaultPageSizes returns the page sizes used when none are configured.
func DefaultPageSizes() PageSizes {
	return PageSizes{
		Articles: 12,
		Search:   9,
		Tools:    12,
		Featured: 6,
	}
}
