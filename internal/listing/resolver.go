package listing

import (
	"promptlab-content-service/internal/domain"
)

// Resolve runs filter, then sort, then paginate over candidates.
// It cannot fail and returns identical output for identical input.
func Resolve(candidates []domain.ContentItem, filter domain.FilterSpec, key domain.SortKey, page, pageSize int) domain.Page {
	return Paginate(Sort(Filter(candidates, filter), key), page, pageSize)
}

// ResolveRequest is Resolve for a typed listing request.
func ResolveRequest(candidates []domain.ContentItem, req domain.ListingRequest) domain.Page {
	return Resolve(candidates, req.Filter, req.Sort, req.Page, req.PageSize)
}
