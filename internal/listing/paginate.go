package listing

import (
	"slices"

	"promptlab-content-service/internal/domain"
)

// Paginate slices items into the requested 1-based page.
//
// Pages below 1 are clamped to 1 and pages past the end yield an empty
// item list; neither is an error. A non-positive pageSize is treated as 1.
func Paginate(items []domain.ContentItem, page, pageSize int) domain.Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(items)

	// (page-1)*pageSize may overflow for absurd page numbers; compare first.
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	// start <= total, so total-start cannot overflow where start+pageSize can.
	end := start + min(pageSize, total-start)

	return domain.Page{
		Items:       slices.Clip(append([]domain.ContentItem{}, items[start:end]...)),
		Page:        page,
		PageSize:    pageSize,
		Total:       total,
		TotalPages:  TotalPages(total, pageSize),
		HasNextPage: pageSize < total-start,
		HasPrevPage: page > 1,
	}
}

// TotalPages returns ceil(total/pageSize), never less than 1.
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if total <= 0 {
		return 1
	}

	return (total-1)/pageSize + 1
}
