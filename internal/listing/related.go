package listing

import (
	"promptlab-content-service/internal/domain"
)

// Related returns up to limit candidates that share a category or a tag with
// current, in candidate order. current itself is never included.
func Related(candidates []domain.ContentItem, current *domain.ContentItem, limit int) []domain.ContentItem {
	out := make([]domain.ContentItem, 0, max(0, min(limit, len(candidates))))
	if current == nil {
		return out
	}

	for i := range candidates {
		if len(out) >= limit {
			break
		}

		item := &candidates[i]
		if item.ID == current.ID {
			continue
		}
		if item.HasCategory(current.Categories) || item.HasTag(current.Tags) {
			out = append(out, *item)
		}
	}

	return out
}
