package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"promptlab-content-service/internal/domain"
)

func TestRelated(t *testing.T) {
	current := newItem("current", "Guía de prompts")
	current.Categories = []string{"ia"}
	current.Tags = []string{"prompts", "chatgpt"}

	other := func(id string, categories, tags []string) domain.ContentItem {
		item := newItem(id, id)
		item.Categories = categories
		item.Tags = tags
		return item
	}

	candidates := []domain.ContentItem{
		other("same-category", []string{"IA"}, nil),
		current,
		other("unrelated", []string{"dev"}, []string{"go"}),
		other("shared-tag", []string{"dev"}, []string{"ChatGPT"}),
		other("both", []string{"ia"}, []string{"prompts"}),
		other("fourth-match", []string{"ia"}, nil),
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"first three matches in order", 3, []string{"same-category", "shared-tag", "both"}},
		{"limit above matches", 10, []string{"same-category", "shared-tag", "both", "fourth-match"}},
		{"zero limit", 0, []string{}},
		{"negative limit", -1, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Related(candidates, &current, tt.limit)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestRelated_NoCategoriesOrTags(t *testing.T) {
	current := newItem("current", "Sin etiquetas")

	got := Related(generateItems(5), &current, 3)

	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestRelated_DoesNotAliasCandidates(t *testing.T) {
	current := newItem("current", "Actual")
	current.Tags = []string{"tag-1"}
	candidates := generateItems(8)

	got := Related(candidates, &current, 3)
	got[0].Title = "changed"

	assert.NotEqual(t, "changed", candidates[1].Title)
}
