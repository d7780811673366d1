package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestContentItem_RatingValue(t *testing.T) {
	assert.Equal(t, 0.0, (&ContentItem{}).RatingValue())
	assert.Equal(t, 4.5, (&ContentItem{Rating: ptr(4.5)}).RatingValue())
}

func TestContentItem_HasTag(t *testing.T) {
	item := ContentItem{Tags: []string{"IA", "ChatGPT"}}

	tests := []struct {
		name string
		want []string
		ok   bool
	}{
		{"exact match", []string{"IA"}, true},
		{"case-insensitive", []string{"chatgpt"}, true},
		{"any of several", []string{"python", "ia"}, true},
		{"no match", []string{"python"}, false},
		{"empty set", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ok, item.HasTag(tt.want))
		})
	}
}

func TestContentItem_HasCategory(t *testing.T) {
	item := ContentItem{Categories: []string{"tutoriales"}}

	assert.True(t, item.HasCategory([]string{"Tutoriales"}))
	assert.False(t, item.HasCategory([]string{"noticias"}))
}

func TestContentItem_IsPublished(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, (&ContentItem{PublishedAt: now.Add(-time.Hour)}).IsPublished(now))
	assert.True(t, (&ContentItem{PublishedAt: now}).IsPublished(now))
	assert.False(t, (&ContentItem{PublishedAt: now.Add(time.Minute)}).IsPublished(now))
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		raw  string
		def  SortKey
		want SortKey
	}{
		{"", SortFeatured, SortFeatured},
		{"name", SortFeatured, SortName},
		{" Rating ", SortFeatured, SortRating},
		{"recent", SortFeatured, SortRecent},
		{"popularity", SortRecent, SortRecent},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSortKey(tt.raw, tt.def))
		})
	}
}

func TestFilterSpec_IsEmpty(t *testing.T) {
	assert.True(t, FilterSpec{}.IsEmpty())
	assert.False(t, FilterSpec{SearchTerm: "   "}.IsEmpty())
	assert.False(t, FilterSpec{Tags: []string{"ia"}}.IsEmpty())
	assert.False(t, FilterSpec{PriceTypes: []PriceType{PriceTypeFree}}.IsEmpty())
	assert.False(t, FilterSpec{FeaturedOnly: true}.IsEmpty())
}

func TestEmptyPage(t *testing.T) {
	page := EmptyPage(0, 12)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 12, page.PageSize)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 1, page.TotalPages)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)
}

func TestCollection_IsValid(t *testing.T) {
	assert.True(t, CollectionArticles.IsValid())
	assert.True(t, CollectionTools.IsValid())
	assert.False(t, Collection("videos").IsValid())
}
