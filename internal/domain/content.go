// Package domain contains the core business entities and ports.
// This package has no external dependencies (only stdlib).
package domain

import (
	"strings"
	"time"
)

// Collection identifies a family of content served by a CMS.
type Collection string

const (
	CollectionArticles Collection = "articles"
	CollectionTools    Collection = "tools"
)

// IsValid reports whether the collection is known.
func (c Collection) IsValid() bool {
	return c == CollectionArticles || c == CollectionTools
}

// PriceType is the pricing model of a listed AI tool.
type PriceType string

const (
	PriceTypeFree     PriceType = "free"
	PriceTypeFreemium PriceType = "freemium"
	PriceTypePremium  PriceType = "premium"
	PriceTypeUsage    PriceType = "usage"
)

// PriceTypes lists every supported pricing model.
var PriceTypes = []PriceType{PriceTypeFree, PriceTypeFreemium, PriceTypePremium, PriceTypeUsage}

// ContentItem is the unit being listed: an article or a tool.
// It is a request-scoped value; Payload and Body are display-only and
// are passed through unmodified by the listing core.
type ContentItem struct {
	// Identity
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	ExternalID string     `json:"external_id,omitempty"`
	Collection Collection `json:"collection"`
	Slug       string     `json:"slug"`

	// Listing facets
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Categories  []string  `json:"categories,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Featured    bool      `json:"featured"`
	Rating      *float64  `json:"rating,omitempty"`
	PriceType   PriceType `json:"price_type,omitempty"`

	// Display payload
	Author      string         `json:"author,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	ReadingTime int            `json:"reading_time,omitempty"`
	Body        string         `json:"body,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// RatingValue returns the rating, treating a missing rating as 0.
func (c *ContentItem) RatingValue() float64 {
	if c.Rating == nil {
		return 0
	}

	return *c.Rating
}

// SearchableText returns the fields free-text search is matched against:
// title, excerpt and each tag.
func (c *ContentItem) SearchableText() []string {
	return append([]string{c.Title, c.Excerpt}, c.Tags...)
}

// HasTag reports whether the item carries any of the given tags (case-insensitive).
func (c *ContentItem) HasTag(tags []string) bool {
	return containsAnyFold(c.Tags, tags)
}

// HasCategory reports whether the item belongs to any of the given categories (case-insensitive).
func (c *ContentItem) HasCategory(categories []string) bool {
	return containsAnyFold(c.Categories, categories)
}

// IsPublished reports whether the item is visible at the given instant.
func (c *ContentItem) IsPublished(now time.Time) bool {
	return !c.PublishedAt.After(now)
}

func containsAnyFold(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}

	return false
}

// Facet is the coarse, source-side filter passed to a content source.
type Facet struct {
	Collection Collection
	Category   string
}

// FacetCount is the number of items sharing one facet value.
type FacetCount struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

// Category is an article category as defined in the CMS. Slug matches the
// values found in ContentItem.Categories.
type Category struct {
	Slug         string `json:"slug"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ArticleCount int    `json:"article_count"`
}
