// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"promptlab-content-service/internal/domain"
)

// PostsRequest represents the query parameters of the article listing.
type PostsRequest struct {
	Page       string `query:"page" validate:"omitempty,integer"`
	Category   string `query:"category" validate:"max=100"`
	Tag        string `query:"tag" validate:"max=100"`
	SearchTerm string `query:"searchTerm" validate:"max=100"`
	SortBy     string `query:"sortBy" validate:"omitempty,oneof=featured rating name recent"`
}

// ToFilterSpec converts the client-side facets to a domain.FilterSpec.
func (r *PostsRequest) ToFilterSpec() domain.FilterSpec {
	spec := domain.FilterSpec{SearchTerm: strings.TrimSpace(r.SearchTerm)}
	if tag := strings.TrimSpace(r.Tag); tag != "" {
		spec.Tags = []string{tag}
	}

	return spec
}

// SortKey returns the requested ordering; articles default to most recent.
func (r *PostsRequest) SortKey() domain.SortKey {
	return domain.ParseSortKey(r.SortBy, domain.SortRecent)
}

// SearchRequest represents the query parameters of article search.
type SearchRequest struct {
	Query    string `query:"query" validate:"required,notblank,max=100"`
	Category string `query:"category" validate:"max=100"`
	Tag      string `query:"tag" validate:"max=100"`
	Page     string `query:"page" validate:"omitempty,integer"`
}

// Tags returns the tag facet, empty when no tag was given.
func (r *SearchRequest) Tags() []string {
	if tag := strings.TrimSpace(r.Tag); tag != "" {
		return []string{tag}
	}

	return nil
}

// ToolsRequest represents the parameters of one tool grid category.
type ToolsRequest struct {
	Category   string `params:"category" validate:"required,max=100"`
	Tag        string `query:"tag" validate:"max=100"`
	PriceType  string `query:"priceType" validate:"max=100"`
	SearchTerm string `query:"searchTerm" validate:"max=100"`
	SortBy     string `query:"sortBy" validate:"omitempty,oneof=featured rating name recent"`
	Page       string `query:"page" validate:"omitempty,integer"`
}

// ToFilterSpec converts the comma-separated facets to a domain.FilterSpec.
func (r *ToolsRequest) ToFilterSpec() domain.FilterSpec {
	spec := domain.FilterSpec{
		Tags:       SplitList(r.Tag),
		SearchTerm: strings.TrimSpace(r.SearchTerm),
	}
	for _, p := range SplitList(r.PriceType) {
		spec.PriceTypes = append(spec.PriceTypes, domain.PriceType(strings.ToLower(p)))
	}

	return spec
}

// SortKey returns the requested ordering; the tool grid defaults to featured first.
func (r *ToolsRequest) SortKey() domain.SortKey {
	return domain.ParseSortKey(r.SortBy, domain.SortFeatured)
}

// SubscribeRequest represents the body of a newsletter sign-up.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"omitempty,min=1,max=100"`
}

// ToSubscription converts the request to a domain.Subscription.
func (r *SubscribeRequest) ToSubscription() domain.Subscription {
	return domain.Subscription{Email: r.Email, Name: r.Name}
}

// ParsePage converts a validated page parameter to a page number. Empty,
// non-positive and out-of-range values clamp instead of failing.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}

	page, err := strconv.Atoi(raw)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
			return math.MaxInt
		}
		return 1
	}

	return max(page, 1)
}

// SplitList splits a comma-separated parameter, dropping blank entries.
func SplitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
