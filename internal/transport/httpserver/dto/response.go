package dto

import (
	"time"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/domain"
)

// Error codes reported in ErrorResponse and listing envelopes.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidParams         = "INVALID_PARAMS"
	CodeSourceUnavailable     = "SOURCE_UNAVAILABLE"
	CodeUnsupportedCollection = "UNSUPPORTED_COLLECTION"
	CodeNotFound              = "NOT_FOUND"
	CodeNewsletterDisabled    = "NEWSLETTER_DISABLED"
	CodeSubscriptionRejected  = "SUBSCRIPTION_REJECTED"
	CodeNewsletterFailed      = "NEWSLETTER_UNAVAILABLE"
	CodeSyncFailed            = "SYNC_FAILED"
	CodeSourceNotFound        = "SOURCE_NOT_FOUND"
	CodeMirrorDisabled        = "MIRROR_DISABLED"
	CodeCacheClearFailed      = "CACHE_CLEAR_FAILED"
)

// ItemResponse represents a single listed article or tool.
type ItemResponse struct {
	ID          string         `json:"id"`
	Source      string         `json:"source"`
	Collection  string         `json:"collection"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Excerpt     string         `json:"excerpt,omitempty"`
	Categories  []string       `json:"categories"`
	Tags        []string       `json:"tags"`
	Featured    bool           `json:"featured"`
	Rating      *float64       `json:"rating,omitempty"`
	PriceType   string         `json:"price_type,omitempty"`
	Author      string         `json:"author,omitempty"`
	ImageURL    string         `json:"image_url,omitempty"`
	ReadingTime int            `json:"reading_time,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
	PublishedAt string         `json:"published_at"`
}

// FromDomainItem converts domain.ContentItem to ItemResponse.
func FromDomainItem(c *domain.ContentItem) ItemResponse {
	return ItemResponse{
		ID:          c.ID,
		Source:      c.Source,
		Collection:  string(c.Collection),
		Slug:        c.Slug,
		Title:       c.Title,
		Excerpt:     c.Excerpt,
		Categories:  nonNil(c.Categories),
		Tags:        nonNil(c.Tags),
		Featured:    c.Featured,
		Rating:      c.Rating,
		PriceType:   string(c.PriceType),
		Author:      c.Author,
		ImageURL:    c.ImageURL,
		ReadingTime: c.ReadingTime,
		Payload:     c.Payload,
		PublishedAt: c.PublishedAt.UTC().Format(time.RFC3339),
	}
}

// FromDomainItems converts a slice of items, never returning nil.
func FromDomainItems(items []domain.ContentItem) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = FromDomainItem(&items[i])
	}

	return out
}

// PostResponse represents an article detail with its sanitized body.
type PostResponse struct {
	ItemResponse
	Body string `json:"body"`
}

// FromDomainPost converts a detail item to PostResponse.
func FromDomainPost(c *domain.ContentItem) PostResponse {
	return PostResponse{ItemResponse: FromDomainItem(c), Body: c.Body}
}

// PageResponse represents one page of a listing. Error and Code are set
// only when the content source failed; the page is then empty.
type PageResponse struct {
	Items       []ItemResponse `json:"items"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	Total       int            `json:"total"`
	TotalPages  int            `json:"total_pages"`
	HasNextPage bool           `json:"has_next_page"`
	HasPrevPage bool           `json:"has_prev_page"`
	Error       string         `json:"error,omitempty"`
	Code        string         `json:"code,omitempty"`
}

// FromPage converts domain.Page to PageResponse.
func FromPage(p domain.Page) PageResponse {
	return PageResponse{
		Items:       FromDomainItems(p.Items),
		Page:        p.Page,
		PageSize:    p.PageSize,
		Total:       p.Total,
		TotalPages:  p.TotalPages,
		HasNextPage: p.HasNextPage,
		HasPrevPage: p.HasPrevPage,
	}
}

// ToolsResponse represents one page of a tool grid category.
type ToolsResponse struct {
	PageResponse
	Category string              `json:"category"`
	Tags     []domain.FacetCount `json:"available_tags"`
}

// FromToolListing converts service.ToolListing to ToolsResponse.
func FromToolListing(category string, l service.ToolListing) ToolsResponse {
	return ToolsResponse{
		PageResponse: FromPage(l.Page),
		Category:     category,
		Tags:         nonNil(l.Tags),
	}
}

// ItemsResponse represents a short article strip, such as featured or related posts.
type ItemsResponse struct {
	Items []ItemResponse `json:"items"`
	Error string         `json:"error,omitempty"`
	Code  string         `json:"code,omitempty"`
}

// CategoriesResponse represents article categories with their counts.
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
	Error      string            `json:"error,omitempty"`
	Code       string            `json:"code,omitempty"`
}

// NewsletterStatusResponse reports whether sign-ups are accepted.
type NewsletterStatusResponse struct {
	Available bool   `json:"available"`
	Provider  string `json:"provider"`
}

// SubscribeResponse acknowledges a newsletter sign-up.
type SubscribeResponse struct {
	Success bool `json:"success"`
}

// SyncResultResponse represents the response for a sync operation.
type SyncResultResponse struct {
	Source      string         `json:"source"`
	Count       int            `json:"count"`
	Collections map[string]int `json:"collections"`
	Duration    string         `json:"duration"`
	Error       string         `json:"error,omitempty"`
}

// FromSyncResult converts one service.SyncResult.
func FromSyncResult(r *service.SyncResult) SyncResultResponse {
	resp := SyncResultResponse{
		Source:      r.Source,
		Count:       r.Count,
		Collections: make(map[string]int, len(r.Collections)),
		Duration:    r.Duration.String(),
	}
	for collection, n := range r.Collections {
		resp.Collections[string(collection)] = n
	}
	if r.Error != nil {
		resp.Error = r.Error.Error()
	}

	return resp
}

// SyncResponse represents the response for sync all operation.
type SyncResponse struct {
	Results []SyncResultResponse `json:"results"`
	Summary SyncSummary          `json:"summary"`
}

// SyncSummary holds summary of sync operation.
type SyncSummary struct {
	TotalSynced int `json:"total_synced"`
	SourcesOK   int `json:"sources_ok"`
	SourcesFail int `json:"sources_fail"`
}

// FromSyncResults converts service.SyncResult slice to SyncResponse.
func FromSyncResults(results []service.SyncResult) SyncResponse {
	resp := SyncResponse{
		Results: make([]SyncResultResponse, len(results)),
	}

	for i := range results {
		if results[i].Error != nil {
			resp.Summary.SourcesFail++
		} else {
			resp.Summary.TotalSynced += results[i].Count
			resp.Summary.SourcesOK++
		}
		resp.Results[i] = FromSyncResult(&results[i])
	}

	return resp
}

// SourceResponse describes one sync source and its mirrored item count.
type SourceResponse struct {
	Name     string `json:"name"`
	Mirrored int64  `json:"mirrored"`
	Error    string `json:"error,omitempty"`
}

// SourcesResponse lists configured sync sources.
type SourcesResponse struct {
	Sources []SourceResponse `json:"sources"`
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Uptime    string            `json:"uptime"`
	Timestamp string            `json:"timestamp"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}

	return s
}
