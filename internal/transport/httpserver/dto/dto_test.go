package dto

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/validator"
)

func TestPostsRequest_Validation(t *testing.T) {
	v := validator.New()
	long := string(make([]byte, 101))

	tests := []struct {
		name    string
		req     PostsRequest
		wantErr []string
	}{
		{name: "empty", req: PostsRequest{}},
		{name: "full", req: PostsRequest{Page: "2", Category: "ia", Tag: "python", SearchTerm: "guía", SortBy: "name"}},
		{name: "negative page clamps later", req: PostsRequest{Page: "-4"}},
		{name: "non-integer page", req: PostsRequest{Page: "two"}, wantErr: []string{"page"}},
		{name: "unknown sort", req: PostsRequest{SortBy: "views"}, wantErr: []string{"sortBy"}},
		{
			name:    "every violation reported",
			req:     PostsRequest{Page: "1.5", Category: long, Tag: long, SearchTerm: long},
			wantErr: []string{"page", "category", "tag", "searchTerm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.req)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			fields := make([]string, len(errs))
			for i, e := range errs {
				fields[i] = e.Field
			}
			assert.Equal(t, tt.wantErr, fields)
		})
	}
}

func TestSearchRequest_QueryRequired(t *testing.T) {
	v := validator.New()

	var errs validator.ValidationErrors
	require.ErrorAs(t, v.Validate(&SearchRequest{}), &errs)
	assert.Equal(t, "query", errs[0].Field)

	assert.NoError(t, v.Validate(&SearchRequest{Query: "IA", Tag: "llm"}))
	assert.Equal(t, []string{"llm"}, (&SearchRequest{Tag: " llm "}).Tags())
	assert.Nil(t, (&SearchRequest{}).Tags())
}

func TestToolsRequest_ToFilterSpec(t *testing.T) {
	req := ToolsRequest{
		Category:   "chatbots",
		Tag:        "texto, imagen,,",
		PriceType:  "Free,freemium",
		SearchTerm: "  gpt ",
	}

	spec := req.ToFilterSpec()

	assert.Equal(t, []string{"texto", "imagen"}, spec.Tags)
	assert.Equal(t, []domain.PriceType{domain.PriceTypeFree, domain.PriceTypeFreemium}, spec.PriceTypes)
	assert.Equal(t, "gpt", spec.SearchTerm)
	assert.Equal(t, domain.SortFeatured, req.SortKey())
	assert.Equal(t, domain.SortRecent, (&PostsRequest{}).SortKey())
	assert.Equal(t, domain.SortRating, (&PostsRequest{SortBy: "rating"}).SortKey())
}

func TestParsePage(t *testing.T) {
	assert.Equal(t, 1, ParsePage(""))
	assert.Equal(t, 1, ParsePage("0"))
	assert.Equal(t, 1, ParsePage("-3"))
	assert.Equal(t, 3, ParsePage(" 3 "))
	assert.Equal(t, math.MaxInt, ParsePage("99999999999999999999999"))
	assert.Equal(t, 1, ParsePage("-99999999999999999999999"))
}

func TestFromPage(t *testing.T) {
	rating := 4.5
	published := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	page := domain.Page{
		Items:      []domain.ContentItem{{ID: "a", Title: "A", Rating: &rating, PublishedAt: published, Body: "<p>x</p>"}},
		Page:       1,
		PageSize:   12,
		Total:      1,
		TotalPages: 1,
	}

	resp := FromPage(page)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, "2025-01-02T03:04:05Z", resp.Items[0].PublishedAt)
	assert.Equal(t, []string{}, resp.Items[0].Tags)
	assert.Equal(t, &rating, resp.Items[0].Rating)

	empty := FromPage(domain.EmptyPage(1, 12))
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestFromSyncResults(t *testing.T) {
	results := []service.SyncResult{
		{Source: "sanity", Count: 4, Collections: map[domain.Collection]int{domain.CollectionArticles: 3, domain.CollectionTools: 1}, Duration: time.Second},
		{Source: "notion", Error: errors.New("401")},
	}

	resp := FromSyncResults(results)

	assert.Equal(t, SyncSummary{TotalSynced: 4, SourcesOK: 1, SourcesFail: 1}, resp.Summary)
	assert.Equal(t, map[string]int{"articles": 3, "tools": 1}, resp.Results[0].Collections)
	assert.Equal(t, "1s", resp.Results[0].Duration)
	assert.Equal(t, "401", resp.Results[1].Error)
}
