// Package notion implements the database-backed CMS adapter over the Notion
// REST API. Only the articles collection is stored in Notion.
package notion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/infra/source"
	"promptlab-content-service/internal/richtext"
)

// Name is the source identifier reported by this adapter.
const Name = "notion"

const (
	defaultBaseURL = "https://api.notion.com"
	defaultVersion = "2022-06-28"
	pageSize       = 100
	// maxPages bounds cursor loops against a misbehaving upstream.
	maxPages = 200
)

var errTooManyPages = errors.New("pagination did not terminate")

// Config holds the database coordinates and HTTP client settings.
type Config struct {
	APIKey     string
	DatabaseID string
	Version    string
	HTTP       source.ClientConfig
}

// Client implements domain.Backend for Notion.
type Client struct {
	client     *resty.Client
	cb         *gobreaker.CircuitBreaker[*resty.Response]
	databaseID string
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a new Notion client.
func New(cfg Config, logger *zap.Logger) *Client {
	httpCfg := cfg.HTTP
	if httpCfg.BaseURL == "" {
		httpCfg.BaseURL = defaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = defaultVersion
	}

	client := source.NewRestyClient(httpCfg).
		SetAuthToken(cfg.APIKey).
		SetHeader("Notion-Version", version).
		SetHeader("Content-Type", "application/json")

	return &Client{
		client:     client,
		cb:         source.NewCircuitBreaker[*resty.Response](Name, cfg.HTTP.CB, logger),
		databaseID: cfg.DatabaseID,
		logger:     logger,
		now:        time.Now,
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return Name
}

// FetchPublished returns every ready article dated on or before now,
// following result cursors until the database is exhausted.
func (c *Client) FetchPublished(ctx context.Context, facet domain.Facet) (items []domain.ContentItem, err error) {
	start := time.Now()
	defer func() { source.ObserveFetch(Name, string(facet.Collection), start, err) }()

	if facet.Collection != domain.CollectionArticles {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCollection, facet.Collection)
	}

	now := c.now()
	pages, err := c.queryDatabase(ctx, c.publishedFilter(now, facet.Category, ""))
	if err != nil {
		return nil, err
	}

	items = make([]domain.ContentItem, 0, len(pages))
	for i := range pages {
		item := pages[i].ToDomain(Name)
		// The date filter has day granularity; timestamps later today are not visible yet.
		if item.Slug == "" || !item.IsPublished(now) {
			continue
		}
		items = append(items, item)
	}

	c.logger.Info("notion fetch completed",
		zap.String("category", facet.Category),
		zap.Int("pages", len(pages)),
		zap.Int("count", len(items)),
	)

	return items, nil
}

// FetchBySlug returns one published article with its rendered body.
func (c *Client) FetchBySlug(ctx context.Context, collection domain.Collection, slug string) (*domain.ContentItem, error) {
	if collection != domain.CollectionArticles {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCollection, collection)
	}

	now := c.now()
	pages, err := c.queryDatabase(ctx, c.publishedFilter(now, "", slug))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, domain.ErrNotFound
	}

	item := pages[0].ToDomain(Name)
	if !item.IsPublished(now) {
		return nil, domain.ErrNotFound
	}

	blocks, err := c.blockChildren(ctx, pages[0].ID)
	if err != nil {
		return nil, err
	}
	item.Body = richtext.Render(BlocksToRichText(blocks))

	return &item, nil
}

// Categories returns the options of the category properties. Notion has no
// category documents, so each option name serves as both slug and title.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	db, err := c.database(ctx)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, prop := range []string{propCategory, propExtraCats} {
		for _, name := range db.Properties[prop].Options() {
			if !containsFold(names, name) {
				names = append(names, name)
			}
		}
	}

	categories := make([]domain.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, domain.Category{Slug: name, Title: name})
	}

	return categories, nil
}

// HealthCheck verifies the database is reachable with the configured key.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.database(ctx)

	return err
}

func (c *Client) database(ctx context.Context) (*Database, error) {
	resp, err := c.execute(func() (*resty.Response, error) {
		return c.client.R().
			SetContext(ctx).
			SetResult(&Database{}).
			SetError(&apiError{}).
			Get("/v1/databases/" + c.databaseID)
	})
	if err != nil {
		return nil, err
	}

	db, ok := resp.Result().(*Database)
	if !ok {
		return nil, errors.New("querying notion: unexpected response type")
	}

	return db, nil
}

// publishedFilter builds the compound filter for ready articles dated on or
// before now, optionally narrowed to a category or a slug.
func (c *Client) publishedFilter(now time.Time, category, slug string) map[string]any {
	and := []any{
		map[string]any{"property": propStatus, "select": map[string]any{"equals": statusReady}},
		map[string]any{"property": propDate, "date": map[string]any{"on_or_before": now.UTC().Format(time.DateOnly)}},
	}

	if category != "" {
		and = append(and, map[string]any{"or": []any{
			map[string]any{"property": propCategory, "select": map[string]any{"equals": category}},
			map[string]any{"property": propExtraCats, "multi_select": map[string]any{"contains": category}},
		}})
	}
	if slug != "" {
		and = append(and, map[string]any{"property": propSlug, "rich_text": map[string]any{"equals": slug}})
	}

	return map[string]any{"and": and}
}

func (c *Client) queryDatabase(ctx context.Context, filter map[string]any) ([]Page, error) {
	path := "/v1/databases/" + c.databaseID + "/query"

	var (
		pages  []Page
		cursor string
	)
	for range maxPages {
		body := QueryRequest{
			Filter:      filter,
			Sorts:       []Sort{{Property: propDate, Direction: "descending"}},
			StartCursor: cursor,
			PageSize:    pageSize,
		}

		resp, err := c.execute(func() (*resty.Response, error) {
			return c.client.R().
				SetContext(ctx).
				SetBody(body).
				SetResult(&QueryResponse{}).
				SetError(&apiError{}).
				Post(path)
		})
		if err != nil {
			return nil, err
		}

		result, ok := resp.Result().(*QueryResponse)
		if !ok {
			return nil, errors.New("querying notion: unexpected response type")
		}
		pages = append(pages, result.Results...)

		if !result.HasMore || result.NextCursor == nil || *result.NextCursor == "" {
			return pages, nil
		}
		cursor = *result.NextCursor
	}

	return nil, fmt.Errorf("querying notion: %w", errTooManyPages)
}

func (c *Client) blockChildren(ctx context.Context, pageID string) ([]Block, error) {
	path := "/v1/blocks/" + pageID + "/children"

	var (
		blocks []Block
		cursor string
	)
	for range maxPages {
		params := map[string]string{"page_size": fmt.Sprint(pageSize)}
		if cursor != "" {
			params["start_cursor"] = cursor
		}

		resp, err := c.execute(func() (*resty.Response, error) {
			return c.client.R().
				SetContext(ctx).
				SetQueryParams(params).
				SetResult(&BlockChildrenResponse{}).
				SetError(&apiError{}).
				Get(path)
		})
		if err != nil {
			return nil, err
		}

		result, ok := resp.Result().(*BlockChildrenResponse)
		if !ok {
			return nil, errors.New("querying notion: unexpected response type")
		}
		blocks = append(blocks, result.Results...)

		if !result.HasMore || result.NextCursor == nil || *result.NextCursor == "" {
			return blocks, nil
		}
		cursor = *result.NextCursor
	}

	return nil, fmt.Errorf("querying notion: %w", errTooManyPages)
}

// execute runs one request through the circuit breaker and maps error statuses.
func (c *Client) execute(do func() (*resty.Response, error)) (*resty.Response, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := do()
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			if apiErr, ok := r.Error().(*apiError); ok && apiErr.Message != "" {
				return nil, fmt.Errorf("notion returned status %d: %s", r.StatusCode(), apiErr.Message)
			}

			return nil, fmt.Errorf("notion returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("notion request failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return nil, fmt.Errorf("querying notion: %w", err)
	}

	return resp, nil
}

// apiError is the error body returned by the Notion API.
type apiError struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
