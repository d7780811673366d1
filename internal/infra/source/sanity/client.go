// Package sanity implements the structured-content CMS adapter over the
// GROQ HTTP query API.
package sanity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/infra/source"
)

// Name is the source identifier reported by this adapter.
const Name = "sanity"

// Config holds the project coordinates and HTTP client settings.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
	UseCDN     bool
	HTTP       source.ClientConfig
}

// Client implements domain.Backend for Sanity.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	path   string
	logger *zap.Logger
}

// New creates a new Sanity client. When cfg.HTTP.BaseURL is empty the
// project's API (or API CDN) host is used.
func New(cfg Config, logger *zap.Logger) *Client {
	httpCfg := cfg.HTTP
	if httpCfg.BaseURL == "" {
		host := "api"
		if cfg.UseCDN {
			host = "apicdn"
		}
		httpCfg.BaseURL = fmt.Sprintf("https://%s.%s.sanity.io", cfg.ProjectID, host)
	}

	client := source.NewRestyClient(httpCfg)
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &Client{
		client: client,
		cb:     source.NewCircuitBreaker[*resty.Response](Name, cfg.HTTP.CB, logger),
		path:   fmt.Sprintf("/v%s/data/query/%s", cfg.APIVersion, cfg.Dataset),
		logger: logger,
	}
}

// Name returns the source identifier.
func (c *Client) Name() string {
	return Name
}

// FetchPublished returns every published item of the facet's collection.
func (c *Client) FetchPublished(ctx context.Context, facet domain.Facet) (items []domain.ContentItem, err error) {
	start := time.Now()
	defer func() { source.ObserveFetch(Name, string(facet.Collection), start, err) }()

	params := map[string]any{"category": facet.Category}

	switch facet.Collection {
	case domain.CollectionArticles:
		docs, err := query[[]ArticleDoc](ctx, c, articlesQuery, params)
		if err != nil {
			return nil, err
		}
		items = make([]domain.ContentItem, 0, len(docs))
		for i := range docs {
			items = append(items, docs[i].ToDomain(Name))
		}
	case domain.CollectionTools:
		docs, err := query[[]ToolDoc](ctx, c, toolsQuery, params)
		if err != nil {
			return nil, err
		}
		items = make([]domain.ContentItem, 0, len(docs))
		for i := range docs {
			items = append(items, docs[i].ToDomain(Name))
		}
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCollection, facet.Collection)
	}

	c.logger.Info("sanity fetch completed",
		zap.String("collection", string(facet.Collection)),
		zap.String("category", facet.Category),
		zap.Int("count", len(items)),
	)

	return items, nil
}

// FetchBySlug returns one published item with its rendered body.
func (c *Client) FetchBySlug(ctx context.Context, collection domain.Collection, slug string) (*domain.ContentItem, error) {
	params := map[string]any{"slug": slug}

	switch collection {
	case domain.CollectionArticles:
		doc, err := query[*ArticleDoc](ctx, c, articleBySlugQuery, params)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, domain.ErrNotFound
		}
		item := doc.ToDomain(Name)

		return &item, nil
	case domain.CollectionTools:
		doc, err := query[*ToolDoc](ctx, c, toolBySlugQuery, params)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, domain.ErrNotFound
		}
		item := doc.ToDomain(Name)

		return &item, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCollection, collection)
	}
}

// Categories returns every category document ordered by title.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	docs, err := query[[]CategoryDoc](ctx, c, categoriesQuery, nil)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(docs))
	for i := range docs {
		categories = append(categories, docs[i].ToDomain())
	}

	return categories, nil
}

// HealthCheck verifies the dataset can be queried.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := query[*string](ctx, c, healthQuery, nil)

	return err
}

// query runs a GROQ query through the circuit breaker and decodes its result.
// Parameters are JSON-encoded and sent as $name query parameters.
func query[T any](ctx context.Context, c *Client, groq string, params map[string]any) (T, error) {
	var zero T

	values := make(map[string]string, len(params)+1)
	values["query"] = groq
	for name, v := range params {
		encoded, err := json.Marshal(v)
		if err != nil {
			return zero, fmt.Errorf("encoding sanity param %s: %w", name, err)
		}
		values["$"+name] = string(encoded)
	}

	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		r, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(values).
			SetResult(&QueryResponse[T]{}).
			SetError(&apiError{}).
			Get(c.path)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			if apiErr, ok := r.Error().(*apiError); ok && apiErr.message() != "" {
				return nil, fmt.Errorf("sanity returned status %d: %s", r.StatusCode(), apiErr.message())
			}

			return nil, fmt.Errorf("sanity returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("sanity query failed",
			zap.Error(err),
			zap.String("state", c.cb.State().String()),
		)

		return zero, fmt.Errorf("querying sanity: %w", err)
	}

	result, ok := resp.Result().(*QueryResponse[T])
	if !ok {
		return zero, errors.New("querying sanity: unexpected response type")
	}

	return result.Result, nil
}

// apiError is the error body returned by the query API.
type apiError struct {
	Error struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
	Message string `json:"message"`
}

func (e *apiError) message() string {
	if e.Error.Description != "" {
		return e.Error.Description
	}

	return e.Message
}
