// Package registry builds the CMS adapters selected by configuration.
package registry

import (
	"fmt"

	"go.uber.org/zap"

	"promptlab-content-service/internal/config"
	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/infra/source"
	"promptlab-content-service/internal/infra/source/notion"
	"promptlab-content-service/internal/infra/source/sanity"
)

// NewBackend creates the live backend named by cfg.Backend.
func NewBackend(cfg config.CMSConfig, logger *zap.Logger) (domain.Backend, error) {
	switch cfg.Backend {
	case config.BackendSanity:
		return newSanity(cfg.Sanity, logger), nil
	case config.BackendNotion:
		return newNotion(cfg.Notion, logger), nil
	default:
		return nil, fmt.Errorf("unknown cms backend %q", cfg.Backend)
	}
}

// NewUpstreams creates every enabled backend, always including the live one.
// The mirror sync copies each of them.
func NewUpstreams(cfg config.CMSConfig, logger *zap.Logger) []domain.Backend {
	upstreams := make([]domain.Backend, 0, 2)

	if cfg.Sanity.Enabled || cfg.Backend == config.BackendSanity {
		upstreams = append(upstreams, newSanity(cfg.Sanity, logger))
	}
	if cfg.Notion.Enabled || cfg.Backend == config.BackendNotion {
		upstreams = append(upstreams, newNotion(cfg.Notion, logger))
	}

	return upstreams
}

func newSanity(cfg config.SanityConfig, logger *zap.Logger) *sanity.Client {
	return sanity.New(sanity.Config{
		ProjectID:  cfg.ProjectID,
		Dataset:    cfg.Dataset,
		APIVersion: cfg.APIVersion,
		Token:      cfg.Token,
		UseCDN:     cfg.UseCDN,
		HTTP:       clientConfig(cfg.BaseURL, cfg.Client),
	}, logger)
}

func newNotion(cfg config.NotionConfig, logger *zap.Logger) *notion.Client {
	return notion.New(notion.Config{
		APIKey:     cfg.APIKey,
		DatabaseID: cfg.DatabaseID,
		Version:    cfg.Version,
		HTTP:       clientConfig(cfg.BaseURL, cfg.Client),
	}, logger)
}

func clientConfig(baseURL string, ep config.EndpointConfig) source.ClientConfig {
	return source.ClientConfig{
		BaseURL: baseURL,
		Timeout: ep.Timeout,
		Retry: source.RetryConfig{
			MaxAttempts: ep.Retry.MaxAttempts,
			WaitTime:    ep.Retry.WaitTime,
			MaxWaitTime: ep.Retry.MaxWaitTime,
		},
		CB: source.CBConfig{
			MaxRequests:  ep.CB.MaxRequests,
			Interval:     ep.CB.Interval,
			Timeout:      ep.CB.Timeout,
			FailureRatio: ep.CB.FailureRatio,
		},
	}
}
