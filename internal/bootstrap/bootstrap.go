// Package bootstrap builds the infrastructure shared by the API server and
// the contentctl CLI from configuration.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"promptlab-content-service/internal/config"
	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/infra/memory"
	"promptlab-content-service/internal/infra/newsletter"
	"promptlab-content-service/internal/infra/postgres"
	rediscache "promptlab-content-service/internal/infra/redis"
	"promptlab-content-service/internal/logger"
	"promptlab-content-service/pkg/locker"
)

// Cache backends.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

// Logger creates the application logger with optional Sentry reporting.
func Logger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(
		logger.Config{
			Level:  cfg.Logger.Level,
			Format: cfg.Logger.Format,
			Output: cfg.Logger.Output,
		},
		logger.SentryConfig{
			Enabled:     cfg.Sentry.Enabled,
			DSN:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
			Release:     cfg.Sentry.Release,
			SampleRate:  cfg.Sentry.SampleRate,
		},
	)
}

// Database opens the mirror database connection.
func Database(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	return postgres.NewConnection(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		Name:         cfg.Database.Name,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		MaxLifetime:  cfg.Database.MaxLifetime,
		Debug:        cfg.App.Debug,
	}, log)
}

// Redis connects to Redis and verifies the connection. It returns nil when
// Redis is disabled.
func Redis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Addr(), err)
	}

	return client, nil
}

// Cache creates the candidate cache. It returns nil when caching is
// disabled. client may be nil for the memory backend.
func Cache(cfg config.CacheConfig, client *redis.Client, log *zap.Logger) (domain.Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch cfg.Backend {
	case CacheRedis:
		if client == nil {
			return nil, fmt.Errorf("cache backend %q requires redis", cfg.Backend)
		}

		return rediscache.NewCache(client, log, cfg.KeyPrefix), nil
	case CacheMemory:
		return memory.NewCache(cfg.MemorySize, cfg.CandidatesTTL), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Locker returns a Redis locker shared across instances, or a process-local
// one when client is nil.
func Locker(client *redis.Client, log *zap.Logger) locker.DistributedLocker {
	if client == nil {
		return locker.NewLocalLocker()
	}

	return locker.NewRedisLocker(client, log)
}

// Subscriber creates the configured newsletter provider. It returns nil when
// no provider is configured or the API key is missing.
func Subscriber(cfg config.NewsletterConfig, log *zap.Logger) domain.Subscriber {
	if cfg.Provider != newsletter.ButtondownName || cfg.APIKey == "" {
		return nil
	}

	return newsletter.NewButtondown(newsletter.ButtondownConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	}, log)
}
