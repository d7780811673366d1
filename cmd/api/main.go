// Package main is the entry point for the promptlab-content-service API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/bootstrap"
	"promptlab-content-service/internal/config"
	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/infra/postgres"
	"promptlab-content-service/internal/infra/postgres/migrations"
	"promptlab-content-service/internal/infra/source"
	"promptlab-content-service/internal/infra/source/registry"
	"promptlab-content-service/internal/job"
	"promptlab-content-service/internal/richtext"
	"promptlab-content-service/internal/transport/httpserver"
	"promptlab-content-service/internal/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	log, err := bootstrap.Logger(cfg)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting promptlab-content-service",
		zap.String("env", cfg.App.Env),
		zap.Int("port", cfg.App.Port),
		zap.String("cms_backend", cfg.CMS.Backend),
		zap.String("serve_from", cfg.Listing.ServeFrom),
	)

	ctx := context.Background()
	health := map[string]domain.HealthChecker{}
	readiness := map[string]domain.HealthChecker{}

	// Live CMS backend
	live, err := registry.NewBackend(cfg.CMS, log.Named("cms"))
	if err != nil {
		log.Fatal("failed to create cms backend", zap.Error(err))
	}
	health["cms"] = live

	// Mirror database (optional)
	var mirror *postgres.Repository
	if cfg.Mirror.Enabled {
		db, err := bootstrap.Database(ctx, cfg, log.Logger)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}
		defer func() { _ = postgres.Close(db) }()

		if err := migrations.Run(db); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("database migrations completed")

		mirror = postgres.NewRepository(db)
		health[postgres.Name] = mirror
		readiness[postgres.Name] = mirror
	}

	// Redis (optional)
	redisClient, err := bootstrap.Redis(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
		log.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr()))

		ping := domain.HealthCheckFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		health["redis"] = ping
		readiness["redis"] = ping
	}

	// Listing source: live CMS or mirror, optionally behind the candidate cache
	var listingSource domain.Backend = live
	if cfg.Listing.ServeFrom == config.ServeMirror {
		listingSource = mirror
	}

	// Category definitions always come from the live CMS
	catalog, _ := live.(domain.CategoryCatalog)

	var invalidator service.Invalidator
	cache, err := bootstrap.Cache(cfg.Cache, redisClient, log.Logger)
	if err != nil {
		log.Fatal("failed to create cache", zap.Error(err))
	}
	if cache != nil {
		cached := source.NewCached(listingSource, cache, cfg.Cache.CandidatesTTL, log.Named("cache"))
		listingSource = cached
		invalidator = cached
		if catalog != nil {
			catalog = source.NewCachedCatalog(live.Name(), catalog, cache, cfg.Cache.CandidatesTTL, log.Named("cache"))
		}
		log.Info("candidate cache enabled",
			zap.String("backend", cfg.Cache.Backend),
			zap.Duration("ttl", cfg.Cache.CandidatesTTL),
		)
	} else {
		log.Info("candidate cache disabled")
	}

	// Create services
	sizes := domain.PageSizes{
		Articles: cfg.Listing.ArticlesPageSize,
		Search:   cfg.Listing.SearchPageSize,
		Tools:    cfg.Listing.ToolsPageSize,
		Featured: cfg.Listing.FeaturedLimit,
	}
	listingSvc := service.NewListingService(listingSource, sizes, log.Logger)
	if catalog != nil {
		listingSvc.WithCatalog(catalog)
	}
	postSvc := service.NewPostService(listingSource, richtext.NewSanitizer(), log.Logger)

	subscriber := bootstrap.Subscriber(cfg.Newsletter, log.Named("newsletter"))
	newsletterSvc := service.NewNewsletterService(subscriber, log.Logger)
	if !newsletterSvc.Enabled() {
		log.Warn("newsletter provider not configured, subscriptions disabled")
	}

	// Mirror sync (optional)
	var syncSvc *service.SyncService
	var scheduler *job.SyncScheduler
	if mirror != nil {
		upstreams := registry.NewUpstreams(cfg.CMS, log.Named("cms"))
		syncSvc = service.NewSyncService(mirror, upstreams, invalidator, log.Logger)

		scheduler = job.NewSyncScheduler(
			syncSvc,
			job.SyncConfig{
				Interval:  cfg.Sync.Interval,
				Timeout:   cfg.Sync.Timeout,
				OnStartup: cfg.Sync.OnStartup,
			},
			log.Logger,
			bootstrap.Locker(redisClient, log.Logger),
		)
		scheduler.Start(cfg.Sync.OnStartup)
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	// Create HTTP server
	server := httpserver.NewServer(
		httpserver.ServerConfig{
			AppName:         cfg.App.Name,
			BodyLimit:       cfg.App.BodyLimit,
			CORSOrigins:     cfg.App.CORSOrigins,
			AdminToken:      cfg.App.AdminToken,
			MetricsPath:     metricsPath,
			NewsletterRPS:   cfg.Newsletter.RateLimit.RPS,
			NewsletterBurst: cfg.Newsletter.RateLimit.Burst,
		},
		httpserver.Services{
			Listing:     listingSvc,
			Posts:       postSvc,
			Newsletter:  newsletterSvc,
			Sync:        syncSvc,
			Invalidator: invalidator,
			SyncTimeout: cfg.Sync.Timeout,
			Health:      health,
			Readiness:   readiness,
		},
		validator.New(),
		log.Logger,
	)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutdown signal received")

		// Stop scheduler
		scheduler.Stop()

		// Shutdown server with timeout
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error("server shutdown error", zap.Error(err))
		}
	}()

	// Start server
	if err := server.Start(cfg.App.Port); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
