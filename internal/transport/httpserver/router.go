// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/transport/httpserver/dto"
	"promptlab-content-service/internal/transport/httpserver/handler"
	"promptlab-content-service/internal/transport/httpserver/middleware"
	"promptlab-content-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	AppName     string
	BodyLimit   int
	CORSOrigins []string
	AdminToken  string
	MetricsPath string // empty disables /metrics

	NewsletterRPS   float64
	NewsletterBurst int
}

// Services holds the use cases exposed over HTTP. Sync and Invalidator
// are optional.
type Services struct {
	Listing     *service.ListingService
	Posts       *service.PostService
	Newsletter  *service.NewsletterService
	Sync        *service.SyncService
	Invalidator service.Invalidator
	SyncTimeout time.Duration

	// Health reports every dependency on /api/v1/health; Readiness gates /readyz.
	Health    map[string]domain.HealthChecker
	Readiness map[string]domain.HealthChecker
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg ServerConfig, svcs Services, v *validator.Validator, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          errorHandler(logger),
		UnescapePath:          true,
		DisableStartupMessage: true,
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(svcs.Readiness))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Logger(logger))
	app.Use(middleware.Metrics())
	// Inside Logger and Metrics so a recovered panic is still logged and counted as a 500
	app.Use(middleware.Recover(logger))
	app.Use(middleware.CORS(cfg.CORSOrigins))
	app.Use(compress.New())

	if cfg.MetricsPath != "" {
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))
	}

	listingHandler := handler.NewListingHandler(svcs.Listing, v, logger)
	postHandler := handler.NewPostHandler(svcs.Posts, logger)
	newsletterHandler := handler.NewNewsletterHandler(svcs.Newsletter, v, logger)
	healthHandler := handler.NewHealthHandler(svcs.Health, logger)
	adminHandler := handler.NewAdminHandler(svcs.Sync, svcs.Invalidator, svcs.SyncTimeout, logger)
	newsletterLimit := middleware.NewRateLimiter(cfg.NewsletterRPS, cfg.NewsletterBurst)

	v1 := app.Group("/api/v1")

	// Articles; featured must precede the slug route
	posts := v1.Group("/posts")
	posts.Get("/", listingHandler.Posts)
	posts.Get("/featured", listingHandler.Featured)
	posts.Get("/:slug", postHandler.BySlug)
	posts.Get("/:slug/related", listingHandler.Related)

	v1.Get("/search", listingHandler.Search)
	v1.Get("/tools/:category", listingHandler.Tools)
	v1.Get("/categories", listingHandler.Categories)
	v1.Get("/categories/:slug", listingHandler.Category)

	v1.Get("/newsletter", newsletterHandler.Status)
	v1.Post("/newsletter", newsletterLimit.Handler(), newsletterHandler.Subscribe)

	v1.Get("/health", healthHandler.Health)

	admin := v1.Group("/admin", middleware.AdminAuth(cfg.AdminToken))
	admin.Post("/sync", adminHandler.SyncAll)
	admin.Post("/sync/:source", adminHandler.SyncSource)
	admin.Get("/sources", adminHandler.Sources)
	admin.Delete("/cache", adminHandler.ClearCache)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "UNHANDLED_ERROR"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			switch code {
			case fiber.StatusNotFound:
				errCode = dto.CodeNotFound
			case fiber.StatusRequestEntityTooLarge:
				errCode = "BODY_TOO_LARGE"
			}
		}

		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		msg := err.Error()
		if code >= 500 {
			msg = "internal server error"
		}

		return c.Status(code).JSON(dto.ErrorResponse{
			Error: msg,
			Code:  errCode,
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.ShutdownWithContext(ctx)
}
