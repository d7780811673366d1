package handler

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/transport/httpserver/dto"
)

const healthCheckTimeout = 3 * time.Second

// HealthHandler reports the health of the service's dependencies.
type HealthHandler struct {
	checks  map[string]domain.HealthChecker
	started time.Time
	logger  *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. checks maps a dependency
// name (source, mirror, redis) to its checker.
func NewHealthHandler(checks map[string]domain.HealthChecker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		checks:  checks,
		started: time.Now(),
		logger:  logger,
	}
}

// Health handles GET /api/v1/health
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		healthy = true
		results = make(map[string]string, len(h.checks))
	)

	for _, name := range slices.Sorted(maps.Keys(h.checks)) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			status := "ok"
			if err := h.checks[name].HealthCheck(ctx); err != nil {
				h.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
				status = "unavailable"
			}

			mu.Lock()
			results[name] = status
			if status != "ok" {
				healthy = false
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	resp := dto.HealthResponse{
		Status:    "ok",
		Checks:    results,
		Uptime:    time.Since(h.started).Truncate(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if !healthy {
		resp.Status = "degraded"

		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}

	return c.JSON(resp)
}
