// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"

	"promptlab-content-service/internal/domain"
)

// probeTimeout bounds every readiness dependency check.
const probeTimeout = 2 * time.Second

// NewHealthCheck creates a Fiber healthcheck middleware with Kubernetes-style endpoints.
//
// Endpoints:
//   - GET /livez  - Liveness probe (app is running)
//   - GET /readyz - Readiness probe (every local dependency answers)
//
// Readiness only checks dependencies the process owns (mirror database,
// Redis). The upstream CMS is reported by the JSON health endpoint instead.
//
// This middleware should be registered BEFORE other routes.
func NewHealthCheck(readiness map[string]domain.HealthChecker) fiber.Handler {
	return healthcheck.New(healthcheck.Config{
		LivenessEndpoint: "/livez",
		LivenessProbe: func(_ *fiber.Ctx) bool {
			return true
		},

		ReadinessEndpoint: "/readyz",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			ctx, cancel := context.WithTimeout(c.UserContext(), probeTimeout)
			defer cancel()

			for _, check := range readiness {
				if check.HealthCheck(ctx) != nil {
					return false
				}
			}

			return true
		},
	})
}
