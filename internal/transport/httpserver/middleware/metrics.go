package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"promptlab-content-service/internal/metrics"
)

// unmatchedRoute labels requests that match no route, bounding cardinality.
const unmatchedRoute = "unmatched"

// Metrics records request counts and latency per matched route.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		route := routePath(c)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(statusOf(c, err))).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

		return err
	}
}

// routePath returns the registered route pattern, or unmatchedRoute when the
// request fell through to the catch-all.
func routePath(c *fiber.Ctx) string {
	route := c.Route().Path
	if route == "" || (route == "/" && c.Path() != "/") {
		return unmatchedRoute
	}

	return route
}

// statusOf is the status the client will see. Errors returned down the chain
// are written later by the app error handler, so the response still holds 200.
func statusOf(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	return fiber.StatusInternalServerError
}
