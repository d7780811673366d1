package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"promptlab-content-service/internal/metrics"
	"promptlab-content-service/internal/transport/httpserver/dto"
)

// CodePanic is the error code returned when a handler panics.
const CodePanic = "PANIC"

// Recover turns a handler panic into a 500 JSON response. The panic value is
// logged at error level, which also forwards it to Sentry when enabled.
func Recover(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			panicErr, ok := r.(error)
			if !ok {
				panicErr = fmt.Errorf("panic: %v", r)
			}

			route := routePath(c)
			metrics.PanicsRecoveredTotal.WithLabelValues(route).Inc()

			logger.Error("handler panicked",
				zap.Error(panicErr),
				zap.String("request_id", requestID(c)),
				zap.String("method", c.Method()),
				zap.String("route", route),
				zap.ByteString("stack", debug.Stack()),
			)

			err = c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: "internal server error",
				Code:  CodePanic,
			})
		}()

		return c.Next()
	}
}
