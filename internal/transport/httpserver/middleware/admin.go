package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"

	"promptlab-content-service/internal/transport/httpserver/dto"
)

// AdminHeader carries the admin token; "Authorization: Bearer" is also accepted.
const AdminHeader = "X-Admin-Token"

// AdminAuth guards admin routes with a shared token. With an empty token
// admin routes are disabled entirely.
func AdminAuth(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: "admin api disabled",
				Code:  "ADMIN_DISABLED",
			})
		}

		got := c.Get(AdminHeader)
		if got == "" {
			got, _ = strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}

		if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "invalid admin token",
				Code:  "UNAUTHORIZED",
			})
		}

		return c.Next()
	}
}
