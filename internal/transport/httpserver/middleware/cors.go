package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows browser clients from the configured origins.
func CORS(origins []string) fiber.Handler {
	allowed := strings.Join(origins, ",")
	if allowed == "" {
		allowed = "*"
	}

	return cors.New(cors.Config{
		AllowOrigins: allowed,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Admin-Token",
		MaxAge:       3600,
	})
}
