package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/knadh/koanf/v2"
)

// NewCORS restricts the calling origin to the configured allow-list. An
// origin outside the list gets the first configured origin, mirroring the
// edge-worker behavior. OPTIONS preflights short-circuit here before any
// business logic runs.
func NewCORS(config *koanf.Koanf) fiber.Handler {
	allowed := make([]string, 0)
	for _, origin := range strings.Split(config.String("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowed = append(allowed, origin)
		}
	}

	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)

		allowOrigin := ""
		if len(allowed) > 0 {
			allowOrigin = allowed[0]
		}
		for _, candidate := range allowed {
			if candidate == origin {
				allowOrigin = origin
				break
			}
		}

		if allowOrigin != "" {
			c.Set(fiber.HeaderAccessControlAllowOrigin, allowOrigin)
			c.Set(fiber.HeaderVary, fiber.HeaderOrigin)
		}
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type")

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}

		return c.Next()
	}
}
