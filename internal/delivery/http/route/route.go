package route

import (
	"github.com/flyingcat/commentgateway/internal/delivery/http"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App               *fiber.App
	CommentController *http.CommentController
	VisitController   *http.VisitController
}

func (c *RouteConfig) SetupRoute() {
	api := c.App.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api.Get("/comments", c.CommentController.ListComments)
	api.Post("/comments", c.CommentController.CreateComment)

	api.Post("/track", c.VisitController.Track)
	api.Get("/visits", c.VisitController.GetVisits)
}
