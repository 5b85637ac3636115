// Package api exposes the expense tracker as a JSON API for clients
// other than the rendered back office (the owner's phone, mostly).
package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"pizzaria/internal/core"
	"pizzaria/internal/services"
)

type Server struct {
	app  *fiber.App
	svc  *services.ExpenseService
	seed []core.Category
}

// NewServer wires the Fiber app with logging, CORS, and the /api/v1
// route group. seed is the category list the seed endpoint applies,
// the same one startup seeding uses.
func NewServer(svc *services.ExpenseService, seed []core.Category) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "pizzaria-api",
		DisableStartupMessage: true,
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	s := &Server{app: app, svc: svc, seed: seed}

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api.Get("/categories", s.listCategories)
	api.Post("/categories", s.createCategory)
	api.Post("/seed-categories", s.seedCategories)

	api.Get("/expenses", s.listExpenses)
	api.Post("/expenses", s.createExpense)
	api.Get("/expenses/:id", s.getExpense)
	api.Put("/expenses/:id", s.updateExpense)
	api.Delete("/expenses/:id", s.deleteExpense)
	api.Post("/expenses/:id/status", s.setStatus)

	api.Get("/statistics", s.statistics)

	return s
}

// App exposes the underlying Fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
