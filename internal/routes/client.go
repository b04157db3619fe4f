package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobistore/mobistore/internal/client"
)

// RegisterClientRoutes wires the owner-scoped client endpoints.
func RegisterClientRoutes(r fiber.Router, h *client.Handler) {
	r.Post("/client", h.Create)
	r.Get("/clients", h.List)
	r.Get("/clients/:id", h.Detail)
	r.Put("/clients/:id", h.Update)
	r.Delete("/clients/:id", h.Delete)
}
