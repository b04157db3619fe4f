package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobistore/mobistore/internal/mobile"
)

// RegisterMobileRoutes wires the membership-scoped catalog endpoints.
func RegisterMobileRoutes(r fiber.Router, h *mobile.Handler) {
	r.Get("/mobiles", h.List)
	r.Get("/mobiles/:id", h.Detail)
}
