package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobistore/mobistore/internal/account"
)

// RegisterAccountRoutes wires the authenticated account endpoints.
// Registration itself (POST /api/user) is public and wired in Setup.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler) {
	r.Get("/user/:id", h.Detail)
}
