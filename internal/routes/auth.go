package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mobistore/mobistore/internal/auth"
)

// RegisterAuthRoutes wires the login endpoint.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	if rateLimiter != nil {
		r.Post("/login_check", rateLimiter, h.Login)
	} else {
		r.Post("/login_check", h.Login)
	}
}
