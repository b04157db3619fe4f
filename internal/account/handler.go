package account

import (
	"context"
	"errors"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/mobistore/mobistore/internal/cache"
	"github.com/mobistore/mobistore/internal/middleware"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
	cache   cache.Store
	ttl     time.Duration
}

// NewHandler constructs an account HTTP handler.
func NewHandler(service *Service, store cache.Store, ttl time.Duration) *Handler {
	return &Handler{service: service, cache: store, ttl: ttl}
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toResponse(u User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// Create handles account registration.
func (h *Handler) Create(c *fiber.Ctx) error {
	var in RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	user, err := h.service.Register(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalid):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Data not valid"})
		case errors.Is(err, ErrEmailTaken):
			return fiber.NewError(http.StatusBadRequest, ErrEmailTaken.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "could not create user")
	}
	if err := h.cache.Invalidate(c.UserContext(), cache.TagUser); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "cache invalidation failed")
	}
	return c.Status(http.StatusCreated).JSON(toResponse(user))
}

// Detail returns the authenticated user's own account.
func (h *Handler) Detail(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	user, err := h.service.Get(c.UserContext(), c.Params("id"), principal)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, ErrNotFound.Error())
		case errors.Is(err, ErrForbidden):
			return fiber.NewError(http.StatusForbidden, ErrForbidden.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "could not load user")
	}

	key := cache.Key("user", user.ID)
	payload, err := h.cache.GetOrCompute(c.UserContext(), key, h.ttl, []string{cache.TagUser}, func(context.Context) ([]byte, error) {
		return json.Marshal(toResponse(user))
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "could not load user")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(http.StatusOK).Send(payload)
}
