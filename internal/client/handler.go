package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/mobistore/mobistore/internal/cache"
	"github.com/mobistore/mobistore/internal/middleware"
	"github.com/mobistore/mobistore/internal/pagination"
)

// Handler exposes client HTTP endpoints.
type Handler struct {
	service  *Service
	cache    cache.Store
	ttl      time.Duration
	pageSize int
}

// NewHandler constructs a client HTTP handler.
func NewHandler(service *Service, store cache.Store, ttl time.Duration, pageSize int) *Handler {
	return &Handler{service: service, cache: store, ttl: ttl, pageSize: pageSize}
}

type clientResponse struct {
	ID        string    `json:"id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type listResponse struct {
	Items []clientResponse `json:"items"`
	pagination.Meta
}

func toResponse(c Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Firstname: c.Firstname,
		Lastname:  c.Lastname,
		Email:     c.Email,
		UserID:    c.OwnerID,
		CreatedAt: c.CreatedAt,
	}
}

func toResponses(clients []Client) []clientResponse {
	responses := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, toResponse(c))
	}
	return responses
}

func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(http.StatusForbidden, ErrForbidden.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, "client operation failed")
	}
}

// Create persists a client owned by the authenticated principal.
func (h *Handler) Create(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	created, err := h.service.Create(c.UserContext(), middleware.Principal(c), in)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Data not valid"})
		}
		return httpError(err)
	}
	if err := h.cache.Invalidate(c.UserContext(), cache.TagClient); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "cache invalidation failed")
	}
	return c.Status(http.StatusCreated).JSON(toResponse(created))
}

// List returns one page of the principal's clients.
func (h *Handler) List(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	page := pagination.ParsePage(c.Query("page"))

	key := cache.Key("clients", principal, strconv.Itoa(page))
	payload, err := h.cache.GetOrCompute(c.UserContext(), key, h.ttl, []string{cache.TagClient}, func(ctx context.Context) ([]byte, error) {
		clients, meta, err := h.service.List(ctx, principal, page, h.pageSize)
		if err != nil {
			return nil, err
		}
		return json.Marshal(listResponse{Items: toResponses(clients), Meta: meta})
	})
	if err != nil {
		return httpError(err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(http.StatusOK).Send(payload)
}

// Detail returns a single owned client. Ownership is checked before the
// cache is consulted.
func (h *Handler) Detail(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	found, err := h.service.Get(c.UserContext(), c.Params("id"), principal)
	if err != nil {
		return httpError(err)
	}

	key := cache.Key("client", principal, found.ID)
	payload, err := h.cache.GetOrCompute(c.UserContext(), key, h.ttl, []string{cache.TagClient}, func(context.Context) ([]byte, error) {
		return json.Marshal(toResponse(found))
	})
	if err != nil {
		return httpError(err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(http.StatusOK).Send(payload)
}

// Update copies the writable fields onto an owned client.
func (h *Handler) Update(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.service.Update(c.UserContext(), c.Params("id"), middleware.Principal(c), in)
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "Data not valid"})
		}
		return httpError(err)
	}
	if err := h.cache.Invalidate(c.UserContext(), cache.TagClient); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "cache invalidation failed")
	}
	return c.Status(http.StatusCreated).JSON(toResponse(updated))
}

// Delete removes an owned client.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id"), middleware.Principal(c)); err != nil {
		return httpError(err)
	}
	if err := h.cache.Invalidate(c.UserContext(), cache.TagClient); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "cache invalidation failed")
	}
	return c.SendStatus(http.StatusNoContent)
}
