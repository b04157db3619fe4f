package mobile

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

// Handler exposes mobile HTTP endpoints.
type Handler struct {
	service  *Service
	cache    cache.Store
	ttl      time.Duration
	pageSize int
}

// NewHandler constructs a mobile HTTP handler.
func NewHandler(service *Service, store cache.Store, ttl time.Duration, pageSize int) *Handler {
	return &Handler{service: service, cache: store, ttl: ttl, pageSize: pageSize}
}

type mobileResponse struct {
	ID          string    `json:"id"`
	Brand       string    `json:"brand"`
	Model       string    `json:"model"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

type listResponse struct {
	Items []mobileResponse `json:"items"`
	pagination.Meta
}

func toResponse(m Mobile) mobileResponse {
	return mobileResponse{
		ID:          m.ID,
		Brand:       m.Brand,
		Model:       m.Model,
		Description: m.Description,
		PriceCents:  m.PriceCents,
		CreatedAt:   m.CreatedAt,
	}
}

func toResponses(mobiles []Mobile) []mobileResponse {
	responses := make([]mobileResponse, 0, len(mobiles))
	for _, m := range mobiles {
		responses = append(responses, toResponse(m))
	}
	return responses
}

// List returns one page of the principal's mobiles.
func (h *Handler) List(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	page := pagination.ParsePage(c.Query("page"))

	key := cache.Key("mobiles", principal, strconv.Itoa(page))
	payload, err := h.cache.GetOrCompute(c.UserContext(), key, h.ttl, []string{cache.TagMobile}, func(ctx context.Context) ([]byte, error) {
		mobiles, meta, err := h.service.List(ctx, principal, page, h.pageSize)
		if err != nil {
			return nil, err
		}
		return json.Marshal(listResponse{Items: toResponses(mobiles), Meta: meta})
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "mobile list failed")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(http.StatusOK).Send(payload)
}

// Detail returns a single mobile. Membership is checked before the cache is
// consulted so a cached payload can never leak to a non-member.
func (h *Handler) Detail(c *fiber.Ctx) error {
	principal := middleware.Principal(c)
	found, err := h.service.Get(c.UserContext(), c.Params("id"), principal)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, ErrNotFound.Error())
		case errors.Is(err, ErrForbidden):
			return fiber.NewError(http.StatusForbidden, ErrForbidden.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, "mobile lookup failed")
	}

	key := cache.Key("mobile", principal, found.ID)
	payload, err := h.cache.GetOrCompute(c.UserContext(), key, h.ttl, []string{cache.TagMobile}, func(context.Context) ([]byte, error) {
		return json.Marshal(toResponse(found))
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "mobile lookup failed")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(http.StatusOK).Send(payload)
}
