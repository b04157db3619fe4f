package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal_id"

// TokenVerifier validates a bearer token and returns the principal id.
type TokenVerifier func(token string) (principalID string, err error)

// JWTAuth returns a middleware that validates bearer tokens and stores the
// authenticated principal for downstream handlers.
func JWTAuth(verify TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		principal, err := verify(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// Principal returns the authenticated user id set by JWTAuth, or "" when the
// request is unauthenticated.
func Principal(c *fiber.Ctx) string {
	principal, _ := c.Locals(principalKey).(string)
	return principal
}
