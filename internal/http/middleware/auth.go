package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mayankk-1803/file-store/internal/service"
)

const (
	// UserIDLocalKey holds the authenticated user's id in context locals.
	UserIDLocalKey = "user_id"
	// UserEmailLocalKey holds the authenticated user's e-mail in context locals.
	UserEmailLocalKey = "user_email"
)

// Authenticate gates a route group behind bearer-token auth. It resolves the
// Authorization header through the auth service and stores the acting
// identity in context locals; every failure mode is a uniform 401.
func Authenticate(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or malformed authorization header")
		}

		user, err := svc.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
			}
			return err
		}

		c.Locals(UserIDLocalKey, user.ID)
		c.Locals(UserEmailLocalKey, user.Email)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
