package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/giftring/giftring/internal/db/models"
	"github.com/giftring/giftring/internal/web/session"
)

const (
	// SessionCookieName is the cookie carrying the session ID.
	SessionCookieName = "session"

	// LocalsUserKey is the fiber locals key holding the authenticated user.
	LocalsUserKey = "user"
)

// RequireAuthenticated creates a Fiber middleware that rejects requests
// without a valid session and stores the session user in the locals.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)
		if sessionID == "" {
			return unauthorized(c)
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			return unauthorized(c)
		}

		if sessionData.User.ID == "" {
			return unauthorized(c)
		}

		c.Locals(LocalsUserKey, sessionData.User)

		return c.Next()
	}
}

// UserFromContext returns the authenticated user stored by
// RequireAuthenticated, or nil when the request is anonymous.
func UserFromContext(c *fiber.Ctx) *models.User {
	u, ok := c.Locals(LocalsUserKey).(models.User)
	if !ok {
		return nil
	}

	return &u
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "unauthorized",
	})
}
