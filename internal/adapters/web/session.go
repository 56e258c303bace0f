package web

import (
	"time"

	"xhs-resolver/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const sessionLocalsKey = "session_id"

// SessionMiddleware assigns every visitor a session ID cookie. The cookie
// is refreshed on each request so it lives as long as the server-side
// session.
func SessionMiddleware(cookieName string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Cookie(&fiber.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			Expires:  time.Now().Add(ttl),
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		c.Locals(sessionLocalsKey, id)
		return c.Next()
	}
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(sessionLocalsKey).(string)
	return id
}

// settingsFromCookie reads stored preferences, defaulting when absent.
func settingsFromCookie(c *fiber.Ctx) domain.Settings {
	s := domain.DefaultSettings()
	s.AutoDownload = domain.ParseBool(c.Cookies(domain.AutoDownloadCookie), s.AutoDownload)
	return s
}
