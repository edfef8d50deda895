package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/foodblog-api/configs"
	"github.com/maheshrc27/foodblog-api/internal/models"
	"github.com/maheshrc27/foodblog-api/internal/service"
)

// CallerKey is the fiber Locals key holding the authenticated *models.Caller.
const CallerKey = "caller"

type AuthMiddleware struct {
	s   service.AuthService
	cfg *config.Config
}

func NewAuthMiddleware(cfg *config.Config, service service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{s: service, cfg: cfg}
}

func (m *AuthMiddleware) token(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if m.cfg.CookieName != "" {
		return c.Cookies(m.cfg.CookieName)
	}
	return ""
}

// Protect rejects requests without a valid token and stores the caller.
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := m.s.Authenticate(c.Context(), m.token(c))
		if err != nil {
			if m.cfg.CookieName != "" && c.Cookies(m.cfg.CookieName) != "" {
				c.Cookie(&fiber.Cookie{
					Name:   m.cfg.CookieName,
					Value:  "",
					Path:   "/",
					MaxAge: -1, // Delete cookie
				})
			}

			log.Printf("Token validation failed: %v", err)
			status := fiber.StatusUnauthorized
			if service.KindOf(err) != service.KindAuthRequired {
				status = fiber.StatusInternalServerError
			}
			return c.Status(status).JSON(fiber.Map{
				"error": service.MessageOf(err),
			})
		}

		c.Locals(CallerKey, caller)
		return c.Next()
	}
}

// Admin must run after Protect.
func (m *AuthMiddleware) Admin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, _ := c.Locals(CallerKey).(*models.Caller)
		if caller == nil || !caller.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Not authorized as an admin",
			})
		}
		return c.Next()
	}
}
