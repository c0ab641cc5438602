package middleware

import (
	"recipe-organizer/domain"
	"recipe-organizer/entities"
	"recipe-organizer/internal/api/presenters"
	"recipe-organizer/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func (m *middleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.ExtractToken(c.Get(fiber.HeaderAuthorization), c.Cookies(domain.TokenCookieName))

		user, err := m.resolver.Resolve(c.Context(), token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}

		if m.cfg.IsDevelopment() {
			m.logger.Info("authenticated request",
				zap.String("user_id", user.ID.String()),
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
			)
		}

		c.Locals(localUser, user)
		c.Locals(localUserID, user.ID.String())
		c.Locals(localRole, user.Role)
		return c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func (m *middleware) RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.Authorize(Identity(c), roles...); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedProcessRequest, err)
		}
		return c.Next()
	}
}

// Identity returns the user stored by AuthMiddleware, or nil.
func Identity(c *fiber.Ctx) *entities.User {
	user, _ := c.Locals(localUser).(*entities.User)
	return user
}
