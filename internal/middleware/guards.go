package middleware

import (
	"strings"

	"recipe-organizer/domain"
	"recipe-organizer/internal/api/presenters"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func (m *middleware) CORSMiddleware() fiber.Handler {
	origins := strings.TrimSpace(m.cfg.CORSOrigins)
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
	})
}

func (m *middleware) RateLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        m.cfg.RateLimitMax,
		Expiration: m.cfg.RateLimitExpiration(),
		LimitReached: func(c *fiber.Ctx) error {
			return presenters.WriteAppError(c, domain.ErrRateLimited)
		},
	})
}
