package middleware

import (
	"recipe-organizer/internal/utils"
	"recipe-organizer/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	localUser   = "user"
	localUserID = "user_id"
	localRole   = "role"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware() fiber.Handler
		RequireRoles(roles ...string) fiber.Handler
		RateLimiter() fiber.Handler
	}

	middleware struct {
		cfg      *utils.Config
		resolver auth.Resolver
		logger   *zap.Logger
	}
)

func NewMiddleware(cfg *utils.Config, resolver auth.Resolver, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &middleware{
		cfg:      cfg,
		resolver: resolver,
		logger:   logger,
	}
}
