package handlers

import (
	"time"

	"recipe-organizer/domain"
	"recipe-organizer/internal/api/presenters"
	"recipe-organizer/internal/middleware"
	"recipe-organizer/pkg/user"

	"github.com/gofiber/fiber/v2"
)

const logoutCookieTTL = 10 * time.Second

type (
	UserHandler interface {
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
		UpdateProfile(c *fiber.Ctx) error
		ChangePassword(c *fiber.Ctx) error
		ActivateUser(c *fiber.Ctx) error
		DeactivateUser(c *fiber.Ctx) error
	}

	userHandler struct {
		userService   user.UserService
		secureCookies bool
	}
)

func NewUserHandler(userService user.UserService, secureCookies bool) UserHandler {
	return &userHandler{
		userService:   userService,
		secureCookies: secureCookies,
	}
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.userService.Register(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedRegister, err)
	}

	h.setTokenCookie(c, res.Token, res.ExpiresAt)
	return presenters.AuthResponse(c, fiber.StatusCreated, res.Token, res.User)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.userService.Login(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedLogin, err)
	}

	h.setTokenCookie(c, res.Token, res.ExpiresAt)
	return presenters.AuthResponse(c, fiber.StatusOK, res.Token, res.User)
}

func (h *userHandler) Logout(c *fiber.Ctx) error {
	h.setTokenCookie(c, "none", time.Now().Add(logoutCookieTTL))
	return presenters.MessageResponse(c, fiber.StatusOK, domain.MessageSuccessLogout)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	res, err := h.userService.Me(c.Context(), middleware.Identity(c))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetMe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMe)
}

func (h *userHandler) UpdateProfile(c *fiber.Ctx) error {
	req := new(domain.UpdateProfileRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.userService.UpdateProfile(c.Context(), middleware.Identity(c), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedUpdateProfile, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateProfile)
}

func (h *userHandler) ChangePassword(c *fiber.Ctx) error {
	req := new(domain.ChangePasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.userService.ChangePassword(c.Context(), middleware.Identity(c), *req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedChangePassword, err)
	}

	return presenters.MessageResponse(c, fiber.StatusOK, domain.MessageSuccessChangePassword)
}

func (h *userHandler) ActivateUser(c *fiber.Ctx) error {
	return h.setActive(c, true)
}

func (h *userHandler) DeactivateUser(c *fiber.Ctx) error {
	return h.setActive(c, false)
}

func (h *userHandler) setActive(c *fiber.Ctx, active bool) error {
	res, err := h.userService.SetActive(c.Context(), c.Params("id"), active)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSetActive, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSetActive)
}

func (h *userHandler) setTokenCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     domain.TokenCookieName,
		Value:    value,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
