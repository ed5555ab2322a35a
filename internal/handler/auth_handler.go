package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hahnsoftware/emp-records-api/internal/dto"
	"github.com/hahnsoftware/emp-records-api/internal/middleware"
	"github.com/hahnsoftware/emp-records-api/internal/service"
	"github.com/hahnsoftware/emp-records-api/internal/utils"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return sendServiceError(c, requestLogger(h.logger, c), err, "login failed")
	}

	return utils.SendSuccess(c, "login successful", response)
}

// Logout revokes the bearer token for the remainder of its lifetime.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	tokenID, _ := c.Locals(middleware.LocalTokenID).(string)
	expiresAt, _ := c.Locals(middleware.LocalTokenExpiresAt).(time.Time)

	if err := h.service.Logout(c.UserContext(), tokenID, expiresAt); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to revoke token")
		return utils.SendError(c, fiber.StatusInternalServerError, "logout failed")
	}

	return utils.SendSuccess(c, "logout successful", nil)
}
