package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hahnsoftware/emp-records-api/internal/middleware"
	"github.com/hahnsoftware/emp-records-api/internal/service"
	"github.com/hahnsoftware/emp-records-api/internal/utils"
)

const dateLayout = "2006-01-02"

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func parseQueryUint(c *fiber.Ctx, key string) (*uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, err
	}
	result := uint(parsed)
	return &result, nil
}

func parseQueryDate(c *fiber.Ctx, key string) (*time.Time, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// sendServiceError maps service sentinels onto HTTP statuses. Unknown errors
// become 500s so internals never leak to the client.
func sendServiceError(c *fiber.Ctx, logger *zerolog.Logger, err error, fallback string) error {
	if ve, ok := service.AsValidationError(err); ok {
		return utils.SendValidationErrors(c, ve.Messages)
	}

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	case errors.Is(err, service.ErrEmployeeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "employee not found")
	case errors.Is(err, service.ErrDepartmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "department not found")
	case errors.Is(err, service.ErrDepartmentNotEmpty):
		return utils.SendError(c, fiber.StatusConflict, "department still has employees assigned")
	case errors.Is(err, service.ErrDepartmentNameTaken):
		return utils.SendError(c, fiber.StatusConflict, "department name already in use")
	case errors.Is(err, service.ErrUsernameTaken):
		return utils.SendError(c, fiber.StatusConflict, "username already in use")
	case errors.Is(err, service.ErrEmployeeIDTaken):
		return utils.SendError(c, fiber.StatusConflict, "employee id already in use")
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid username or password")
	default:
		logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
