package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler fiber.Handler) APIResponse {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload APIResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestSendSuccessDefaultsMessage(t *testing.T) {
	payload := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "", fiber.Map{"id": 1})
	})
	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
}

func TestSendErrorPayload(t *testing.T) {
	payload := performRequest(t, func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusForbidden, "insufficient permissions")
	})
	require.False(t, payload.Success)
	require.Equal(t, "insufficient permissions", payload.Message)
}

func TestSendValidationErrorsListsEveryViolation(t *testing.T) {
	messages := []string{"Full name is required", "Email must be a valid email address"}
	payload := performRequest(t, func(c *fiber.Ctx) error {
		return SendValidationErrors(c, messages)
	})
	require.False(t, payload.Success)
	require.Equal(t, "validation failed", payload.Message)
	require.Equal(t, messages, payload.Errors)
}
