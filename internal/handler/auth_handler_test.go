package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hahnsoftware/emp-records-api/internal/dto"
	"github.com/hahnsoftware/emp-records-api/internal/handler"
	"github.com/hahnsoftware/emp-records-api/internal/middleware"
	"github.com/hahnsoftware/emp-records-api/internal/models"
	"github.com/hahnsoftware/emp-records-api/internal/service"
)

type mockAuthService struct {
	lastLogin      dto.LoginRequest
	loggedOutToken string
	response       dto.LoginResponse
	err            error
}

func (m *mockAuthService) Authenticate(_ context.Context, _, _ string) (*models.Employee, error) {
	return nil, m.err
}

func (m *mockAuthService) Login(_ context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	m.lastLogin = req
	if m.err != nil {
		return dto.LoginResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockAuthService) Logout(_ context.Context, tokenID string, _ time.Time) error {
	m.loggedOutToken = tokenID
	return m.err
}

func (m *mockAuthService) IsTokenRevoked(_ context.Context, _ string) (bool, error) {
	return false, nil
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	svc := &mockAuthService{response: dto.LoginResponse{
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		Employee:  dto.EmployeeResponse{ID: 3, Username: "admin"},
	}}
	app := fiber.New()
	h := handler.NewAuthHandler(svc, zerolog.New(io.Discard))
	app.Post("/api/v1/auth/login", h.Login)

	body, err := json.Marshal(dto.LoginRequest{Username: "admin", Password: "correct-horse"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "admin", svc.lastLogin.Username)

	var response struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Equal(t, "signed-token", response.Data.Token)
}

func TestAuthHandler_LoginInvalidCredentials(t *testing.T) {
	svc := &mockAuthService{err: service.ErrInvalidCredentials}
	app := fiber.New()
	h := handler.NewAuthHandler(svc, zerolog.New(io.Discard))
	app.Post("/api/v1/auth/login", h.Login)

	body, err := json.Marshal(dto.LoginRequest{Username: "admin", Password: "wrong"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandler_LogoutRevokesCurrentToken(t *testing.T) {
	svc := &mockAuthService{}
	app := fiber.New()
	h := handler.NewAuthHandler(svc, zerolog.New(io.Discard))
	app.Post("/api/v1/auth/logout", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalTokenID, "tok-42")
		c.Locals(middleware.LocalTokenExpiresAt, time.Now().Add(time.Hour))
		return c.Next()
	}, h.Logout)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "tok-42", svc.loggedOutToken)
}
