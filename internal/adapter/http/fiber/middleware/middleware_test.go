package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/mocks"
	"github.com/seu-repo/clinic-assistant/pkg/config"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func newAuthApp(validator *mocks.MockTokenValidator) *fiber.App {
	app := fiber.New()
	app.Use(AuthRequired(validator, newTestLogger()))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	validator := &mocks.MockTokenValidator{
		ValidateAccessTokenFunc: func(ctx context.Context, token string) (string, error) {
			if token == "good" {
				return "user-42", nil
			}
			return "", errors.New("bad token")
		},
	}
	app := newAuthApp(validator)

	tests := []struct {
		name     string
		target   string
		header   string
		wantCode int
		wantBody string
	}{
		{"bearer header", "/me", "Bearer good", fiber.StatusOK, "user-42"},
		{"query token", "/me?access_token=good", "", fiber.StatusOK, "user-42"},
		{"missing", "/me", "", fiber.StatusUnauthorized, ""},
		{"wrong scheme", "/me", "Basic good", fiber.StatusUnauthorized, ""},
		{"invalid token", "/me", "Bearer bad", fiber.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, resp.StatusCode)

			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.wantBody, string(body))
			}
		})
	}
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(newTestLogger())})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nothing here")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body), "pq:")

	resp, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "nothing here")
}

func TestCircuitBreaker_OpensAfterServerErrors(t *testing.T) {
	// Arrange
	cfg := config.CircuitBreakerConfig{MaxRequests: 3, FailureThreshold: 0.6}
	app := fiber.New()
	app.Use(CircuitBreaker(cfg, newTestLogger()))
	app.Get("/flaky", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusBadGateway)
	})

	// Act
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/flaky", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/flaky", nil))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	app := fiber.New()
	app.Use(RequestTimeout(time.Second))
	app.Get("/", func(c *fiber.Ctx) error {
		if _, ok := c.UserContext().Deadline(); !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
