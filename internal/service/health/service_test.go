package health

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/mocks"
)

type fakeQueue struct{ connected bool }

func (f fakeQueue) Connected() bool { return f.connected }

func TestService_Ready_AllHealthy(t *testing.T) {
	// Arrange
	svc := NewService(&Config{
		Version: "test",
		Cache:   mocks.NewMockCache(),
		Queue:   fakeQueue{connected: true},
	}, zap.NewNop())

	// Act
	resp := svc.Ready(context.Background())

	// Assert
	assert.True(t, resp.Ready)
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestService_Ready_CacheDownIsDegraded(t *testing.T) {
	cache := mocks.NewMockCache()
	cache.PingFunc = func() error { return errors.New("dial tcp: connection refused") }
	svc := NewService(&Config{Cache: cache}, zap.NewNop())

	resp := svc.Ready(context.Background())

	assert.True(t, resp.Ready)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Contains(t, resp.Checks["cache"].Message, "connection refused")
}

func TestService_Ready_CustomCheckerUnhealthy(t *testing.T) {
	svc := NewService(&Config{}, zap.NewNop())
	svc.RegisterChecker("speech", func(ctx context.Context) CheckResult {
		return CheckResult{Name: "speech", Status: StatusUnhealthy, Timestamp: time.Now()}
	})

	resp := svc.Ready(context.Background())

	assert.False(t, resp.Ready)
	assert.Equal(t, StatusUnhealthy, resp.Status)
}

func TestFiberHandler_Routes(t *testing.T) {
	// Arrange
	svc := NewService(&Config{Version: "1.2.3", Queue: fakeQueue{connected: false}}, zap.NewNop())
	svc.RegisterChecker("store", func(ctx context.Context) CheckResult {
		return CheckResult{Name: "store", Status: StatusUnhealthy}
	})
	app := fiber.New()
	NewFiberHandler(svc).RegisterRoutes(app)

	// Act
	health, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	ready, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, fiber.StatusOK, health.StatusCode)
	assert.Equal(t, fiber.StatusServiceUnavailable, ready.StatusCode)
}
