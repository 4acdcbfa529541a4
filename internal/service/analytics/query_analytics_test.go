package analytics

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/mocks"
	"github.com/seu-repo/clinic-assistant/internal/service/voice"
)

func publish(t *testing.T, q *mocks.MockMessageQueue, event voice.QueryHandledEvent) {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, q.Publish(voice.SubjectQueryHandled, data))
}

func TestQueryAnalytics_CountsEvents(t *testing.T) {
	// Arrange
	queue := mocks.NewMockMessageQueue()
	qa := NewQueryAnalytics(zap.NewNop())
	require.NoError(t, qa.Start(queue))

	// Act
	publish(t, queue, voice.QueryHandledEvent{Intent: "ORDER_STATUS", HasAudio: true, LatencyMS: 100})
	publish(t, queue, voice.QueryHandledEvent{Intent: "ORDER_STATUS", LatencyMS: 300})
	publish(t, queue, voice.QueryHandledEvent{Intent: "GENERAL", Degraded: true, LatencyMS: 200})
	require.NoError(t, queue.Publish(voice.SubjectQueryHandled, []byte("{not json")))

	// Assert
	report := qa.Report()
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Degraded)
	assert.Equal(t, 1, report.WithAudio)
	assert.Equal(t, 2, report.ByIntent["ORDER_STATUS"])
	assert.Equal(t, 1, report.ByIntent["GENERAL"])
	assert.InDelta(t, 200.0, report.AverageLatency, 0.001)
}

func TestQueryAnalytics_StartPropagatesSubscribeError(t *testing.T) {
	queue := mocks.NewMockMessageQueue()
	queue.SubscribeFunc = func(topic string, handler func([]byte) error) error {
		return errors.New("nats: not connected")
	}

	err := NewQueryAnalytics(zap.NewNop()).Start(queue)

	assert.ErrorContains(t, err, "voice.query.handled")
}

func TestHandler_GetReport(t *testing.T) {
	qa := NewQueryAnalytics(zap.NewNop())
	require.NoError(t, qa.HandleEvent([]byte(`{"intent":"HELP","latency_ms":50}`)))

	app := fiber.New()
	NewHandler(qa).RegisterRoutes(app.Group("/api/v1"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/analytics/voice", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var report QueryReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 1, report.ByIntent["HELP"])
}
