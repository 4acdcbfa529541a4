package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/ports"
)

const (
	defaultQueryTimeout = 8 * time.Second
	readTimeout         = 5 * time.Minute
	maxFrameSize        = 8 * 1024
)

type VoiceStreamHandler struct {
	assistant    ports.VoiceAssistant
	queryTimeout time.Duration
	logger       *zap.Logger
}

func NewVoiceStreamHandler(assistant ports.VoiceAssistant, queryTimeout time.Duration, logger *zap.Logger) *VoiceStreamHandler {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &VoiceStreamHandler{
		assistant:    assistant,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

type streamFrame struct {
	Utterance string `json:"utterance"`
}

// parseFrame accepts either a JSON object with an utterance field or a plain
// text transcript.
func parseFrame(data []byte) string {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, "{") {
		var frame streamFrame
		if err := json.Unmarshal(data, &frame); err == nil {
			return strings.TrimSpace(frame.Utterance)
		}
	}
	return text
}

// HandleVoiceStream answers each text frame with one JSON voice response, in
// order, until the client disconnects.
func (h *VoiceStreamHandler) HandleVoiceStream(c *websocket.Conn) {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		_ = c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthenticated"))
		return
	}

	c.SetReadLimit(maxFrameSize)
	h.logger.Debug("Voice stream opened", zap.String("user_id", userID))
	defer h.logger.Debug("Voice stream closed", zap.String("user_id", userID))

	for {
		_ = c.SetReadDeadline(time.Now().Add(readTimeout))
		messageType, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("Voice stream read failed", zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		utterance := parseFrame(data)
		if utterance == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), h.queryTimeout)
		resp := h.assistant.Handle(ctx, userID, utterance)
		cancel()

		if err := c.WriteJSON(resp); err != nil {
			h.logger.Warn("Voice stream write failed", zap.Error(err))
			return
		}
	}
}

// SetupVoiceRoutes mounts /ws/voice; auth must run before it so user_id is
// in Locals when the upgrade happens.
func SetupVoiceRoutes(app *fiber.App, handler *VoiceStreamHandler, middleware ...fiber.Handler) {
	handlers := append([]fiber.Handler{}, middleware...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	useArgs := []interface{}{"/ws/voice"}
	for _, h := range handlers {
		useArgs = append(useArgs, h)
	}
	app.Use(useArgs...)

	app.Get("/ws/voice", websocket.New(handler.HandleVoiceStream))
}
