package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/adapter/speech"
	"github.com/seu-repo/clinic-assistant/internal/ports"
)

const maxUtteranceLength = 2000

// AudioLoader resolves an audio reference returned in a voice response.
type AudioLoader interface {
	Load(ctx context.Context, ref string) ([]byte, error)
}

type VoiceHandler struct {
	assistant ports.VoiceAssistant
	audio     AudioLoader
	log       *zap.Logger
}

// NewVoiceHandler accepts a nil audio loader when speech is disabled.
func NewVoiceHandler(assistant ports.VoiceAssistant, audio AudioLoader, log *zap.Logger) *VoiceHandler {
	return &VoiceHandler{
		assistant: assistant,
		audio:     audio,
		log:       log,
	}
}

func (h *VoiceHandler) RegisterRoutes(router fiber.Router) {
	voice := router.Group("/voice")
	voice.Post("/query", h.Query)
	voice.Get("/audio/:ref", h.Audio)
}

type QueryRequest struct {
	Utterance string `json:"utterance"`
}

// Query answers one utterance for the authenticated user. The assistant never
// fails, so every well-formed request gets a 200.
func (h *VoiceHandler) Query(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	req.Utterance = strings.TrimSpace(req.Utterance)
	if req.Utterance == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "utterance is required"})
	}
	if len(req.Utterance) > maxUtteranceLength {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "utterance is too long"})
	}

	userID, ok := c.Locals("user_id").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthenticated"})
	}

	resp := h.assistant.Handle(c.UserContext(), userID, req.Utterance)
	return c.JSON(resp)
}

func (h *VoiceHandler) Audio(c *fiber.Ctx) error {
	if h.audio == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Audio is not enabled"})
	}

	ref := c.Params("ref")
	audio, err := h.audio.Load(c.UserContext(), ref)
	if errors.Is(err, speech.ErrAudioNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Audio not found or expired"})
	}
	if err != nil {
		h.log.Error("Failed to load audio", zap.String("ref", ref), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load audio"})
	}

	c.Set(fiber.HeaderContentType, "audio/wav")
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(audio)
}
