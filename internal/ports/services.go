package ports

import (
	"context"
	"errors"
	"time"

	"github.com/seu-repo/clinic-assistant/internal/domain"
)

// VoiceAssistant answers one utterance for one user. It never fails:
// every error is converted into a degraded VoiceResponse.
type VoiceAssistant interface {
	Handle(ctx context.Context, userID, utterance string) *domain.VoiceResponse
}

// IntentClassifier maps an utterance to exactly one intent.
type IntentClassifier interface {
	Classify(utterance string) domain.Intent
}

// ContextAggregator builds the per-request snapshot of a user's data.
type ContextAggregator interface {
	Aggregate(ctx context.Context, userID string) *domain.ContextBundle
}

// ResponseSynthesizer renders the answer text.
type ResponseSynthesizer interface {
	Synthesize(intent domain.Intent, utterance string, bundle *domain.ContextBundle) string
}

// SpeechSynthesizer is the external text-to-speech provider.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, opts domain.VoiceOptions) (*domain.SpeechResult, error)
}

// ErrCacheMiss is returned by Cache.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache: miss")

// Cache is a key/value store with expiry, backed by Redis or memory.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

// TokenValidator resolves a bearer token into the authenticated user ID.
type TokenValidator interface {
	ValidateAccessToken(ctx context.Context, token string) (string, error)
}

// EventPublisher emits domain events to the message bus.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}
