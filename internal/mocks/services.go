package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/seu-repo/clinic-assistant/internal/domain"
)

// MockSpeechSynthesizer is a mock implementation of SpeechSynthesizer.
// Calls are recorded so tests can assert on what was spoken.
type MockSpeechSynthesizer struct {
	mu             sync.Mutex
	Calls          []string
	SynthesizeFunc func(ctx context.Context, text string, opts domain.VoiceOptions) (*domain.SpeechResult, error)
}

func (m *MockSpeechSynthesizer) Synthesize(ctx context.Context, text string, opts domain.VoiceOptions) (*domain.SpeechResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	m.mu.Unlock()

	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, opts)
	}
	return &domain.SpeechResult{
		AudioRef: "audio-ref",
		Duration: 2 * time.Second,
		MimeType: "audio/wav",
	}, nil
}

// CallCount returns how many times Synthesize was invoked
func (m *MockSpeechSynthesizer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockTokenValidator is a mock implementation of TokenValidator
type MockTokenValidator struct {
	ValidateAccessTokenFunc func(ctx context.Context, token string) (string, error)
}

func (m *MockTokenValidator) ValidateAccessToken(ctx context.Context, token string) (string, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(ctx, token)
	}
	return "user-123", nil
}

// MockVoiceAssistant is a mock implementation of VoiceAssistant
type MockVoiceAssistant struct {
	HandleFunc func(ctx context.Context, userID, utterance string) *domain.VoiceResponse
}

func (m *MockVoiceAssistant) Handle(ctx context.Context, userID, utterance string) *domain.VoiceResponse {
	if m.HandleFunc != nil {
		return m.HandleFunc(ctx, userID, utterance)
	}
	return &domain.VoiceResponse{Intent: domain.IntentGeneral, Text: "Hello!"}
}
