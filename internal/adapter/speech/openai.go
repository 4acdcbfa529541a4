package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/domain"
	"github.com/seu-repo/clinic-assistant/internal/ports"
)

const (
	defaultModel    = string(openai.TTSModel1)
	defaultVoice    = string(openai.VoiceAlloy)
	defaultAudioTTL = 15 * time.Minute
	defaultTimeout  = 10 * time.Second
	maxAudioBytes   = 16 << 20

	mimeWAV = "audio/wav"
)

// ErrEmptyText is returned when there is nothing to speak.
var ErrEmptyText = errors.New("speech: empty text")

// Client is the subset of the go-openai client used for TTS.
type Client interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// Config mirrors the speech.* configuration keys.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Voice    string
	Speed    float64
	AudioTTL time.Duration
	Timeout  time.Duration
}

// OpenAISynthesizer renders text to WAV through the OpenAI speech endpoint
// and parks the audio in the cache under a fresh reference.
type OpenAISynthesizer struct {
	client  Client
	store   *AudioStore
	breaker *gobreaker.CircuitBreaker
	cfg     Config
	log     *zap.Logger
}

// NewOpenAIClient builds the go-openai client, honouring a custom base URL.
func NewOpenAIClient(cfg Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

func NewOpenAISynthesizer(client Client, store *AudioStore, cfg Config, log *zap.Logger) *OpenAISynthesizer {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = defaultVoice
	}
	if cfg.AudioTTL <= 0 {
		cfg.AudioTTL = defaultAudioTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai-tts",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &OpenAISynthesizer{
		client:  client,
		store:   store,
		breaker: breaker,
		cfg:     cfg,
		log:     log,
	}
}

var _ ports.SpeechSynthesizer = (*OpenAISynthesizer)(nil)

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string, opts domain.VoiceOptions) (*domain.SpeechResult, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.cfg.Model),
		Input:          text,
		Voice:          openai.SpeechVoice(s.cfg.Voice),
		ResponseFormat: openai.SpeechResponseFormatWav,
		Speed:          s.cfg.Speed,
	}
	if opts.Voice != "" {
		req.Voice = openai.SpeechVoice(opts.Voice)
	}
	if opts.Speed > 0 {
		req.Speed = opts.Speed
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	out, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.client.CreateSpeech(ctx, req)
		if err != nil {
			return nil, err
		}
		defer resp.Close()

		audio, err := io.ReadAll(io.LimitReader(resp, maxAudioBytes))
		if err != nil {
			return nil, fmt.Errorf("read speech body: %w", err)
		}
		return audio, nil
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	audio := out.([]byte)

	duration, err := WAVDuration(audio)
	if err != nil {
		return nil, fmt.Errorf("decode speech audio: %w", err)
	}

	ref := uuid.NewString()
	if err := s.store.Save(ctx, ref, audio, s.cfg.AudioTTL); err != nil {
		return nil, err
	}

	s.log.Debug("Speech synthesized",
		zap.String("audio_ref", ref),
		zap.Int("bytes", len(audio)),
		zap.Duration("duration", duration),
	)

	return &domain.SpeechResult{
		AudioRef: ref,
		Duration: duration,
		MimeType: mimeWAV,
	}, nil
}
