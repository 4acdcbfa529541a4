package voice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/domain"
	"github.com/seu-repo/clinic-assistant/internal/observability/telemetry"
	"github.com/seu-repo/clinic-assistant/internal/ports"
)

// UnavailableText is spoken when the user's data cannot be read at all.
const UnavailableText = "I'm having trouble accessing your account right now. Please try again in a moment."

const (
	statusOK       = "ok"
	statusNoAudio  = "no_audio"
	statusDegraded = "degraded"
)

type assistant struct {
	classifier  ports.IntentClassifier
	aggregator  ports.ContextAggregator
	synthesizer ports.ResponseSynthesizer
	speech      ports.SpeechSynthesizer
	events      ports.EventPublisher
	voice       domain.VoiceOptions
	tracer      trace.Tracer
	logger      *zap.Logger
}

// NewAssistant builds the orchestrator. speech and events may be nil, in
// which case responses carry no audio and no event is published.
func NewAssistant(
	classifier ports.IntentClassifier,
	aggregator ports.ContextAggregator,
	synthesizer ports.ResponseSynthesizer,
	speech ports.SpeechSynthesizer,
	events ports.EventPublisher,
	voice domain.VoiceOptions,
	logger *zap.Logger,
) ports.VoiceAssistant {
	return &assistant{
		classifier:  classifier,
		aggregator:  aggregator,
		synthesizer: synthesizer,
		speech:      speech,
		events:      events,
		voice:       voice,
		tracer:      otel.Tracer("clinic-assistant/voice"),
		logger:      logger,
	}
}

// Handle classifies while the context is aggregated, synthesizes the answer
// and finally asks the speech provider for audio. It always returns a response.
func (a *assistant) Handle(ctx context.Context, userID, utterance string) *domain.VoiceResponse {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "voice.Handle", trace.WithAttributes(
		attribute.String("user_id", userID),
	))
	defer span.End()

	bundleCh := make(chan *domain.ContextBundle, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Error("Context aggregation panicked", zap.String("user_id", userID), zap.Any("panic", r))
				bundleCh <- nil
			}
		}()
		bundleCh <- a.aggregator.Aggregate(ctx, userID)
	}()

	intent := a.classifier.Classify(utterance)
	span.SetAttributes(attribute.String("intent", intent.String()))

	var bundle *domain.ContextBundle
	select {
	case bundle = <-bundleCh:
	case <-ctx.Done():
		return a.degraded(span, start, userID, "request cancelled during aggregation", ctx.Err())
	}

	if bundle == nil || bundle.Unavailable {
		return a.degraded(span, start, userID, "user context unavailable", nil)
	}

	text, err := a.synthesize(intent, utterance, bundle)
	if err != nil {
		return a.degraded(span, start, userID, "response synthesis failed", err)
	}

	if err := ctx.Err(); err != nil {
		return a.degraded(span, start, userID, "request cancelled before speech", err)
	}

	resp := &domain.VoiceResponse{Intent: intent, Text: text}
	status := a.attachAudio(ctx, resp)

	a.finish(span, start, userID, resp, status)
	return resp
}

// synthesize converts a panic in response rendering into an error.
func (a *assistant) synthesize(intent domain.Intent, utterance string, bundle *domain.ContextBundle) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("synthesizer panic: %v", r)
		}
	}()

	text = a.synthesizer.Synthesize(intent, utterance, bundle)
	if text == "" {
		return "", fmt.Errorf("empty response for intent %s", intent)
	}
	return text, nil
}

func (a *assistant) attachAudio(ctx context.Context, resp *domain.VoiceResponse) string {
	if a.speech == nil {
		return statusNoAudio
	}

	result, err := a.speech.Synthesize(ctx, resp.Text, a.voice)
	if err != nil || result == nil || result.AudioRef == "" {
		telemetry.SpeechFailures.Inc()
		a.logger.Warn("Speech synthesis failed, returning text only",
			zap.String("intent", resp.Intent.String()),
			zap.Error(err),
		)
		return statusNoAudio
	}

	seconds := result.Duration.Seconds()
	resp.AudioRef = result.AudioRef
	resp.DurationSeconds = &seconds
	return statusOK
}

func (a *assistant) degraded(span trace.Span, start time.Time, userID, reason string, err error) *domain.VoiceResponse {
	a.logger.Error("Returning degraded voice response",
		zap.String("user_id", userID),
		zap.String("reason", reason),
		zap.Error(err),
	)
	if err != nil {
		span.RecordError(err)
	}
	span.SetStatus(codes.Error, reason)

	resp := &domain.VoiceResponse{
		Intent:   domain.IntentGeneral,
		Text:     UnavailableText,
		Degraded: true,
	}
	a.finish(span, start, userID, resp, statusDegraded)
	return resp
}

func (a *assistant) finish(span trace.Span, start time.Time, userID string, resp *domain.VoiceResponse, status string) {
	elapsed := time.Since(start)

	telemetry.VoiceQueriesTotal.WithLabelValues(resp.Intent.String(), status).Inc()
	telemetry.VoiceLatency.Observe(elapsed.Seconds())
	span.SetAttributes(
		attribute.Bool("degraded", resp.Degraded),
		attribute.Bool("has_audio", resp.HasAudio()),
	)

	a.logger.Info("Voice query handled",
		zap.String("user_id", userID),
		zap.String("intent", resp.Intent.String()),
		zap.String("status", status),
		zap.Duration("latency", elapsed),
	)

	a.publish(QueryHandledEvent{
		UserID:    userID,
		Intent:    resp.Intent.String(),
		Degraded:  resp.Degraded,
		HasAudio:  resp.HasAudio(),
		LatencyMS: elapsed.Milliseconds(),
		HandledAt: time.Now().UTC(),
	})
}

func (a *assistant) publish(event QueryHandledEvent) {
	if a.events == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		a.logger.Warn("Failed to encode query event", zap.Error(err))
		return
	}
	if err := a.events.Publish(SubjectQueryHandled, data); err != nil {
		telemetry.EventsPublishedTotal.WithLabelValues(SubjectQueryHandled, "error").Inc()
		a.logger.Warn("Failed to publish query event", zap.Error(err))
		return
	}
	telemetry.EventsPublishedTotal.WithLabelValues(SubjectQueryHandled, "ok").Inc()
}
