package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Voice pipeline
	VoiceQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clinic_voice_queries_total",
		Help: "Total voice queries handled, by intent and outcome",
	}, []string{"intent", "status"})

	VoiceLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clinic_voice_latency_seconds",
		Help:    "End-to-end latency of a voice query",
		Buckets: prometheus.DefBuckets,
	})

	ContextFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clinic_context_fetch_failures_total",
		Help: "Context slices that could not be fetched",
	}, []string{"slice"})

	SpeechFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clinic_speech_failures_total",
		Help: "Speech synthesis calls that failed",
	})

	// Infrastructure
	DatabaseLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "clinic_database_latency_seconds",
		Help:    "Latency of repository queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"repository"})

	EventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clinic_events_published_total",
		Help: "Events published to the message queue",
	}, []string{"subject", "status"})
)
