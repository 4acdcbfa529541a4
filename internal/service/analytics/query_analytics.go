package analytics

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/service/voice"
)

// Subscriber is satisfied by the message queue adapters.
type Subscriber interface {
	Subscribe(subject string, handler func(data []byte) error) error
}

// QueryReport is a snapshot of handled voice queries since process start.
type QueryReport struct {
	Since          time.Time      `json:"since"`
	Total          int            `json:"total"`
	Degraded       int            `json:"degraded"`
	WithAudio      int            `json:"with_audio"`
	ByIntent       map[string]int `json:"by_intent"`
	AverageLatency float64        `json:"average_latency_ms"`
}

// QueryAnalytics consumes voice.query.handled events and keeps running totals.
type QueryAnalytics struct {
	mu           sync.Mutex
	since        time.Time
	total        int
	degraded     int
	withAudio    int
	byIntent     map[string]int
	latencySumMS int64
	log          *zap.Logger
}

func NewQueryAnalytics(log *zap.Logger) *QueryAnalytics {
	return &QueryAnalytics{
		since:    time.Now().UTC(),
		byIntent: make(map[string]int),
		log:      log,
	}
}

// Start subscribes to the query event subject.
func (qa *QueryAnalytics) Start(sub Subscriber) error {
	if err := sub.Subscribe(voice.SubjectQueryHandled, qa.HandleEvent); err != nil {
		return fmt.Errorf("subscribe %s: %w", voice.SubjectQueryHandled, err)
	}
	qa.log.Info("Query analytics subscribed", zap.String("subject", voice.SubjectQueryHandled))
	return nil
}

// HandleEvent records one event. Malformed payloads are logged and dropped.
func (qa *QueryAnalytics) HandleEvent(data []byte) error {
	var event voice.QueryHandledEvent
	if err := json.Unmarshal(data, &event); err != nil {
		qa.log.Warn("Dropping malformed query event", zap.Error(err))
		return nil
	}

	qa.mu.Lock()
	defer qa.mu.Unlock()

	qa.total++
	qa.byIntent[event.Intent]++
	qa.latencySumMS += event.LatencyMS
	if event.Degraded {
		qa.degraded++
	}
	if event.HasAudio {
		qa.withAudio++
	}
	return nil
}

// Report returns a copy of the running totals.
func (qa *QueryAnalytics) Report() QueryReport {
	qa.mu.Lock()
	defer qa.mu.Unlock()

	byIntent := make(map[string]int, len(qa.byIntent))
	for k, v := range qa.byIntent {
		byIntent[k] = v
	}

	report := QueryReport{
		Since:     qa.since,
		Total:     qa.total,
		Degraded:  qa.degraded,
		WithAudio: qa.withAudio,
		ByIntent:  byIntent,
	}
	if qa.total > 0 {
		report.AverageLatency = float64(qa.latencySumMS) / float64(qa.total)
	}
	return report
}
