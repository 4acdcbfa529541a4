package voice

import "time"

// SubjectQueryHandled is published once per handled utterance.
const SubjectQueryHandled = "voice.query.handled"

// QueryHandledEvent carries no utterance text or response content.
type QueryHandledEvent struct {
	UserID    string    `json:"user_id"`
	Intent    string    `json:"intent"`
	Degraded  bool      `json:"degraded"`
	HasAudio  bool      `json:"has_audio"`
	LatencyMS int64     `json:"latency_ms"`
	HandledAt time.Time `json:"handled_at"`
}
