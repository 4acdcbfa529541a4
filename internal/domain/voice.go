package domain

import "time"

// Utterance is one transcribed user query.
type Utterance struct {
	UserID string
	Text   string
}

// VoiceResponse is the result of handling one utterance. Audio fields are set
// only when speech synthesis succeeded.
type VoiceResponse struct {
	Intent          Intent   `json:"intent"`
	Text            string   `json:"text"`
	AudioRef        string   `json:"audio_ref,omitempty"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	Degraded        bool     `json:"degraded,omitempty"`
}

// HasAudio reports whether the speech provider produced audio.
func (r *VoiceResponse) HasAudio() bool {
	return r.AudioRef != "" && r.DurationSeconds != nil
}

// VoiceOptions configures a speech synthesis call.
type VoiceOptions struct {
	Voice    string  `json:"voice,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
	Language string  `json:"language,omitempty"`
}

// SpeechResult is what the speech provider hands back.
type SpeechResult struct {
	AudioRef string
	Duration time.Duration
	MimeType string
}
