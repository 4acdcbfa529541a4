package speech

import (
	"bytes"
	"errors"
	"time"

	"github.com/go-audio/wav"
)

const wavHeaderSize = 44

var errInvalidWAV = errors.New("not a wav stream")

// WAVDuration reads the format chunk and derives playback length from the
// payload size. Streamed responses carry a placeholder data chunk size, so the
// header's own length field is not trusted.
func WAVDuration(audio []byte) (time.Duration, error) {
	dec := wav.NewDecoder(bytes.NewReader(audio))
	if !dec.IsValidFile() {
		return 0, errInvalidWAV
	}

	bytesPerSecond := int(dec.SampleRate) * int(dec.NumChans) * int(dec.BitDepth) / 8
	if bytesPerSecond <= 0 {
		return 0, errInvalidWAV
	}

	payload := len(audio) - wavHeaderSize
	if payload < 0 {
		payload = 0
	}
	return time.Duration(float64(payload) / float64(bytesPerSecond) * float64(time.Second)), nil
}
