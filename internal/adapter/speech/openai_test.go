package speech

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/domain"
	"github.com/seu-repo/clinic-assistant/internal/mocks"
)

// pcmWAV builds a canonical 44-byte-header PCM WAV with silent samples.
func pcmWAV(sampleRate, channels, bitDepth int, seconds float64) []byte {
	byteRate := sampleRate * channels * bitDepth / 8
	dataSize := int(float64(byteRate) * seconds)

	buf := new(bytes.Buffer)
	write := func(v interface{}) { _ = binary.Write(buf, binary.LittleEndian, v) }

	buf.WriteString("RIFF")
	write(uint32(36 + dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	write(uint32(16))
	write(uint16(1))
	write(uint16(channels))
	write(uint32(sampleRate))
	write(uint32(byteRate))
	write(uint16(channels * bitDepth / 8))
	write(uint16(bitDepth))
	buf.WriteString("data")
	write(uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

type fakeClient struct {
	audio []byte
	err   error
	calls []openai.CreateSpeechRequest
}

func (f *fakeClient) CreateSpeech(ctx context.Context, req openai.CreateSpeechRequest) (openai.RawResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return openai.RawResponse{}, f.err
	}
	return openai.RawResponse{ReadCloser: io.NopCloser(bytes.NewReader(f.audio))}, nil
}

func TestWAVDuration(t *testing.T) {
	d, err := WAVDuration(pcmWAV(24000, 1, 16, 1.5))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, d.Seconds(), 0.01)

	d, err = WAVDuration(pcmWAV(16000, 2, 16, 2))
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d.Seconds(), 0.01)

	_, err = WAVDuration([]byte("definitely not audio"))
	assert.Error(t, err)
}

func TestOpenAISynthesizer_Synthesize(t *testing.T) {
	// Arrange
	audio := pcmWAV(24000, 1, 16, 2)
	client := &fakeClient{audio: audio}
	cache := mocks.NewMockCache()
	store := NewAudioStore(cache)
	s := NewOpenAISynthesizer(client, store, Config{Voice: "nova"}, zap.NewNop())

	// Act
	res, err := s.Synthesize(context.Background(), "Your order has shipped.", domain.VoiceOptions{Speed: 1.25})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, res.AudioRef)
	assert.Equal(t, "audio/wav", res.MimeType)
	assert.InDelta(t, 2.0, res.Duration.Seconds(), 0.01)

	require.Len(t, client.calls, 1)
	req := client.calls[0]
	assert.Equal(t, "Your order has shipped.", req.Input)
	assert.Equal(t, openai.SpeechVoice("nova"), req.Voice)
	assert.Equal(t, openai.SpeechResponseFormatWav, req.ResponseFormat)
	assert.Equal(t, 1.25, req.Speed)

	stored, err := store.Load(context.Background(), res.AudioRef)
	require.NoError(t, err)
	assert.Equal(t, audio, stored)
}

func TestOpenAISynthesizer_ProviderError(t *testing.T) {
	client := &fakeClient{err: errors.New("429 rate limited")}
	s := NewOpenAISynthesizer(client, NewAudioStore(mocks.NewMockCache()), Config{}, zap.NewNop())

	res, err := s.Synthesize(context.Background(), "hello", domain.VoiceOptions{})

	assert.Nil(t, res)
	assert.ErrorContains(t, err, "429")
}

func TestOpenAISynthesizer_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	client := &fakeClient{err: errors.New("503")}
	s := NewOpenAISynthesizer(client, NewAudioStore(mocks.NewMockCache()), Config{}, zap.NewNop())

	for i := 0; i < 5; i++ {
		_, _ = s.Synthesize(context.Background(), "hello", domain.VoiceOptions{})
	}
	_, err := s.Synthesize(context.Background(), "hello", domain.VoiceOptions{})

	assert.ErrorContains(t, err, "circuit breaker is open")
	assert.Len(t, client.calls, 5)
}

func TestOpenAISynthesizer_StoreFailure(t *testing.T) {
	cache := mocks.NewMockCache()
	cache.SetFunc = func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
		return errors.New("OOM command not allowed")
	}
	s := NewOpenAISynthesizer(&fakeClient{audio: pcmWAV(24000, 1, 16, 1)}, NewAudioStore(cache), Config{}, zap.NewNop())

	_, err := s.Synthesize(context.Background(), "hello", domain.VoiceOptions{})

	assert.ErrorContains(t, err, "store audio")
}

func TestOpenAISynthesizer_EmptyText(t *testing.T) {
	client := &fakeClient{}
	s := NewOpenAISynthesizer(client, NewAudioStore(mocks.NewMockCache()), Config{}, zap.NewNop())

	_, err := s.Synthesize(context.Background(), "", domain.VoiceOptions{})

	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, client.calls)
}

func TestAudioStore_LoadMissing(t *testing.T) {
	_, err := NewAudioStore(mocks.NewMockCache()).Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrAudioNotFound)
}
