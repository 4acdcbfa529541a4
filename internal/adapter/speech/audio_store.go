package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seu-repo/clinic-assistant/internal/ports"
)

const audioKeyPrefix = "voice:audio:"

// ErrAudioNotFound means the reference is unknown or has expired.
var ErrAudioNotFound = errors.New("speech: audio not found")

// AudioStore keeps synthesized audio in the cache for later download.
type AudioStore struct {
	cache ports.Cache
}

func NewAudioStore(cache ports.Cache) *AudioStore {
	return &AudioStore{cache: cache}
}

func (s *AudioStore) Save(ctx context.Context, ref string, audio []byte, ttl time.Duration) error {
	if err := s.cache.Set(ctx, audioKeyPrefix+ref, audio, ttl); err != nil {
		return fmt.Errorf("store audio %s: %w", ref, err)
	}
	return nil
}

func (s *AudioStore) Load(ctx context.Context, ref string) ([]byte, error) {
	val, err := s.cache.Get(ctx, audioKeyPrefix+ref)
	if errors.Is(err, ports.ErrCacheMiss) || (err == nil && val == "") {
		return nil, ErrAudioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load audio %s: %w", ref, err)
	}
	return []byte(val), nil
}
