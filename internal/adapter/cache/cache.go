package cache

import (
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/ports"
)

// Config selects the cache backend.
type Config struct {
	RedisURL        string
	Prefix          string
	MaxEntries      int
	CleanupInterval time.Duration
}

// New returns a Redis cache when RedisURL is set and reachable, otherwise a
// local cache. A Redis outage at startup is logged, not fatal.
func New(cfg Config, log *zap.Logger) ports.Cache {
	if cfg.RedisURL != "" {
		c, err := NewRedisCache(cfg.RedisURL, cfg.Prefix, log)
		if err == nil {
			return c
		}
		log.Warn("Redis unavailable, falling back to local cache", zap.Error(err))
	}
	return NewLocalCache(cfg.CleanupInterval, cfg.MaxEntries, log)
}
