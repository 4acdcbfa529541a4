//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/ports"
)

func redisURL(t *testing.T) string {
	t.Helper()
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("Failed to start redis container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate redis container: %v", err)
		}
	})

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get redis connection string: %v", err)
	}
	return url
}

func TestRedisCache_Integration(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	c, err := NewRedisCache(redisURL(t), "clinic-test:", logger)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer c.Close()

	ctx := context.Background()

	t.Run("SetGetBinary", func(t *testing.T) {
		audio := []byte{'R', 'I', 'F', 'F', 0x00, 0x01, 0xff}
		if err := c.Set(ctx, "voice:audio:abc", audio, time.Minute); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := c.Get(ctx, "voice:audio:abc")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got != string(audio) {
			t.Errorf("Expected %q, got %q", audio, got)
		}
	})

	t.Run("MissIsErrCacheMiss", func(t *testing.T) {
		_, err := c.Get(ctx, "absent")
		if err != ports.ErrCacheMiss {
			t.Errorf("Expected ErrCacheMiss, got %v", err)
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		if err := c.Set(ctx, "short", "v", 100*time.Millisecond); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		time.Sleep(200 * time.Millisecond)
		if _, err := c.Get(ctx, "short"); err != ports.ErrCacheMiss {
			t.Errorf("Key should have expired, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = c.Set(ctx, "gone", "v", time.Minute)
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := c.Get(ctx, "gone"); err != ports.ErrCacheMiss {
			t.Errorf("Expected miss after delete, got %v", err)
		}
	})

	if err := c.Ping(); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
