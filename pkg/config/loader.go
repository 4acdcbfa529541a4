package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env (if present), config.yaml and the environment, in that
// order of increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFrom("./configs", ".", "/app/configs")
}

// LoadFrom is Load without the .env step, searching the given directories.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	v.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	v.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	v.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	v.BindEnv("queue.url", "NATS_URL", "AMQP_URL", "APP_QUEUE_URL")
	v.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	v.BindEnv("speech.api_key", "OPENAI_API_KEY", "APP_SPEECH_API_KEY")
	v.BindEnv("vault.token", "VAULT_TOKEN", "APP_VAULT_TOKEN")
	v.BindEnv("vault.address", "VAULT_ADDR", "APP_VAULT_ADDRESS")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("logging.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "clinic-assistant")
	v.SetDefault("app.version", "v1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 120*time.Second)
	v.SetDefault("http.body_limit", 64*1024)

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("redis.key_prefix", "clinic:")
	v.SetDefault("redis.local_max_entries", 1024)

	v.SetDefault("queue.driver", "nats")
	v.SetDefault("queue.url", "nats://localhost:4222")

	v.SetDefault("jwt.issuer", "clinic-auth")

	v.SetDefault("assistant.recent_limit", 10)
	v.SetDefault("assistant.timezone", "UTC")
	v.SetDefault("assistant.currency_symbol", "$")
	v.SetDefault("assistant.request_timeout", 8*time.Second)

	v.SetDefault("speech.enabled", true)
	v.SetDefault("speech.model", "tts-1")
	v.SetDefault("speech.voice", "alloy")
	v.SetDefault("speech.speed", 1.0)
	v.SetDefault("speech.language", "en")
	v.SetDefault("speech.audio_ttl", 15*time.Minute)
	v.SetDefault("speech.timeout", 10*time.Second)

	v.SetDefault("vault.speech_path", "secret/data/speech")
	v.SetDefault("vault.jwt_path", "secret/data/jwt")

	v.SetDefault("opentelemetry.service_name", "clinic-assistant")
	v.SetDefault("prometheus.enabled", true)
	v.SetDefault("prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("circuit_breaker.enabled", true)
	v.SetDefault("circuit_breaker.max_requests", 3)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.failure_threshold", 0.6)

	v.SetDefault("cors.enabled", true)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization"})
	v.SetDefault("cors.max_age", 3600)
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Assistant.RecentLimit <= 0 {
		return fmt.Errorf("assistant.recent_limit must be positive, got %d", c.Assistant.RecentLimit)
	}
	if _, err := time.LoadLocation(c.Assistant.Timezone); err != nil {
		return fmt.Errorf("assistant.timezone %q: %w", c.Assistant.Timezone, err)
	}
	switch strings.ToLower(c.Queue.Driver) {
	case "nats", "rabbitmq", "none":
	default:
		return fmt.Errorf("queue.driver must be nats, rabbitmq or none, got %q", c.Queue.Driver)
	}
	if c.Speech.Speed < 0.25 || c.Speech.Speed > 4.0 {
		return fmt.Errorf("speech.speed must be within [0.25, 4.0], got %v", c.Speech.Speed)
	}
	if c.Vault.Enabled && c.Vault.Address == "" {
		return errors.New("vault.address is required when vault is enabled")
	}
	return nil
}

// Location resolves the assistant time zone; Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Assistant.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
