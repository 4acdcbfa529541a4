package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/clinic-assistant/internal/adapter/cache"
	"github.com/seu-repo/clinic-assistant/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/clinic-assistant/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/clinic-assistant/internal/adapter/queue"
	"github.com/seu-repo/clinic-assistant/internal/adapter/speech"
	"github.com/seu-repo/clinic-assistant/internal/adapter/storage/postgres"
	"github.com/seu-repo/clinic-assistant/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/clinic-assistant/internal/adapter/websocket"
	"github.com/seu-repo/clinic-assistant/internal/domain"
	"github.com/seu-repo/clinic-assistant/internal/observability/telemetry"
	"github.com/seu-repo/clinic-assistant/internal/ports"
	"github.com/seu-repo/clinic-assistant/internal/service/analytics"
	"github.com/seu-repo/clinic-assistant/internal/service/auth"
	"github.com/seu-repo/clinic-assistant/internal/service/health"
	"github.com/seu-repo/clinic-assistant/internal/service/voice"
	"github.com/seu-repo/clinic-assistant/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting clinic assistant",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Secrets from Vault override the environment
	if cfg.Vault.Enabled {
		loadVaultSecrets(cfg, logger)
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry.ServiceName, cfg.App.Version, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 5. Initialize PostgreSQL Connection Pool
	db, err := postgres.NewConnection(cfg.Database.URL, postgres.PoolConfig{
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer postgres.Close(db)

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(db); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get underlying SQL DB", zap.Error(err))
	}

	// 6. Initialize Cache (Redis, local fallback)
	store := cache.New(cache.Config{
		RedisURL:        cfg.Redis.URL,
		Prefix:          cfg.Redis.KeyPrefix,
		MaxEntries:      cfg.Redis.MaxEntries,
		CleanupInterval: time.Minute,
	}, logger)
	defer store.Close()

	// 7. Initialize Message Queue
	messageQueue, err := queue.New(cfg.Queue.Driver, cfg.Queue.URL, logger)
	if err != nil {
		logger.Warn("Event bus unavailable, using in-process queue", zap.Error(err))
		messageQueue = queue.NewMemoryQueue(logger)
	}
	defer messageQueue.Close()

	// 8. Background consumers
	queryAnalytics := analytics.NewQueryAnalytics(logger)
	if err := queryAnalytics.Start(messageQueue); err != nil {
		logger.Error("Failed to start query analytics", zap.Error(err))
	}

	// 9. Initialize Repositories
	userRepo := postgres.NewUserRepository(db, logger)
	bookingRepo := postgres.NewBookingRepository(db, logger)
	orderRepo := postgres.NewOrderRepository(db, logger)
	consultationRepo := postgres.NewConsultationRepository(db, logger)

	// 10. Speech provider (optional)
	var speechSynth ports.SpeechSynthesizer
	var audioLoader handlers.AudioLoader
	if cfg.Speech.Enabled && cfg.Speech.APIKey != "" {
		speechCfg := speech.Config{
			APIKey:   cfg.Speech.APIKey,
			BaseURL:  cfg.Speech.BaseURL,
			Model:    cfg.Speech.Model,
			Voice:    cfg.Speech.Voice,
			Speed:    cfg.Speech.Speed,
			AudioTTL: cfg.Speech.AudioTTL,
			Timeout:  cfg.Speech.Timeout,
		}
		audioStore := speech.NewAudioStore(store)
		speechSynth = speech.NewOpenAISynthesizer(speech.NewOpenAIClient(speechCfg), audioStore, speechCfg, logger)
		audioLoader = audioStore
	} else {
		logger.Warn("Speech synthesis disabled, responses will be text only")
	}

	// 11. Voice assistant
	assistant := voice.NewAssistant(
		voice.NewClassifier(),
		voice.NewAggregator(userRepo, bookingRepo, orderRepo, consultationRepo, cfg.Assistant.RecentLimit, time.Now, logger),
		voice.NewSynthesizer(voice.SynthesizerOptions{
			Location:       cfg.Location(),
			CurrencySymbol: cfg.Assistant.CurrencySymbol,
		}),
		speechSynth,
		messageQueue,
		domain.VoiceOptions{
			Voice:    cfg.Speech.Voice,
			Speed:    cfg.Speech.Speed,
			Language: cfg.Speech.Language,
		},
		logger,
	)

	// 12. Auth
	if cfg.JWT.Secret == "" {
		logger.Fatal("jwt.secret is required")
	}
	jwtService := auth.NewJWTService(cfg.JWT.Secret, auth.Options{
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
	}, store, logger)
	authRequired := middleware.AuthRequired(jwtService, logger)

	// 13. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}

	// Health and metrics stay outside the breaker
	healthService := health.NewService(&health.Config{
		Version: cfg.App.Version,
		DB:      sqlDB,
		Cache:   store,
		Queue:   messageQueue,
	}, logger)
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(cfg.CircuitBreaker, logger))
	}
	app.Use(middleware.RequestTimeout(cfg.Assistant.RequestTimeout))

	// API v1 Routes (protected)
	v1 := app.Group("/api/v1", authRequired)
	handlers.NewVoiceHandler(assistant, audioLoader, logger).RegisterRoutes(v1)
	analytics.NewHandler(queryAnalytics).RegisterRoutes(v1)

	// Voice streaming WebSocket
	voiceStreamHandler := wsAdapter.NewVoiceStreamHandler(assistant, cfg.Assistant.RequestTimeout, logger)
	wsAdapter.SetupVoiceRoutes(app, voiceStreamHandler, authRequired)

	// 14. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 15. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func loadVaultSecrets(cfg *config.Config, logger *zap.Logger) {
	sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token, vault.Paths{
		Speech: cfg.Vault.SpeechPath,
		JWT:    cfg.Vault.JWTPath,
	})
	if err != nil {
		logger.Fatal("Failed to initialize Vault client", zap.Error(err))
	}

	if key, err := sm.GetSpeechAPIKey(); err == nil {
		cfg.Speech.APIKey = key
	} else {
		logger.Warn("Speech API key not loaded from Vault", zap.Error(err))
	}
	if secret, err := sm.GetJWTSecret(); err == nil {
		cfg.JWT.Secret = secret
	} else {
		logger.Warn("JWT secret not loaded from Vault", zap.Error(err))
	}
}
