package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/benvon/simple-todo/internal/config"
	"github.com/benvon/simple-todo/internal/database"
	"github.com/benvon/simple-todo/internal/events"
	"github.com/benvon/simple-todo/internal/handlers"
	"github.com/benvon/simple-todo/internal/logger"
	"github.com/benvon/simple-todo/internal/middleware"
	"github.com/benvon/simple-todo/internal/server"
	"github.com/benvon/simple-todo/internal/services/todo"
	"github.com/benvon/simple-todo/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const configReloadInterval = time.Minute

func main() {
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.Bool("events_enabled", cfg.EventsEnabled()),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracingEnabled := false
	if cfg.OTELEnabled {
		tp, err := telemetry.InitTracer(ctx, telemetry.Config{
			ServiceName:    telemetry.DefaultServiceName,
			ServiceVersion: server.Version,
			Endpoint:       cfg.OTELEndpoint,
		})
		if err != nil {
			zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
		} else {
			tracingEnabled = true
			zapLogger.Info("otel_tracer_initialized", zap.String("endpoint", cfg.OTELEndpoint))
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(shutdownCtx, tp); err != nil {
					zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
				}
			}()
		}
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database", zap.String("dialect", string(db.Dialect())))

	if cfg.MigrateOnStart {
		applied, err := db.Migrate(ctx)
		if err != nil {
			zapLogger.Fatal("failed_to_migrate_database", zap.Error(err))
		}
		zapLogger.Info("database_migrated", zap.Int("applied", applied))
	}

	// Redis is optional; without it the rate limit is enforced per instance
	var redisClient *redis.Client
	var redisCheck handlers.CheckFunc
	if cfg.RedisURL != "" {
		redisClient, err = middleware.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		redisCheck = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		zapLogger.Info("connected_to_redis")
	}

	limiterStore, err := middleware.NewLimiterStore(redisClient)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limit_store", zap.Error(err))
	}

	var publisher events.Publisher = events.NoopPublisher{}
	var rabbitCheck handlers.CheckFunc
	if cfg.EventsEnabled() {
		bus, err := events.DialWithRetry(ctx, cfg.RabbitMQURL, events.DefaultRetryPolicy, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries", zap.Error(err))
		}
		defer func() {
			if err := bus.Close(); err != nil {
				zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
			}
		}()
		publisher = bus
		rabbitCheck = bus.HealthCheck
	}

	todoRepo := database.NewTodoRepository(db)
	corsReloader := middleware.NewCORSReloader(database.NewCorsConfigRepository(db), cfg.FrontendURL, zapLogger, configReloadInterval)
	rateLimitReloader := middleware.NewRateLimitReloader(limiterStore, database.NewRatelimitConfigRepository(db), cfg.RateLimit, zapLogger, configReloadInterval)

	router := server.NewRouter(server.Options{
		Logger:    zapLogger,
		DB:        db,
		Todos:     todo.NewService(todoRepo, publisher, zapLogger),
		CORS:      corsReloader,
		RateLimit: rateLimitReloader,
		HealthChecks: []handlers.HealthOption{
			handlers.WithCheck("redis", redisCheck),
			handlers.WithCheck("rabbitmq", rabbitCheck),
		},
		EnableHSTS:      cfg.EnableHSTS,
		EnableTracing:   tracingEnabled,
		MaxRequestBytes: cfg.MaxRequestBytes,
		RequestTimeout:  cfg.RequestTimeout,
	})

	go corsReloader.Start(ctx)
	go rateLimitReloader.Start(ctx)

	srv := server.NewHTTPServer(cfg.ServerPort, router)
	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
			zap.Strings("cors_origins", corsReloader.AllowedOrigins()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		zapLogger.Info("server_shutting_down")
	case err := <-serverErr:
		zapLogger.Error("server_failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
