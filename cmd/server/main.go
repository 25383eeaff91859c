package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/imaginify/imaginify/internal/clerk"
	"github.com/imaginify/imaginify/internal/config"
	"github.com/imaginify/imaginify/internal/database"
	"github.com/imaginify/imaginify/internal/handlers"
	"github.com/imaginify/imaginify/internal/logger"
	"github.com/imaginify/imaginify/internal/middleware"
	"github.com/imaginify/imaginify/internal/services/images"
	"github.com/imaginify/imaginify/internal/telemetry"
	"github.com/imaginify/imaginify/internal/web"
)

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load .env for local development; real deployments set the environment
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("image_model", cfg.ImageModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider *sdktrace.TracerProvider
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.Setup(context.Background(), cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := telemetry.Shutdown(shutdownCtx, tracerProvider); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// The database handle dials lazily on first use, so construction never
	// fails and the server boots even when Mongo is briefly unreachable
	db := database.New(cfg.MongoURI, cfg.MongoDatabase)
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := db.Close(closeCtx); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()

	usersRepo := database.NewUserRepository(db)

	// Best effort at boot; the unique index is retried by the admin CLI
	// when Mongo was down at startup
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := usersRepo.EnsureIndexes(indexCtx); err != nil {
		zapLogger.Warn("failed_to_ensure_indexes", zap.Error(err))
	} else {
		zapLogger.Info("database_indexes_ensured")
	}
	indexCancel()

	// Webhook signature verification
	var verifier clerk.Verifier
	if cfg.WebhookSecret != "" {
		v, err := clerk.NewSvixVerifier(cfg.WebhookSecret)
		if err != nil {
			zapLogger.Fatal("invalid_webhook_secret", zap.Error(err))
		}
		verifier = v
	} else {
		zapLogger.Warn("webhook_secret_not_configured")
	}

	// Clerk metadata sync is optional; without a secret key the webhook
	// still persists users, it just skips the metadata write-back
	var metadataUpdater clerk.MetadataUpdater
	if cfg.ClerkSecretKey != "" {
		metadataUpdater = clerk.NewAPIMetadataUpdater(cfg.ClerkSecretKey)
	} else {
		zapLogger.Warn("clerk_secret_key_not_configured_metadata_sync_disabled")
	}

	// Image generation provider
	var imageProvider images.Provider
	if cfg.OpenAIKey != "" {
		imageProvider = images.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.ImageModel, zapLogger)
	} else {
		zapLogger.Warn("openai_key_not_configured_image_generation_disabled")
	}

	// Initialize handlers
	webhookHandler := handlers.NewWebhookHandler(cfg.WebhookSecret, db, usersRepo, verifier, metadataUpdater, zapLogger)
	imagesHandler := handlers.NewImagesHandler(imageProvider, zapLogger)
	healthChecker := handlers.NewHealthChecker(db)

	// Setup router
	r := mux.NewRouter()

	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware(telemetry.ServiceName))
		zapLogger.Info("otel_middleware_enabled")
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	allowedOrigins := []string{"*"}
	if cfg.FrontendURL != "" {
		allowedOrigins = []string{cfg.FrontendURL}
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}).Handler)
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(zapLogger))

	// Rate limiting via Redis is optional and applied to the image
	// endpoint only; webhook deliveries must never be throttled
	var rateLimitMW func(http.Handler) http.Handler
	if cfg.RedisURL != "" {
		redisClient, err := middleware.NewRedisClient(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
			}
		}()
		rateLimitMW, err = middleware.RateLimit(redisClient, cfg.RateLimit)
		if err != nil {
			zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
		}
		zapLogger.Info("connected_to_redis")
	}

	// Health checks stay outside rate limiting
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")

	// Clerk webhook deliveries
	webhookHandler.RegisterRoutes(r)

	// Image generation API, JSON-only and rate limited when Redis is configured
	imagesRouter := r.PathPrefix("/api/v1/images").Subrouter()
	imagesRouter.Use(middleware.ContentType)
	if rateLimitMW != nil {
		imagesRouter.Use(rateLimitMW)
	}
	imagesHandler.RegisterRoutes(imagesRouter)

	// Embedded generator page
	web.RegisterRoutes(r)

	// Setup server
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   60 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}
