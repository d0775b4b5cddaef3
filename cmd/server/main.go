package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/casetrackapp/backend/internal/auth"
	"github.com/casetrackapp/backend/internal/config"
	"github.com/casetrackapp/backend/internal/database"
	"github.com/casetrackapp/backend/internal/handlers"
	"github.com/casetrackapp/backend/internal/logging"
	"github.com/casetrackapp/backend/internal/middleware"
	"github.com/casetrackapp/backend/internal/routes"
	"github.com/casetrackapp/backend/internal/services"
	"github.com/casetrackapp/backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}
	if cfg.JWTAccessExpiry > 24*time.Hour {
		// The revocation model relies on tokens_valid_from, not per-token
		// state; long-lived access tokens widen the invalidation gap.
		slog.Warn("JWT_ACCESS_EXPIRY is unusually long for an access token", "expiry", cfg.JWTAccessExpiry.String())
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, 30, cleanupDone)

	// Auth core
	userStore := store.NewUserStore(database.DB)
	tokenStore := store.NewTokenStore(database.DB)
	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry, tokenStore)
	if err != nil {
		slog.Error("token issuer init failed", "error", err)
		os.Exit(1)
	}
	validator, err := auth.NewValidator(cfg.JWTSecret, userStore)
	if err != nil {
		slog.Error("token validator init failed", "error", err)
		os.Exit(1)
	}
	authService := auth.NewService(userStore, tokenStore, issuer)

	// Resource services
	featureService := services.NewFeatureService(database.DB)
	caseService := services.NewCaseService(database.DB)
	commentService := services.NewCommentService(database.DB)
	approvalService := services.NewApprovalService(database.DB)
	attachmentService := services.NewAttachmentService(database.DB, cfg.UploadDir)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler()
	featureHandler := handlers.NewFeatureHandler(featureService)
	caseHandler := handlers.NewCaseHandler(caseService)
	commentHandler := handlers.NewCommentHandler(commentService)
	approvalHandler := handlers.NewApprovalHandler(approvalService)
	attachmentHandler := handlers.NewAttachmentHandler(attachmentService, cfg.MaxUploadSize)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxUploadSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, validator, authHandler, healthHandler, featureHandler, caseHandler, commentHandler, approvalHandler, attachmentHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
