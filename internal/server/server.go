// Package server assembles the Fiber application: middleware, routes,
// top-level error handling, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/Zeldorh1/omnitint-edge/internal/api"
	"github.com/Zeldorh1/omnitint-edge/internal/config"
	"github.com/Zeldorh1/omnitint-edge/internal/models"
	"github.com/Zeldorh1/omnitint-edge/internal/services/auth"
	"github.com/Zeldorh1/omnitint-edge/internal/services/fallback"
	"github.com/Zeldorh1/omnitint-edge/internal/services/ingest"
	"github.com/Zeldorh1/omnitint-edge/internal/services/providers"
	"github.com/Zeldorh1/omnitint-edge/internal/services/ratelimit"
	"github.com/Zeldorh1/omnitint-edge/internal/services/store"
	"github.com/Zeldorh1/omnitint-edge/internal/services/trends"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the injectable collaborators of the app. Tests swap
// in the memory store and stub providers; Run wires the real ones.
type Dependencies struct {
	Store    store.KV
	Identity auth.IdentityProvider
	Chain    []providers.Completer
	Pinger   api.Pinger
}

// Run starts the server with production dependencies and blocks until
// shutdown.
func Run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	setupLogLevel(cfg)

	ctx := context.Background()

	redisStore, err := store.NewRedisStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisStore.Close(); err != nil {
			fiberlog.Errorf("failed to close store: %v", err)
		}
	}()

	chain, err := providers.BuildChain(ctx, cfg.Providers, cfg.Chat)
	if err != nil {
		return fmt.Errorf("failed to build provider chain: %w", err)
	}

	var identity auth.IdentityProvider = auth.NewHeaderIdentityProvider(cfg.Auth)
	if cfg.Auth.JWTSecret != "" {
		identity = auth.NewJWTIdentityProvider(cfg.Auth.JWTSecret, identity)
	}

	app := NewApp(cfg, Dependencies{
		Store:    redisStore,
		Identity: identity,
		Chain:    chain,
		Pinger:   redisStore,
	})

	port := cfg.Server.Port
	if port == "" {
		port = "8080"
	}
	listenAddr := ":" + port

	fmt.Printf("%s starting on %s\n", cfg.Server.WorkerName, listenAddr)
	fmt.Printf("   Environment: %s\n", cfg.Server.Environment)
	fmt.Printf("   Go version: %s\n", runtime.Version())

	// Graceful shutdown handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Listen(listenAddr)
	}()

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
		fiberlog.Info("shutdown signal received, draining connections")
		return app.ShutdownWithTimeout(10 * time.Second)
	}
}

// NewApp builds the Fiber application with the given dependencies.
func NewApp(cfg *config.Config, deps Dependencies) *fiber.App {
	isProd := strings.EqualFold(cfg.Server.Environment, "production")

	app := fiber.New(fiber.Config{
		AppName:           cfg.Server.WorkerName,
		EnablePrintRoutes: !isProd,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       5 * time.Minute,
		ErrorHandler:      errorHandler,
	})

	setupMiddleware(app, cfg, isProd)
	setupRoutes(app, cfg, deps)

	return app
}

func setupMiddleware(app *fiber.App, cfg *config.Config, isProd bool) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !isProd,
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	if isProd {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency} ${bytesSent}b\n",
			Output: os.Stdout,
		}))
	} else {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path} ${error}\n",
			Output: os.Stdout,
		}))
	}

	allowedOrigins := cfg.Server.AllowedOrigins
	if allowedOrigins == "" {
		allowedOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: "GET, POST, OPTIONS",
		AllowHeaders: strings.Join([]string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-User-Id", "X-Device-Id", "X-Tier", "X-Request-ID",
		}, ", "),
		MaxAge:        86400,
		ExposeHeaders: "Content-Length, Content-Type, X-Request-ID",
	}))
}

func setupRoutes(app *fiber.App, cfg *config.Config, deps Dependencies) {
	limiter := ratelimit.NewLimiter(deps.Store, cfg.Limits)
	dispatch := fallback.NewService(deps.Chain)
	ingestSvc := ingest.NewService(deps.Store, cfg.Ingest)
	trendsSvc := trends.NewService(deps.Store, cfg.Trends)

	healthHandler := api.NewHealthHandler(cfg, deps.Pinger)
	chatHandler := api.NewChatHandler(deps.Identity, limiter, dispatch)
	syncHandler := api.NewSyncHandler(ingestSvc)
	trendsHandler := api.NewTrendsHandler(trendsSvc)

	app.Get("/", healthHandler.Info)
	app.Get("/health", healthHandler.HealthCheck)
	app.Post("/chat", chatHandler.Chat)
	app.Post("/sync", syncHandler.Sync)
	app.Get("/trends", trendsHandler.Trends)

	// Unknown routes
	app.Use(func(c *fiber.Ctx) error {
		return models.NewNotFoundError(c.Path())
	})
}

// errorHandler converts any error escaping a handler into the JSON
// error envelope. No raw exception ever reaches a client.
func errorHandler(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if appErr.Type == models.ErrorTypeInternal {
			fiberlog.Errorf("internal error on %s %s: %v", c.Method(), c.Path(), err)
		}
		sanitized := models.SanitizeError(appErr)
		return c.Status(sanitized.GetStatusCode()).JSON(fiber.Map{
			"ok":      false,
			"error":   sanitized.Code,
			"message": sanitized.Message,
		})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := models.CodeInternal
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			code = models.CodeNotFound
		case fiber.StatusBadRequest:
			code = models.CodeBadRequest
		case fiber.StatusUnauthorized:
			code = models.CodeUnauthorized
		}
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"ok":      false,
			"error":   code,
			"message": fiberErr.Message,
		})
	}

	fiberlog.Errorf("unexpected error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"ok":      false,
		"error":   models.CodeInternal,
		"message": "an unexpected error occurred",
	})
}

func setupLogLevel(cfg *config.Config) {
	switch strings.ToLower(cfg.Server.LogLevel) {
	case "debug":
		fiberlog.SetLevel(fiberlog.LevelDebug)
	case "warn":
		fiberlog.SetLevel(fiberlog.LevelWarn)
	case "error":
		fiberlog.SetLevel(fiberlog.LevelError)
	default:
		fiberlog.SetLevel(fiberlog.LevelInfo)
	}
}
