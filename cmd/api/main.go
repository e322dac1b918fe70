package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	httpAdapter "github.com/asahq/jira-analytics-backend/internal/adapters/primary/http"
	mw "github.com/asahq/jira-analytics-backend/internal/adapters/primary/http/middleware"
	"github.com/asahq/jira-analytics-backend/internal/adapters/primary/web"
	"github.com/asahq/jira-analytics-backend/internal/adapters/secondary/databricks"
	"github.com/asahq/jira-analytics-backend/internal/adapters/secondary/jira"
	"github.com/asahq/jira-analytics-backend/internal/auth"
	"github.com/asahq/jira-analytics-backend/internal/config"
	"github.com/asahq/jira-analytics-backend/internal/core/services"
	"github.com/asahq/jira-analytics-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Initialize Jira Client
	jiraClient := jira.NewClient(jira.Config{
		BaseURL:          cfg.Jira.BaseURL,
		Email:            cfg.Jira.Email,
		APIToken:         cfg.Jira.APIToken,
		ProjectPrefix:    cfg.Jira.ProjectPrefix,
		StoryPointsField: cfg.Jira.StoryPointsField,
		PageSize:         cfg.Jira.PageSize,
		Timeout:          cfg.Jira.RequestTimeout,
	}, logger)

	// Probe the credentials once at startup. A failure is not fatal: the
	// error also surfaces on every fetch, and credentials can be fixed
	// upstream without restarting.
	verifyCtx, cancelVerify := context.WithTimeout(context.Background(), cfg.Jira.RequestTimeout)
	if err := jiraClient.Verify(verifyCtx); err != nil {
		logger.Warn("jira credential check failed", "error", err)
	} else {
		logger.Info("jira connection established", "base_url", cfg.Jira.BaseURL)
	}
	cancelVerify()

	// 4. Initialize Security Components
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	// 5. Initialize Rate Limiters
	var generalRateLimiter, authRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		authRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.AuthRPS,
			BurstSize:         cfg.RateLimit.AuthBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 6. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Exporter (Secondary Adapter)
	exporter := databricks.NewExporter(databricks.Config{
		Enabled: cfg.Export.Enabled,
		Host:    cfg.Export.Host,
		Token:   cfg.Export.Token,
	}, logger)

	// Services (Core)
	analyticsService := services.NewAnalyticsService()
	reportService := services.NewReportService(jiraClient, analyticsService, logger)

	// Handlers (Primary Adapters)
	authHandler := httpAdapter.NewAuthHandler(
		cfg.Auth.AccessKey,
		int64(cfg.Auth.AccessTokenTTL.Seconds()),
		tokenManager,
		errorHandler,
		logger,
	)
	reportHandler := httpAdapter.NewReportHandler(reportService, errorHandler, logger)
	exportHandler := httpAdapter.NewExportHandler(reportService, exporter, errorHandler, logger)
	healthHandler := httpAdapter.NewHealthHandler(jiraClient, cfg.App.Version)

	// 7. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))

	if len(cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if authRateLimiter != nil {
				r.Use(authRateLimiter.Middleware)
			}
			r.Route("/auth", authHandler.RegisterRoutes)
		})

		// Protected REST routes
		r.Group(func(r chi.Router) {
			r.Use(mw.JWTMiddleware(tokenManager))
			reportHandler.RegisterRoutes(r)
			exportHandler.RegisterRoutes(r)
		})
	})

	// Embedded dashboard
	r.Handle("/*", web.Handler())

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
