package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/qualifier/internal/answer"
	"github.com/efreitasn/qualifier/internal/config"
	"github.com/efreitasn/qualifier/internal/handler"
	"github.com/efreitasn/qualifier/internal/service"
	"github.com/efreitasn/qualifier/internal/store"
	"github.com/efreitasn/qualifier/internal/transport"
)

const userAgent = "qualifier/1.0"

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "Path to YAML configuration file")
	once := flag.Bool("once", false, "Exit after the qualifier flow instead of serving run status")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil {
			os.Exit(1)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration. Missing identity or endpoint settings stop the
	// process here, before any outbound call.
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	runStore := store.NewRunStore()
	client := transport.New(cfg.HTTPTimeout, userAgent)
	qualifierSvc := service.NewQualifierService(
		cfg.Identity(),
		cfg.WebhookURL(),
		answer.NewTable(cfg.EvenAnswer, cfg.OddAnswer),
		client,
		runStore,
		logger,
	)

	// SIGINT/SIGTERM cancel ctx, aborting any outbound call in flight.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		service.Trigger(ctx, qualifierSvc, logger)
		return
	}

	router := handler.NewRouter(runStore, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Run the flow once; its outcome is logged and exposed on /runs/latest.
	service.Trigger(ctx, qualifierSvc, logger)

	// Wait for SIGINT/SIGTERM.
	<-ctx.Done()
	stop()
	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
