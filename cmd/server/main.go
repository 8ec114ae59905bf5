package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"saved-jobs-go/internal/auth"
	"saved-jobs-go/internal/config"
	"saved-jobs-go/internal/handler"
	"saved-jobs-go/internal/middleware"
	"saved-jobs-go/internal/page"
	"saved-jobs-go/internal/storage"
	"saved-jobs-go/pkg/httpclient"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Setup logging
	logger, logFile, err := setupLogging(cfg.Monitoring.LogFile, cfg.Monitoring.LogLevel)
	if err != nil {
		log.Fatalf("Failed to setup logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	provider, err := newAuthProvider(cfg)
	if err != nil {
		logger.Error("failed to initialize auth", slog.String("error", err.Error()))
		os.Exit(1)
	}

	renderer, err := page.NewRenderer()
	if err != nil {
		logger.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := handler.NewRouter(handler.Config{
		Store:           store,
		Auth:            provider,
		Renderer:        renderer,
		Logger:          logger,
		Navigator:       page.RedirectNavigator{BaseURL: strings.TrimRight(cfg.Server.JobsBaseURL, "/")},
		RateLimiter:     middleware.NewRateLimiter(),
		UnsaveRateLimit: cfg.Server.UnsaveRateLimit,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      h2c.NewHandler(router, &http2.Server{}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting saved jobs server",
			slog.Int("port", cfg.Server.Port),
			slog.String("backend", cfg.Database.Backend),
			slog.String("auth", cfg.Auth.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for shutdown signal
	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.String("error", err.Error()))
	}

	logger.Info("saved jobs server shutdown complete")
}

func configPath() string {
	if path := os.Getenv("SAVEDJOBS_CONFIG"); path != "" {
		return path
	}
	return "config.json"
}

// newStore builds the saved-job backend selected in the configuration.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Database.Backend {
	case config.BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		return storage.OpenSQLite(ctx, cfg.Database.SQLitePath)
	case config.BackendRemote:
		client := httpclient.NewHttpClient(cfg.Client.RequestTimeout)
		opts := []storage.RemoteOption{storage.WithBearerToken(auth.TokenFromContext)}
		if cfg.Auth.Provider == config.AuthHeader {
			opts = append(opts, storage.WithUserHeader(cfg.Auth.UserHeader))
		}
		return storage.NewRemoteStore(client, cfg.Database.RemoteURL, opts...), nil
	default:
		return storage.NewSupabaseStore(cfg.Database.SupabaseURL, cfg.Database.SupabaseKey)
	}
}

func newAuthProvider(cfg *config.Config) (auth.Provider, error) {
	if cfg.Auth.Provider == config.AuthHeader {
		return auth.HeaderProvider{Header: cfg.Auth.UserHeader}, nil
	}
	client, err := storage.NewSupabaseClient(cfg.Database.SupabaseURL, cfg.Database.SupabaseKey)
	if err != nil {
		return nil, err
	}
	return auth.NewSupabaseProvider(client, cfg.Auth.CookieName), nil
}

// setupLogging configures a JSON slog logger writing to the log file or stdout.
func setupLogging(logFile, logLevel string) (*slog.Logger, *os.File, error) {
	var out io.Writer = os.Stdout
	var file *os.File

	if logFile != "" {
		// Ensure log directory exists
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		var err error
		file, err = os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = file
	}

	h := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: parseLevel(logLevel)})
	return slog.New(h).With(slog.String("service", "saved-jobs")), file, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
