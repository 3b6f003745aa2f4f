package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"legalaid/internal/api"
	"legalaid/internal/config"
	"legalaid/internal/database"
	"legalaid/internal/llm"
	"legalaid/internal/repository"
	"legalaid/internal/service"
)

const (
	ollamaRetryInterval = 3 * time.Second
	ollamaMaxAttempts   = 20
	shutdownTimeout     = 10 * time.Second
)

// App holds the long-lived pieces of the proxy server.
type App struct {
	DB       *sql.DB
	Server   *http.Server
	Provider llm.Provider
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(os.Stdout, cfg.LogLevel)

	logConfigSource(cfg.ConfigFile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer app.Close()

	if pinger, ok := app.Provider.(interface{ Ping(context.Context) error }); ok {
		if err := waitForOllama(ctx, pinger, ollamaRetryInterval, ollamaMaxAttempts); err != nil {
			slog.Error("Ollama never became ready", "url", cfg.OllamaURL, "error", err)
			return 1
		}
	}
	if cfg.LLMProvider == config.ProviderGemini && cfg.APIKey == "" {
		slog.Warn("API_KEY is not set; chat requests will fail until it is provided")
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort, "provider", app.Provider.Name())
		errCh <- app.Server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
	case <-ctx.Done():
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			return 1
		}
	}

	return 0
}

// NewApp opens the ledger database and wires the provider, service and
// router into an unstarted server.
func NewApp(cfg *config.Config) (*App, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)

	return newApp(cfg, db, provider), nil
}

func newApp(cfg *config.Config, db *sql.DB, provider llm.Provider) *App {
	repo := repository.NewSQLiteRepository(db)
	chatService := service.NewChatService(repo, provider)
	chatHandler := api.NewChatHandler(chatService)

	var limiter *api.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	router := api.NewRouter(chatHandler, api.RouterOptions{
		AllowedOrigin: cfg.AllowedOrigin,
		Limiter:       limiter,
		TrustProxy:    cfg.TrustProxy,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{DB: db, Server: server, Provider: provider}
}

// Close releases the provider and the database.
func (a *App) Close() {
	if c, ok := a.Provider.(io.Closer); ok {
		if err := c.Close(); err != nil {
			slog.Error("Failed to close model provider", "error", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		slog.Error("Failed to close database connection", "error", err)
	}
}

func newProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case config.ProviderOllama:
		return llm.NewOllamaProvider(cfg.OllamaURL, cfg.OllamaModel), nil
	case config.ProviderGemini, "":
		return llm.NewGeminiProvider(cfg.APIKey, cfg.GeminiModel), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

func logConfigSource(configFileUsed string) {
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func parseLevel(logLevel string) slog.Level {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogger(w io.Writer, logLevel string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	}))
	slog.SetDefault(logger)
	return logger
}

func waitForOllama(ctx context.Context, pinger interface{ Ping(context.Context) error }, interval time.Duration, attempts int) error {
	slog.Info("Waiting for Ollama to be ready...")
	var err error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = pinger.Ping(pingCtx)
		cancel()
		if err == nil {
			slog.Info("Ollama is ready.")
			return nil
		}
		slog.Debug("Ollama not ready yet, retrying...", "interval", interval, "error", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return err
}
