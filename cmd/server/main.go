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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/agenthands/linkage/internal/config"
	"github.com/agenthands/linkage/internal/core"
	"github.com/agenthands/linkage/internal/core/review"
	"github.com/agenthands/linkage/internal/driver"
	"github.com/agenthands/linkage/internal/llm"
	"github.com/agenthands/linkage/internal/logging"
	"github.com/agenthands/linkage/internal/server"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		logger.Debug("no .env file found, using environment")
	}
	if logging.ParseLevel(cfg.Log.Level) != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var source core.RecordSource
	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			logger.Error("failed to connect to memgraph", slog.Any("error", err))
			os.Exit(1)
		}
		defer d.Close(context.Background())
		source = driver.NewRecordStore(d, cfg.Memgraph.Limit)
	} else {
		logger.Warn("memgraph not configured, /check and scoped /cluster are unavailable")
	}

	var reviewer *review.Reviewer
	if cfg.Review.Enabled {
		client, err := llm.NewClient(ctx, cfg.LLM, llm.Options{System: review.System, JSON: true})
		if err != nil {
			logger.Error("failed to initialize llm client", slog.Any("error", err))
			os.Exit(1)
		}
		reviewer = review.NewReviewer(client, cfg.Review.Prompt)
		logger.Info("llm review enabled",
			slog.String("provider", cfg.LLM.Provider),
			slog.String("model", cfg.LLM.Model),
			slog.Float64("floor", cfg.Review.Floor),
		)
	}

	linker, err := core.NewLinker(cfg, source, reviewer, logger)
	if err != nil {
		logger.Error("failed to build linker", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.NewServer(linker, logger).SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", slog.String("port", cfg.Server.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// loadConfig reads CONFIG_PATH (default config/config.toml) when it exists,
// then applies environment overrides.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.toml"
	}

	cfg := config.Default()
	if _, err := os.Stat(path); err == nil {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if os.Getenv("CONFIG_PATH") != "" {
		return nil, err
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
