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

	"github.com/kompasshr/kompasshr/internal/api"
	"github.com/kompasshr/kompasshr/internal/auth"
	"github.com/kompasshr/kompasshr/internal/config"
	"github.com/kompasshr/kompasshr/internal/llm"
	"github.com/kompasshr/kompasshr/internal/observability"
	"github.com/kompasshr/kompasshr/internal/pipeline"
	"github.com/kompasshr/kompasshr/internal/schema"
	"github.com/kompasshr/kompasshr/internal/store"
)

func main() {
	cfg, err := config.LoadFromEnv("kompass-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	db, err := store.Open(context.Background(), cfg.Database)
	if err != nil {
		logger.Error("failed to open hr database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	executor := store.NewExecutor(db)
	describer := schema.NewDescriber(db)
	completer, err := llm.NewChatClient(llm.Config{
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize completion client", slog.Any("error", err))
		os.Exit(1)
	}

	answerer := &pipeline.Service{
		Schema:      describer,
		Completer:   completer,
		Runner:      executor,
		Logger:      logger,
		Temperature: cfg.AI.Temperature,
	}

	deps := api.Dependencies{
		Logger:            logger,
		Pipeline:          answerer,
		Schema:            describer,
		Readiness:         api.CombineReadinessChecks(executor.HealthCheck),
		DependencyTimeout: time.Second,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}
