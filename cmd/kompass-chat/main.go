package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kompasshr/kompasshr/internal/chat"
	"github.com/kompasshr/kompasshr/internal/config"
	"github.com/kompasshr/kompasshr/internal/llm"
	"github.com/kompasshr/kompasshr/internal/observability"
	"github.com/kompasshr/kompasshr/internal/pipeline"
	"github.com/kompasshr/kompasshr/internal/schema"
	"github.com/kompasshr/kompasshr/internal/store"
)

func main() {
	showSQL := flag.Bool("show-sql", false, "print the generated SQL before each answer")
	noTyping := flag.Bool("no-typing", false, "print answers at once instead of word by word")
	flag.Parse()

	cfg, err := config.LoadFromEnv("kompass-chat")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stderr)
	db, err := store.Open(context.Background(), cfg.Database)
	if err != nil {
		logger.Error("failed to open hr database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

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

	session := &chat.Session{
		Pipeline: &pipeline.Service{
			Schema:      schema.NewDescriber(db),
			Completer:   completer,
			Runner:      store.NewExecutor(db),
			Logger:      logger,
			Temperature: cfg.AI.Temperature,
		},
		In:          os.Stdin,
		Out:         os.Stdout,
		ShowSQL:     *showSQL,
		TypingDelay: 40 * time.Millisecond,
	}
	if *noTyping {
		session.TypingDelay = 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("chat session failed", slog.Any("error", err))
		os.Exit(1)
	}
}
