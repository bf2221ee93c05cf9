package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kompasshr/kompasshr/internal/cli/kompassctl"
)

func main() {
	timeout := parseDurationWithDefault(strings.TrimSpace(os.Getenv("KOMPASS_CLI_TIMEOUT")), 30*time.Second)
	options := kompassctl.Options{
		BaseURL: envOr("KOMPASS_API_URL", "http://localhost:8080"),
		APIKey:  strings.TrimSpace(os.Getenv("KOMPASS_API_KEY")),
		Timeout: timeout,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	code := kompassctl.Run(context.Background(), os.Args[1:], options)
	os.Exit(code)
}

func envOr(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func parseDurationWithDefault(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "invalid KOMPASS_CLI_TIMEOUT %q; using %s\n", raw, fallback)
		return fallback
	}
	return parsed
}
