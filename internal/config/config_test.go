package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"KOMPASS_AI_API_KEY": "gsk-test",
	}
}

func TestLoadDefaultsForDevProfile(t *testing.T) {
	cfg, err := Load("kompass-api", mapLookup(baseEnv()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Auth.Required {
		t.Fatal("Auth.Required should default to false in dev")
	}
	if cfg.Database.Driver != DriverSQLServer {
		t.Fatalf("Database.Driver = %q", cfg.Database.Driver)
	}
	if cfg.Database.Port != 1433 {
		t.Fatalf("Database.Port = %d", cfg.Database.Port)
	}
	if cfg.AI.Model != "openai/gpt-oss-20b" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0 {
		t.Fatalf("AI.Temperature = %v", cfg.AI.Temperature)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	env := baseEnv()
	env["KOMPASS_PROFILE"] = "prod"
	cfg, err := Load("kompass-api", mapLookup(env))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required should default to true in prod")
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadRejectsInvalidProfile(t *testing.T) {
	env := baseEnv()
	env["KOMPASS_PROFILE"] = "staging"
	if _, err := Load("kompass-api", mapLookup(env)); err == nil {
		t.Fatal("Load() should reject unknown profile")
	}
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["KOMPASS_HTTP_ADDR"] = ":9090"
	env["KOMPASS_DB_DRIVER"] = "postgres"
	env["KOMPASS_DB_SERVER"] = "db.internal"
	env["KOMPASS_DB_PORT"] = "5432"
	env["KOMPASS_DB_NAME"] = "hr"
	env["KOMPASS_AI_MODEL"] = "llama-3.3-70b-versatile"
	env["KOMPASS_AI_TEMPERATURE"] = "0.2"
	env["KOMPASS_AI_TIMEOUT"] = "10s"
	env["KOMPASS_LOG_LEVEL"] = "error"

	cfg, err := Load("kompass-api", mapLookup(env))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Address != ":9090" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Database.Driver != DriverPostgres || cfg.Database.Server != "db.internal" || cfg.Database.Port != 5432 {
		t.Fatalf("Database = %+v", cfg.Database)
	}
	if cfg.AI.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.2 {
		t.Fatalf("AI.Temperature = %v", cfg.AI.Temperature)
	}
	if cfg.AI.Timeout != 10*time.Second {
		t.Fatalf("AI.Timeout = %v", cfg.AI.Timeout)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadRequiresAPIKey(t *testing.T) {
	_, err := Load("kompass-api", mapLookup(map[string]string{}))
	if err == nil {
		t.Fatal("Load() should fail without an AI api key")
	}
	if !strings.Contains(err.Error(), "KOMPASS_AI_API_KEY") {
		t.Fatalf("error should name the missing variable, got %v", err)
	}
}

func TestLoadAcceptsUpstreamKeyName(t *testing.T) {
	cfg, err := Load("kompass-api", mapLookup(map[string]string{"GROQ_API_KEY": "gsk-legacy"}))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.APIKey != "gsk-legacy" {
		t.Fatalf("AI.APIKey = %q", cfg.AI.APIKey)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	env := baseEnv()
	env["KOMPASS_DB_DRIVER"] = "oracle"
	if _, err := Load("kompass-api", mapLookup(env)); err == nil {
		t.Fatal("Load() should reject unknown database driver")
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	cases := map[string]string{
		"KOMPASS_DB_PORT":        "not-a-number",
		"KOMPASS_AI_TEMPERATURE": "warm",
		"KOMPASS_AI_TIMEOUT":     "soon",
		"KOMPASS_AUTH_REQUIRED":  "maybe",
		"KOMPASS_LOG_LEVEL":      "loud",
	}
	for key, value := range cases {
		env := baseEnv()
		env[key] = value
		if _, err := Load("kompass-api", mapLookup(env)); err == nil {
			t.Fatalf("Load() should reject %s=%q", key, value)
		}
	}
}
