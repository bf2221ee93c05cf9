// Package store owns the database connection and the read-only query
// executor. Statements reach Run only after passing the SQL gate.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"

	"github.com/kompasshr/kompasshr/internal/config"
)

func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	driverName, dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

func buildDSN(cfg config.DatabaseConfig) (driverName string, dsn string, err error) {
	if cfg.Server == "" {
		return "", "", fmt.Errorf("database server is required")
	}
	if cfg.Name == "" {
		return "", "", fmt.Errorf("database name is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return "", "", fmt.Errorf("database port %d is invalid", cfg.Port)
	}

	switch cfg.Driver {
	case config.DriverSQLServer:
		u := &url.URL{
			Scheme: "sqlserver",
			Host:   fmt.Sprintf("%s:%d", cfg.Server, cfg.Port),
		}
		if cfg.User != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		}
		q := url.Values{}
		q.Set("database", cfg.Name)
		u.RawQuery = q.Encode()
		return "sqlserver", u.String(), nil

	case config.DriverPostgres:
		u := &url.URL{
			Scheme: "postgres",
			Host:   fmt.Sprintf("%s:%d", cfg.Server, cfg.Port),
			Path:   "/" + cfg.Name,
		}
		if cfg.User != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		}
		return "pgx", u.String(), nil

	default:
		return "", "", fmt.Errorf("unsupported driver: %q", cfg.Driver)
	}
}
