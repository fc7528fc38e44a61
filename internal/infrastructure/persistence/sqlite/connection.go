package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// DBConfig holds SQLite database configuration.
type DBConfig struct {
	DSN             string        // Database file path, optionally with query parameters
	MaxOpenConns    int           // Maximum open connections (default: 4)
	ConnMaxLifetime time.Duration // Connection max lifetime (default: unlimited)
	ConnMaxIdleTime time.Duration // Connection max idle time (default: unlimited)
	AutoMigrate     bool          // Apply embedded migrations after opening
}

// pragmas are applied to every connection. Foreign keys are off by default in SQLite.
var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

// NewStoreWithConfig opens the database file and returns a store.
func NewStoreWithConfig(ctx context.Context, cfg DBConfig) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(cfg.DSN))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	maxOpenConns := cfg.MaxOpenConns
	if maxOpenConns <= 0 {
		maxOpenConns = 4
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := runMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return NewStore(db), nil
}

// withPragmas appends the connection pragmas to dsn in the driver's _pragma form.
func withPragmas(dsn string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + q.Encode()
}

// runMigrations applies the embedded migrations with goose.
func runMigrations(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	for _, r := range results {
		slog.DebugContext(ctx, "Applied migration", "version", r.Source.Version, "duration", r.Duration)
	}
	return nil
}
