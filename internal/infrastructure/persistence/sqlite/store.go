package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/rezkam/cadence/internal/application/reminder"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store provides a SQLite implementation of reminder.Repository for
// development and single-node installs.
type Store struct {
	db   *sql.DB
	conn dbtx
}

var _ reminder.Repository = (*Store)(nil)

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, conn: db}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return wrapErr(s.db.PingContext(ctx))
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Atomic executes fn within a transaction, committing when fn returns nil.
func (s *Store) Atomic(ctx context.Context, fn func(tx reminder.Repository) error) (err error) {
	if _, inTx := s.conn.(*sql.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", wrapErr(err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.ErrorContext(ctx, "rollback failed",
					"original_error", err,
					"rollback_error", rbErr)
			}
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", wrapErr(commitErr))
		}
	}()

	return fn(&Store{db: s.db, conn: tx})
}
