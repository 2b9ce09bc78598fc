package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"menu-service/internal/common/errors"
)

// Querier is the subset of *sql.Tx the repository needs
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Session is one unit of work: a single transaction that is rolled back on
// Close unless Commit succeeded first. A Session is not safe for concurrent use.
type Session struct {
	tx        *sql.Tx
	committed bool
	closed    bool
}

// Begin opens a new session
func (db *DB) Begin(ctx context.Context) (*Session, error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.BackendUnavailableError("database", fmt.Errorf("begin transaction: %w", err))
	}
	return &Session{tx: tx}, nil
}

// Commit makes the session's writes durable. The session is finished afterwards.
func (s *Session) Commit() error {
	if s.closed {
		return errors.InternalError("commit on a closed session", nil)
	}
	s.closed = true
	if err := s.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.committed = true
	return nil
}

// Close rolls back unless the session was committed. Calling it again is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.tx.Rollback(); err != nil && !stderrors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// Committed reports whether Commit succeeded
func (s *Session) Committed() bool {
	return s.committed
}

func (s *Session) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.tx.ExecContext(ctx, query, args...)
}

func (s *Session) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.tx.QueryContext(ctx, query, args...)
}

func (s *Session) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.tx.QueryRowContext(ctx, query, args...)
}

// WithSession runs fn inside a new session and always closes it, including
// when fn panics. fn must call Commit itself for writes to persist.
func WithSession(ctx context.Context, db *DB, fn func(s *Session) error) (err error) {
	s, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = s.Close()
			panic(p)
		}
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
