package bookdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/bookseed/pkg/types"
)

// MemoryURL selects a private in-memory SQLite database.
const MemoryURL = ":memory:"

// Backend runs every statement of a session on one pinned connection.
// A Backend is not safe for concurrent use.
type Backend struct {
	config  types.Config
	dialect *dialect
	db      *sql.DB
	conn    *sql.Conn
	log     *slog.Logger
}

// NewBackend creates a closed backend. Call Open to connect.
func NewBackend(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{log: logger}
}

// Open validates config, connects, and pins a single connection.
// Returns ErrAlreadyOpen if the backend is already open, or a
// *types.ConnectError when the driver cannot reach the database.
func (b *Backend) Open(ctx context.Context, config types.Config) error {
	if b.conn != nil {
		return types.ErrAlreadyOpen
	}
	if err := config.Validate(); err != nil {
		return err
	}
	d, err := dialectFor(config.Driver)
	if err != nil {
		return err
	}

	db, err := openDB(config)
	if err != nil {
		return &types.ConnectError{Driver: config.Driver, Err: err}
	}
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return &types.ConnectError{Driver: config.Driver, Err: err}
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		db.Close()
		return &types.ConnectError{Driver: config.Driver, Err: err}
	}
	for _, q := range d.session {
		if _, err := conn.ExecContext(ctx, q); err != nil {
			conn.Close()
			db.Close()
			return &types.ConnectError{Driver: config.Driver, Err: fmt.Errorf("session setup: %w", err)}
		}
	}

	b.config = config
	b.dialect = d
	b.db = db
	b.conn = conn
	b.log.Debug("connected", "driver", config.Driver, "schema", config.Schema)
	return nil
}

// Close releases the connection and the database handle. Close is
// idempotent; both handles are closed even if the first close fails.
func (b *Backend) Close() error {
	if b.db == nil {
		return nil
	}
	var errs []error
	if b.conn != nil {
		if err := b.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	if err := b.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	b.conn = nil
	b.db = nil
	b.log.Debug("disconnected")
	return errors.Join(errs...)
}

// Config returns the configuration the backend was opened with.
func (b *Backend) Config() types.Config {
	return b.config
}

// openDB builds the driver-specific handle. No connection is made yet.
func openDB(config types.Config) (*sql.DB, error) {
	switch config.Driver {
	case types.DriverSQLite:
		dsn, err := sqliteDSN(config)
		if err != nil {
			return nil, err
		}
		return sql.Open(types.DriverSQLite, dsn)
	case types.DriverPgx:
		pc, err := pgxConfig(config)
		if err != nil {
			return nil, err
		}
		return stdlib.OpenDB(*pc), nil
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrDriverUnknown, config.Driver)
	}
}

// sqliteDSN treats the URL as the directory holding <schema>.db, creating
// it if needed. MemoryURL yields an in-memory database.
func sqliteDSN(config types.Config) (string, error) {
	if config.URL == MemoryURL {
		return MemoryURL, nil
	}
	if err := os.MkdirAll(config.URL, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return filepath.Join(config.URL, config.Schema+".db"), nil
}

// pgxConfig parses the URL and overlays user, password, and schema (the
// database name) when they are set.
func pgxConfig(config types.Config) (*pgx.ConnConfig, error) {
	pc, err := pgx.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if config.User != "" {
		pc.User = config.User
	}
	if config.Password != "" {
		pc.Password = config.Password
	}
	pc.Database = config.Schema
	return pc, nil
}

// stmtContext bounds a single statement by the configured timeout.
func (b *Backend) stmtContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.config.StatementTimeout > 0 {
		return context.WithTimeout(ctx, b.config.StatementTimeout)
	}
	return context.WithCancel(ctx)
}

// exec runs a statement on the pinned connection, wrapping failures in a
// *types.StatementError.
func (b *Backend) exec(ctx context.Context, op, name, query string, args ...any) (sql.Result, error) {
	if b.conn == nil {
		return nil, types.ErrBackendClosed
	}
	ctx, cancel := b.stmtContext(ctx)
	defer cancel()

	res, err := b.conn.ExecContext(ctx, b.dialect.rebind(query), args...)
	if err != nil {
		return nil, &types.StatementError{Op: op, Name: name, Err: err}
	}
	return res, nil
}

// Count returns the number of rows in one of the standard tables.
func (b *Backend) Count(ctx context.Context, table string) (int, error) {
	if !types.IsStandardTable(table) {
		return 0, fmt.Errorf("%w: %q", types.ErrTableUnknown, table)
	}
	if b.conn == nil {
		return 0, types.ErrBackendClosed
	}
	ctx, cancel := b.stmtContext(ctx)
	defer cancel()

	var n int
	if err := b.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, &types.StatementError{Op: types.OpQuery, Name: "count " + table, Err: err}
	}
	return n, nil
}

// ResetSchema drops the four tables, recreates them parents first, then
// creates the delete triggers. The first failing statement aborts the
// reset; no partial schema is repaired.
func (b *Backend) ResetSchema(ctx context.Context) error {
	if b.conn == nil {
		return types.ErrBackendClosed
	}
	steps := []struct {
		op    string
		stmts []statement
	}{
		{types.OpDrop, b.dialect.drop},
		{types.OpCreate, b.dialect.tables},
		{types.OpTrigger, b.dialect.triggers},
	}
	for _, step := range steps {
		for _, s := range step.stmts {
			if _, err := b.exec(ctx, step.op, s.name, s.sql); err != nil {
				return err
			}
		}
	}
	b.log.Info("schema reset", "tables", len(types.StandardTableNames), "triggers", 2)
	return nil
}
