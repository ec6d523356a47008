package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Querier is the database interface used by all stores.
// Both *DB and *Tx satisfy it, so a store can run inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Dialect() Dialect
}

// Compile-time checks that DB and Tx satisfy Querier.
var (
	_ Querier = (*DB)(nil)
	_ Querier = (*Tx)(nil)
)

// timer logs query timings against a slow-query threshold.
type timer struct {
	dialect   Dialect
	threshold time.Duration
}

// logQuery logs a query timing.
func (t timer) logQuery(op, query string, start time.Time) {
	elapsed := time.Since(start)
	durationMs := float64(elapsed.Microseconds()) / 1000.0

	if elapsed >= t.threshold {
		slog.Warn("slow_query",
			"op", op,
			"query", firstLine(query),
			"duration_ms", durationMs,
		)
	} else {
		slog.Debug("query",
			"op", op,
			"duration_ms", durationMs,
		)
	}
}

// DB wraps a *sql.DB to rebind placeholders for the dialect and log slow queries.
type DB struct {
	db *sql.DB
	timer
}

// NewDB wraps an open *sql.DB.
// PRE: db is a valid database connection of the given dialect
// POST: Returns a DB that logs queries slower than threshold (DefaultSlowQuery when zero)
func NewDB(db *sql.DB, dialect Dialect, threshold time.Duration) *DB {
	if threshold <= 0 {
		threshold = DefaultSlowQuery
	}
	return &DB{db: db, timer: timer{dialect: dialect, threshold: threshold}}
}

// Dialect reports the SQL engine.
func (d *DB) Dialect() Dialect {
	return d.dialect
}

// RawDB returns the underlying *sql.DB.
// PRE: none
// POST: returns the unwrapped *sql.DB
func (d *DB) RawDB() *sql.DB {
	return d.db
}

// ExecContext wraps sql.DB.ExecContext with rebinding and timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing logged
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = Rebind(d.dialect, query)
	start := time.Now()
	result, err := d.db.ExecContext(ctx, query, args...)
	d.logQuery("ExecContext", query, start)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with rebinding and timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing logged
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = Rebind(d.dialect, query)
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.logQuery("QueryContext", query, start)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with rebinding and timing.
// PRE: ctx is valid, query is non-empty
// POST: query executed, timing logged
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	query = Rebind(d.dialect, query)
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.logQuery("QueryRowContext", query, start)
	return row
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
// PRE: fn only uses the Tx it is given
// POST: Either every statement in fn is committed or none is
func (d *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	start := time.Now()
	sqlTx, err := d.db.BeginTx(ctx, nil)
	d.logQuery("BeginTx", "BEGIN", start)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{tx: sqlTx, timer: d.timer}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
// PRE: none
// POST: returns nil if connection is alive
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the underlying database connection.
// PRE: none
// POST: database connection closed
func (d *DB) Close() error {
	return d.db.Close()
}

// Tx is a transaction with the same rebinding and timing as DB.
type Tx struct {
	tx *sql.Tx
	timer
}

// Dialect reports the SQL engine.
func (t *Tx) Dialect() Dialect {
	return t.dialect
}

// ExecContext wraps sql.Tx.ExecContext with rebinding and timing.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	query = Rebind(t.dialect, query)
	start := time.Now()
	result, err := t.tx.ExecContext(ctx, query, args...)
	t.logQuery("TxExecContext", query, start)
	return result, err
}

// QueryContext wraps sql.Tx.QueryContext with rebinding and timing.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	query = Rebind(t.dialect, query)
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.logQuery("TxQueryContext", query, start)
	return rows, err
}

// QueryRowContext wraps sql.Tx.QueryRowContext with rebinding and timing.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	query = Rebind(t.dialect, query)
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.logQuery("TxQueryRowContext", query, start)
	return row
}

// Rebind rewrites ? placeholders to $1, $2, ... for Postgres. Question marks
// inside single-quoted literals are left alone.
// PRE: query uses ? placeholders
// POST: SQLite queries are returned unchanged
func Rebind(dialect Dialect, query string) string {
	if dialect != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstLine(query string) string {
	query = strings.TrimSpace(query)
	if i := strings.IndexByte(query, '\n'); i >= 0 {
		return query[:i]
	}
	return query
}
