package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect identifies the SQL engine behind a DB.
type Dialect int

const (
	// SQLite is the embedded engine (modernc.org/sqlite).
	SQLite Dialect = iota
	// Postgres is reached through pgx's database/sql driver.
	Postgres
)

// String implements fmt.Stringer.
func (d Dialect) String() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// ErrUnsupportedURL is returned when the backend URL names no known engine.
var ErrUnsupportedURL = errors.New("unsupported backend url")

// Options tunes an opened DB.
type Options struct {
	// SlowQuery is the threshold above which queries log slow_query. Zero uses DefaultSlowQuery.
	SlowQuery time.Duration
	// MaxOpenConns caps the pool. Zero uses a per-dialect default.
	MaxOpenConns int
}

// DefaultSlowQuery is the default threshold for slow query warnings.
const DefaultSlowQuery = 50 * time.Millisecond

const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"

// ParseURL maps a backend URL onto a driver name, DSN and dialect.
// Accepted forms are sqlite://path, file:path and postgres(ql)://...
// PRE: none
// POST: Returns ErrUnsupportedURL for any other scheme
func ParseURL(raw string) (driver, dsn string, dialect Dialect, err error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		if _, err := url.Parse(raw); err != nil {
			return "", "", 0, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
		}
		return "pgx", raw, Postgres, nil
	case strings.HasPrefix(raw, "sqlite://"):
		return "sqlite", sqliteDSN(strings.TrimPrefix(raw, "sqlite://")), SQLite, nil
	case strings.HasPrefix(raw, "file:"):
		return "sqlite", sqliteDSN(strings.TrimPrefix(raw, "file:")), SQLite, nil
	}
	return "", "", 0, fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
}

func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?" + sqlitePragmas
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return "file:" + path + sep + sqlitePragmas
}

// Open connects to the engine named by rawURL, verifies the connection and
// applies pending migrations.
// PRE: rawURL is a supported backend URL
// POST: Returns a migrated, timed DB or an error; the pool is closed on error
func Open(ctx context.Context, rawURL string, opts Options) (*DB, error) {
	driver, dsn, dialect, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	raw, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	maxOpen := opts.MaxOpenConns
	if maxOpen == 0 {
		maxOpen = 25
		if dialect == SQLite {
			// One writer keeps SQLite free of SQLITE_BUSY on upgrade from read to write.
			maxOpen = 1
		}
	}
	raw.SetMaxOpenConns(maxOpen)
	raw.SetMaxIdleConns(maxOpen)
	if dialect == Postgres {
		raw.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := raw.PingContext(ctx); err != nil {
		raw.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	db := NewDB(raw, dialect, opts.SlowQuery)
	if err := Migrate(ctx, db); err != nil {
		raw.Close()
		return nil, err
	}
	return db, nil
}
