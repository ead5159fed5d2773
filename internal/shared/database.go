package shared

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DatabaseOptions tunes the SQLite connection opened by [NewDatabase].
type DatabaseOptions struct {
	BusyTimeoutMS int
	MaxOpenConns  int
	MaxIdleConns  int
}

// NewDatabase opens a connection to a SQLite database at the specified path.
// The path can be ":memory:" for an in-memory database, in which case the pool is pinned to a
// single connection so every caller sees the same database.
//
// Write transactions take the database lock up front (_txlock=immediate) so a probe followed
// by an insert inside one transaction cannot interleave with another writer.
func NewDatabase(path string, opts DatabaseOptions) (*sql.DB, error) {
	if IsMemory(path) {
		opts.MaxOpenConns = 1
		opts.MaxIdleConns = 1
	}
	return openDatabase(DSN(path, opts.BusyTimeoutMS), opts)
}

// NewReadDatabase opens a query-only pool on an existing database file. Its transactions are
// deferred: they take a shared snapshot on the first read and never the write lock, so in WAL
// mode readers run alongside each other and alongside the writer.
//
// In-memory databases are private to their connection and cannot have a second pool.
func NewReadDatabase(path string, opts DatabaseOptions) (*sql.DB, error) {
	if IsMemory(path) {
		return nil, fmt.Errorf("%w: in-memory database %q has no separate read pool", ErrInvalidArgument, path)
	}
	return openDatabase(ReadDSN(path, opts.BusyTimeoutMS), opts)
}

func openDatabase(dsn string, opts DatabaseOptions) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	ConfigureDatabase(db, opts.MaxOpenConns, opts.MaxIdleConns)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// DSN builds the go-sqlite3 connection string for the read/write pool at path.
func DSN(path string, busyTimeoutMS int) string {
	params := baseParams(busyTimeoutMS)
	params.Set("_txlock", "immediate")
	if !IsMemory(path) {
		params.Set("_journal_mode", "WAL")
	}
	return withParams(path, params)
}

// ReadDSN builds the connection string for the query-only pool at path. The journal mode is
// left alone; WAL is persistent and set by the read/write pool.
func ReadDSN(path string, busyTimeoutMS int) string {
	params := baseParams(busyTimeoutMS)
	params.Set("_txlock", "deferred")
	params.Set("_query_only", "true")
	return withParams(path, params)
}

func baseParams(busyTimeoutMS int) url.Values {
	if busyTimeoutMS <= 0 {
		busyTimeoutMS = 5000
	}
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_busy_timeout", strconv.Itoa(busyTimeoutMS))
	return params
}

func withParams(path string, params url.Values) string {
	prefix := "file:"
	if strings.HasPrefix(path, "file:") {
		prefix = ""
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return prefix + path + sep + params.Encode()
}

// ConfigureDatabase sets connection pool settings for the database.
// Non-positive values leave the [sql.DB] defaults in place.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}

// IsMemory reports whether path names an in-memory database.
func IsMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}
