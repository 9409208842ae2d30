package shared

import (
	"database/sql"
	"fmt"
	"net/url"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDatabase is the path of a private in-memory database.
const MemoryDatabase = ":memory:"

// NewDatabase opens a connection to a SQLite database at the specified path.
// The path can be ":memory:" for an in-memory database.
// Returns an open database connection or an error if connection fails.
//
// An in-memory database lives inside a single connection, so its pool is pinned to one connection.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, NewStorageError("open", "database", path, err)
	}

	if path == MemoryDatabase {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, NewStorageError("ping", "database", path, err)
	}

	return db, nil
}

// OpenDatabase opens the database described by cfg, applying the busy timeout, immediate write
// transactions and the connection pool limits.
func OpenDatabase(cfg DatabaseConfig) (*sql.DB, error) {
	if cfg.Path == MemoryDatabase {
		return NewDatabase(cfg.Path)
	}

	db, err := NewDatabase(DatabaseDSN(cfg))
	if err != nil {
		return nil, err
	}
	ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)
	return db, nil
}

// DatabaseDSN builds the go-sqlite3 connection string for cfg.
//
// Writers take the database lock when their transaction begins (_txlock=immediate),
// which serializes read-modify-write transactions across processes.
func DatabaseDSN(cfg DatabaseConfig) string {
	params := url.Values{}
	params.Set("_txlock", "immediate")
	params.Set("_foreign_keys", "on")
	if cfg.BusyTimeoutMS > 0 {
		params.Set("_busy_timeout", strconv.Itoa(cfg.BusyTimeoutMS))
	}
	return fmt.Sprintf("%s?%s", cfg.Path, params.Encode())
}

// ConfigureDatabase sets connection pool settings for the database.
// Recommended for production use to limit connections and improve performance.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}
