// package repositories provides the partitions of the record store.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/jobtrack/internal/shared"
	"go.uber.org/multierr"
)

// dbtx is the subset of [sql.DB] and [sql.Tx] the partitions use.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is implemented by [sql.Row] and [sql.Rows].
type scanner interface {
	Scan(dest ...any) error
}

// Store groups the three partitions over one database.
type Store struct {
	DB       *sql.DB
	Jobs     *JobRepository
	Users    *UserRepository
	Settings *SettingRepository
}

// NewStore creates the partitions over db. Call [Store.Migrate] before first use.
func NewStore(db *sql.DB) *Store {
	return &Store{
		DB:       db,
		Jobs:     NewJobRepository(db),
		Users:    NewUserRepository(db),
		Settings: NewSettingRepository(db),
	}
}

// OpenStore opens the database described by cfg and creates any missing partition.
func OpenStore(ctx context.Context, cfg shared.DatabaseConfig) (*Store, error) {
	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		return nil, err
	}

	store := NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Migrate creates the partitions and indexes that do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if err := shared.RunMigrationsContext(ctx, s.DB); err != nil {
		return fmt.Errorf("failed to prepare store: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// deleteMany deletes every key from table, one statement per key.
//
// A failing key does not stop the others; all failures are returned together.
func deleteMany(ctx context.Context, q dbtx, partition, table, column string, keys []string) error {
	var errs error
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, column)
	for _, key := range keys {
		if _, err := q.ExecContext(ctx, query, key); err != nil {
			errs = multierr.Append(errs, shared.NewStorageError("delete", partition, key, err))
		}
	}
	return errs
}

// nullTime stores a zero time as NULL.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// fromNullTime returns the zero time for NULL.
func fromNullTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}
