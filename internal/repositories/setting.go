package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
)

const settingsPartition = "settings"

var _ models.SettingStore = (*SettingRepository)(nil)

// SettingRepository implements [models.SettingStore] for global key/value settings.
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new [SettingRepository] with the given database connection
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Put stores the value under its key, replacing any previous value.
func (r *SettingRepository) Put(ctx context.Context, setting *models.Setting) error {
	if setting == nil || setting.Name == "" {
		return fmt.Errorf("%w: setting has no key", shared.ErrInvalidArgument)
	}
	if setting.UpdatedAt.IsZero() {
		setting.UpdatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		setting.Name, setting.Value, setting.UpdatedAt.UTC(),
	)
	return shared.NewStorageError("put", settingsPartition, setting.Name, err)
}

// Get retrieves a setting by key.
func (r *SettingRepository) Get(ctx context.Context, key string) (*models.Setting, bool, error) {
	var setting models.Setting
	err := r.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM settings WHERE key = ?`, key,
	).Scan(&setting.Name, &setting.Value, &setting.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.NewStorageError("get", settingsPartition, key, err)
	}
	setting.UpdatedAt = setting.UpdatedAt.UTC()
	return &setting, true, nil
}

// GetAll returns every setting ordered by key.
func (r *SettingRepository) GetAll(ctx context.Context) ([]*models.Setting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key ASC`)
	if err != nil {
		return nil, shared.NewStorageError("get_all", settingsPartition, "", err)
	}
	defer rows.Close()

	var settings []*models.Setting
	for rows.Next() {
		var setting models.Setting
		if err := rows.Scan(&setting.Name, &setting.Value, &setting.UpdatedAt); err != nil {
			return nil, shared.NewStorageError("get_all", settingsPartition, "", err)
		}
		setting.UpdatedAt = setting.UpdatedAt.UTC()
		settings = append(settings, &setting)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.NewStorageError("get_all", settingsPartition, "", err)
	}
	return settings, nil
}

// Delete removes a setting. Deleting a missing key is not an error.
func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	return shared.NewStorageError("delete", settingsPartition, key, err)
}

// DeleteMany removes every listed setting, attempting all of them.
func (r *SettingRepository) DeleteMany(ctx context.Context, keys []string) error {
	return deleteMany(ctx, r.db, settingsPartition, "settings", "key", keys)
}
