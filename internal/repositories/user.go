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

const usersPartition = "users"

var _ models.UserStore = (*UserRepository)(nil)

// UserRepository implements [models.UserStore] for [models.UserProfile] persistence.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Put records the username. Saving a known username keeps its original creation time.
func (r *UserRepository) Put(ctx context.Context, user *models.UserProfile) error {
	if user == nil || user.Username == "" {
		return fmt.Errorf("%w: user profile has no username", shared.ErrInvalidArgument)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, created_at) VALUES (?, ?) ON CONFLICT(username) DO NOTHING`,
		user.Username, user.CreatedAt.UTC(),
	)
	return shared.NewStorageError("put", usersPartition, user.Username, err)
}

// Get retrieves a user profile by username. Usernames are case-sensitive.
func (r *UserRepository) Get(ctx context.Context, username string) (*models.UserProfile, bool, error) {
	var user models.UserProfile
	err := r.db.QueryRowContext(ctx,
		`SELECT username, created_at FROM users WHERE username = ?`, username,
	).Scan(&user.Username, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, shared.NewStorageError("get", usersPartition, username, err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, true, nil
}

// GetAll returns every user profile ordered by username.
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, created_at FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, shared.NewStorageError("get_all", usersPartition, "", err)
	}
	defer rows.Close()

	var users []*models.UserProfile
	for rows.Next() {
		var user models.UserProfile
		if err := rows.Scan(&user.Username, &user.CreatedAt); err != nil {
			return nil, shared.NewStorageError("get_all", usersPartition, "", err)
		}
		user.CreatedAt = user.CreatedAt.UTC()
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.NewStorageError("get_all", usersPartition, "", err)
	}
	return users, nil
}

// Delete removes a user profile. Job records of the user are left untouched.
func (r *UserRepository) Delete(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = ?`, username)
	return shared.NewStorageError("delete", usersPartition, username, err)
}

// DeleteMany removes every listed user profile, attempting all of them.
func (r *UserRepository) DeleteMany(ctx context.Context, usernames []string) error {
	return deleteMany(ctx, r.db, usersPartition, "users", "username", usernames)
}
