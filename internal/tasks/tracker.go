// package tasks implements the job tracker core: duplicate resolution, upserts, search and bulk operations.
package tasks

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/services"
	"github.com/desertthunder/jobtrack/internal/shared"
)

const (
	defaultPageSize = 10
	defaultStatus   = "Applied"
)

// Tracker serves every user-scoped operation over the record store.
//
// Writes that resolve duplicates are serialized per user and run in a single store
// transaction, so two concurrent upserts of the same new link produce one record.
type Tracker struct {
	jobs     models.JobStore
	users    models.UserStore
	settings models.SettingStore
	scraper  services.Scraper
	cfg      shared.TrackerConfig
	logger   *log.Logger
	now      func() time.Time
	locks    *userLocks
}

// NewTracker creates a Tracker over the three partitions. A nil logger discards output.
func NewTracker(jobs models.JobStore, users models.UserStore, settings models.SettingStore, cfg shared.TrackerConfig, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.DefaultStatus == "" {
		cfg.DefaultStatus = defaultStatus
	}

	return &Tracker{
		jobs:     jobs,
		users:    users,
		settings: settings,
		cfg:      cfg,
		logger:   shared.WithLogger(logger, "component", "tracker"),
		now:      time.Now,
		locks:    newUserLocks(),
	}
}

// SetScraper sets the scraper used by [Tracker.Import].
func (t *Tracker) SetScraper(s services.Scraper) { t.scraper = s }

// SetClock replaces the time source.
func (t *Tracker) SetClock(now func() time.Time) { t.now = now }

// Config returns the tracker settings in effect.
func (t *Tracker) Config() shared.TrackerConfig { return t.cfg }

// Now returns the tracker's current time in UTC.
func (t *Tracker) Now() time.Time { return t.clock() }

func (t *Tracker) clock() time.Time { return t.now().UTC() }

// Login records username as a known user and makes it the active namespace.
func (t *Tracker) Login(ctx context.Context, username string) (models.Session, error) {
	s := models.NewSession(username)
	if !s.Valid() {
		return models.Session{}, fmt.Errorf("%w: username is empty", shared.ErrInvalidUsername)
	}

	if _, err := t.SaveUser(ctx, s.User); err != nil {
		return models.Session{}, err
	}
	if err := t.SetSetting(ctx, models.SettingCurrentUser, s.User); err != nil {
		return models.Session{}, err
	}

	t.logger.Debug("logged in", "user", s.User)
	return s, nil
}

// Resume rebuilds the session remembered by the last [Tracker.Login].
func (t *Tracker) Resume(ctx context.Context) (models.Session, error) {
	user, found, err := t.GetSetting(ctx, models.SettingCurrentUser)
	if err != nil {
		return models.Session{}, err
	}

	s := models.NewSession(user)
	if !found || !s.Valid() {
		return models.Session{}, shared.ErrNoSession
	}
	return s, nil
}

// Logout forgets the active namespace. Records are kept.
func (t *Tracker) Logout(ctx context.Context) error {
	return t.settings.Delete(ctx, models.SettingCurrentUser)
}

// SaveUser records username. Saving a known user is a no-op.
func (t *Tracker) SaveUser(ctx context.Context, username string) (*models.UserProfile, error) {
	s := models.NewSession(username)
	if !s.Valid() {
		return nil, fmt.Errorf("%w: username is empty", shared.ErrInvalidUsername)
	}

	profile := &models.UserProfile{Username: s.User, CreatedAt: t.clock()}
	if err := t.users.Put(ctx, profile); err != nil {
		return nil, err
	}

	stored, found, err := t.users.Get(ctx, s.User)
	if err != nil {
		return nil, err
	}
	if !found {
		return profile, nil
	}
	return stored, nil
}

// GetUser returns the profile for username, if known.
func (t *Tracker) GetUser(ctx context.Context, username string) (*models.UserProfile, bool, error) {
	return t.users.Get(ctx, username)
}

// ListUsers returns every known user, ordered by username.
func (t *Tracker) ListUsers(ctx context.Context) ([]*models.UserProfile, error) {
	return t.users.GetAll(ctx)
}

// GetSetting returns the value stored under key.
func (t *Tracker) GetSetting(ctx context.Context, key string) (string, bool, error) {
	s, found, err := t.settings.Get(ctx, key)
	if err != nil || !found {
		return "", false, err
	}
	return s.Value, true, nil
}

// SetSetting stores value under key, replacing any previous value.
func (t *Tracker) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: setting key is empty", shared.ErrInvalidArgument)
	}
	return t.settings.Put(ctx, &models.Setting{Name: key, Value: value, UpdatedAt: t.clock()})
}

// ListSettings returns every stored setting.
func (t *Tracker) ListSettings(ctx context.Context) ([]*models.Setting, error) {
	return t.settings.GetAll(ctx)
}

func requireSession(s models.Session) error {
	if !s.Valid() {
		return shared.ErrNoSession
	}
	return nil
}

// userLocks hands out one mutex per username.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex of user and returns its release func.
func (l *userLocks) lock(user string) func() {
	l.mu.Lock()
	m, ok := l.locks[user]
	if !ok {
		m = &sync.Mutex{}
		l.locks[user] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
