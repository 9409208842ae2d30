package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/jobtrack/internal/formatter"
	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
	"go.uber.org/multierr"
)

// ExportResult describes a written export or backup file.
type ExportResult struct {
	Path   string           `json:"path"`
	Format formatter.Format `json:"format"`
	Count  int              `json:"count"`
}

// ClearResult describes the outcome of [Tracker.ClearWithBackup].
type ClearResult struct {
	Backup  *ExportResult `json:"backup,omitempty"` // nil when there was nothing to clear
	Deleted int           `json:"deleted"`
}

// Delete removes the record with id when it belongs to the session user.
//
// It reports whether a record was removed; absent ids are not an error.
func (t *Tracker) Delete(ctx context.Context, s models.Session, id string) (bool, error) {
	if _, found, err := t.Get(ctx, s, id); err != nil || !found {
		return false, err
	}

	if err := t.jobs.Delete(ctx, id); err != nil {
		return false, err
	}

	t.logger.Debug("deleted job", "user", s.User, "id", id)
	return true, nil
}

// DeleteAllForUser removes every record of the session user and returns how many were removed.
//
// Every record is attempted; failures are reported together.
func (t *Tracker) DeleteAllForUser(ctx context.Context, s models.Session) (int, error) {
	if err := requireSession(s); err != nil {
		return 0, err
	}

	unlock := t.locks.lock(s.User)
	defer unlock()

	recs, err := t.jobs.GetAllByIndex(ctx, models.IndexUser, s.User)
	if err != nil {
		return 0, err
	}
	return t.deleteRecords(ctx, s.User, recs)
}

func (t *Tracker) deleteRecords(ctx context.Context, user string, recs []*models.JobRecord) (int, error) {
	ids := make([]string, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}

	err := t.jobs.DeleteMany(ctx, ids)
	deleted := len(ids) - len(multierr.Errors(err))

	t.logger.Debug("cleared jobs", "user", user, "deleted", deleted, "failed", len(ids)-deleted)
	return deleted, err
}

// Export writes the export view to dir as jobs-<user>-<date>.<ext>.
//
// A user with no records gets [shared.ErrNoRecords] and no file.
func (t *Tracker) Export(ctx context.Context, s models.Session, dir string, f formatter.Format) (*ExportResult, error) {
	recs, err := t.ExportView(ctx, s)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, shared.ErrNoRecords
	}

	name := formatter.ExportFilename(formatter.ExportPrefix, s.User, t.clock(), f)
	path, err := formatter.WriteExport(dir, name, f, s.User, recs)
	if err != nil {
		return nil, err
	}

	t.logger.Info("exported jobs", "user", s.User, "path", path, "count", len(recs))
	return &ExportResult{Path: path, Format: f, Count: len(recs)}, nil
}

// ClearWithBackup writes a backup of the session user's records to dir and then deletes them.
//
// The backup is named jobs-backup-<user>-<date>.<ext>. If it cannot be written nothing is
// deleted. A user with no records gets an empty result and no file.
func (t *Tracker) ClearWithBackup(ctx context.Context, s models.Session, dir string, f formatter.Format) (*ClearResult, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}

	unlock := t.locks.lock(s.User)
	defer unlock()

	recs, err := t.jobs.GetAllByIndex(ctx, models.IndexUser, s.User)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return &ClearResult{}, nil
	}

	// Backup uses the export ordering.
	view := append([]*models.JobRecord(nil), recs...)
	sortApplied(view)

	name := formatter.ExportFilename(formatter.BackupPrefix, s.User, t.clock(), f)
	path, err := formatter.WriteExport(dir, name, f, s.User, view)
	if err != nil {
		return nil, fmt.Errorf("backup failed, no records deleted: %w", err)
	}
	t.logger.Info("wrote backup", "user", s.User, "path", path, "count", len(view))

	result := &ClearResult{Backup: &ExportResult{Path: path, Format: f, Count: len(view)}}
	result.Deleted, err = t.deleteRecords(ctx, s.User, recs)
	return result, err
}

// Reindex rewrites every stored record so derived columns such as the normalized link match
// the current normalizer. It returns the number of records rewritten.
func (t *Tracker) Reindex(ctx context.Context) (int, error) {
	n := 0
	err := t.jobs.WithTx(ctx, func(tx models.JobStore) error {
		recs, err := tx.GetAll(ctx)
		if err != nil {
			return err
		}
		for _, r := range recs {
			if err := tx.Put(ctx, r); err != nil {
				return err
			}
		}
		n = len(recs)
		return nil
	})
	if err != nil {
		return 0, err
	}

	t.logger.Info("reindexed jobs", "count", n)
	return n, nil
}
