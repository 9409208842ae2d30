package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
)

// UpsertResult describes the outcome of [Tracker.Upsert].
type UpsertResult struct {
	Record        *models.JobRecord `json:"record"`
	Created       bool              `json:"created"`       // false when an existing record was updated
	AppliedOnDate int               `json:"appliedOnDate"` // user's records sharing Record.ApplicationDate
	GoalReached   bool              `json:"goalReached"`   // AppliedOnDate exceeds the daily goal
}

// FindDuplicate returns the session user's record whose normalized link equals the candidate's.
//
// Empty links never match. When stale data holds several matches the oldest record wins
// (createdAt, then id), so repeated calls agree.
func (t *Tracker) FindDuplicate(ctx context.Context, s models.Session, c models.Candidate) (*models.JobRecord, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	return findDuplicate(ctx, t.jobs, s.User, shared.LinkKey(c.JobLink), "")
}

// findDuplicate returns the oldest record of user with the given link key, skipping exclude.
func findDuplicate(ctx context.Context, jobs models.JobStore, user, key, exclude string) (*models.JobRecord, error) {
	if key == "" {
		return nil, nil
	}

	matches, err := jobs.FindByLinkKey(ctx, user, key)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		if m.ID != exclude {
			return m, nil
		}
	}
	return nil, nil
}

// Upsert saves the candidate for the session user.
//
// Without an ID the candidate is matched against the user's records by normalized link: a
// match is overwritten in place (keeping its id and createdAt), otherwise a new record is
// created. With an ID the named record is edited; it must belong to the user, and its new
// link must not collide with another record.
//
// companyName, jobTitle and jobLink are required. An empty applicationDate becomes today and
// an empty status becomes the configured default.
func (t *Tracker) Upsert(ctx context.Context, s models.Session, c models.Candidate) (*UpsertResult, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}

	c = c.Trimmed()
	if missing := c.MissingFields(); len(missing) > 0 {
		return nil, &shared.ValidationError{Fields: missing}
	}

	now := t.clock()
	rec := c.Record(s.User)
	if rec.ApplicationDate == "" {
		rec.ApplicationDate = shared.Today(now)
	} else {
		rec.ApplicationDate = shared.NormalizeDate(rec.ApplicationDate)
	}
	if rec.Status == "" {
		rec.Status = t.cfg.DefaultStatus
	}

	unlock := t.locks.lock(s.User)
	defer unlock()

	created := false
	err := t.jobs.WithTx(ctx, func(tx models.JobStore) error {
		key := shared.LinkKey(rec.JobLink)

		if c.ID != "" {
			existing, found, err := tx.Get(ctx, c.ID)
			if err != nil {
				return err
			}
			if !found || existing.User != s.User {
				return fmt.Errorf("%w: job %s", shared.ErrNotFound, c.ID)
			}

			dup, err := findDuplicate(ctx, tx, s.User, key, c.ID)
			if err != nil {
				return err
			}
			if dup != nil {
				return fmt.Errorf("%w: %s (%s)", shared.ErrDuplicateLink, dup.ID, dup.CompanyName)
			}
			rec.CreatedAt = existing.CreatedAt
		} else {
			dup, err := findDuplicate(ctx, tx, s.User, key, "")
			if err != nil {
				return err
			}
			if dup != nil {
				rec.ID = dup.ID
				rec.CreatedAt = dup.CreatedAt
			} else {
				rec.ID = shared.GenerateID()
				created = true
			}
		}

		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.UpdatedAt = now
		return tx.Put(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	t.logger.Debug("upserted job", "user", s.User, "id", rec.ID, "created", created)

	count, err := t.countOnDate(ctx, s.User, rec.ApplicationDate)
	if err != nil {
		return nil, err
	}

	return &UpsertResult{
		Record:        rec,
		Created:       created,
		AppliedOnDate: count,
		GoalReached:   t.cfg.DailyGoal > 0 && count > t.cfg.DailyGoal,
	}, nil
}

// countOnDate counts the records of user applied for on date.
func (t *Tracker) countOnDate(ctx context.Context, user, date string) (int, error) {
	recs, err := t.jobs.GetAllByIndex(ctx, models.IndexApplicationDate, date)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, r := range recs {
		if r.User == user {
			n++
		}
	}
	return n, nil
}
