package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
)

// Search returns one page of the session user's records matching q.
//
// Matching is a case-insensitive substring test over [models.JobRecord.SearchFields]. Results
// are ordered most recently updated first (records never updated sort last), then by
// applicationDate descending, then by id.
func (t *Tracker) Search(ctx context.Context, s models.Session, q models.Query) (*models.Page, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}
	if q.Offset < 0 {
		return nil, fmt.Errorf("%w: negative offset %d", shared.ErrInvalidArgument, q.Offset)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = t.cfg.PageSize
	}

	recs, err := t.jobs.GetAllByIndex(ctx, models.IndexUser, s.User)
	if err != nil {
		return nil, err
	}

	matched := filterRecords(recs, q.Text)
	slices.SortFunc(matched, compareRecent)

	start := min(q.Offset, len(matched))
	end := start + min(limit, len(matched)-start)

	page := &models.Page{
		Records: make([]*models.JobRecord, 0, end-start),
		HasMore: end < len(matched),
		Total:   len(matched),
		Offset:  q.Offset,
		Limit:   limit,
	}
	page.Records = append(page.Records, matched[start:end]...)
	return page, nil
}

// Get returns the record with id when it belongs to the session user.
func (t *Tracker) Get(ctx context.Context, s models.Session, id string) (*models.JobRecord, bool, error) {
	if err := requireSession(s); err != nil {
		return nil, false, err
	}

	rec, found, err := t.jobs.Get(ctx, id)
	if err != nil || !found || rec.User != s.User {
		return nil, false, err
	}
	return rec, true, nil
}

// ExportView returns all of the session user's records ordered by applicationDate ascending.
//
// Records sharing a date keep creation order.
func (t *Tracker) ExportView(ctx context.Context, s models.Session) ([]*models.JobRecord, error) {
	if err := requireSession(s); err != nil {
		return nil, err
	}

	recs, err := t.jobs.GetAllByIndex(ctx, models.IndexUser, s.User)
	if err != nil {
		return nil, err
	}

	sortApplied(recs)
	return recs, nil
}

func sortApplied(recs []*models.JobRecord) {
	slices.SortFunc(recs, compareApplied)
}

// filterRecords keeps the records with a field containing text, ignoring case.
func filterRecords(recs []*models.JobRecord, text string) []*models.JobRecord {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return recs
	}

	out := make([]*models.JobRecord, 0, len(recs))
	for _, r := range recs {
		for _, f := range r.SearchFields() {
			if strings.Contains(strings.ToLower(f), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func compareRecent(a, b *models.JobRecord) int {
	if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
		return c
	}
	if c := strings.Compare(b.ApplicationDate, a.ApplicationDate); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func compareApplied(a, b *models.JobRecord) int {
	if c := strings.Compare(a.ApplicationDate, b.ApplicationDate); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
