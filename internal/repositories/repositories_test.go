package repositories

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
)

// setupTestStore creates an in-memory store with migrations applied
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := shared.NewDatabase(shared.MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	store := NewStore(db)
	if err := store.Migrate(context.Background()); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { store.Close() })
	return store
}

func newJob(id, user, link string, at time.Time) *models.JobRecord {
	return &models.JobRecord{
		ID:              id,
		User:            user,
		ApplicationDate: "2025-01-15",
		CompanyName:     "Acme Corp",
		JobTitle:        "Backend Engineer",
		JobLink:         link,
		Status:          "Applied",
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}

func ids(jobs []*models.JobRecord) []string {
	out := make([]string, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.ID)
	}
	return out
}

func TestJobRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

	t.Run("Put & Get", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Jobs

		job := newJob("job-1", "alice", "https://x.test/job?id=1", base)
		job.Recruiter = "jane@acme.test"
		if err := repo.Put(ctx, job); err != nil {
			t.Fatalf("failed to put job: %v", err)
		}

		got, found, err := repo.Get(ctx, "job-1")
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}
		if !found {
			t.Fatal("expected job to be found")
		}

		if got.CompanyName != "Acme Corp" || got.Recruiter != "jane@acme.test" || got.User != "alice" {
			t.Errorf("unexpected job: %+v", got)
		}
		if !got.CreatedAt.Equal(base) || !got.UpdatedAt.Equal(base) {
			t.Errorf("timestamps not preserved: created %v updated %v", got.CreatedAt, got.UpdatedAt)
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		store := setupTestStore(t)

		got, found, err := store.Jobs.Get(ctx, "nope")
		if err != nil {
			t.Fatalf("missing key should not be an error: %v", err)
		}
		if found || got != nil {
			t.Error("expected missing job to be absent")
		}
	})

	t.Run("Put Replaces But Keeps Owner And Creation Time", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Jobs

		if err := repo.Put(ctx, newJob("job-1", "alice", "https://x.test/1", base)); err != nil {
			t.Fatalf("failed to put job: %v", err)
		}

		later := base.Add(time.Hour)
		update := newJob("job-1", "mallory", "https://x.test/1", later)
		update.Status = "Interview"
		if err := repo.Put(ctx, update); err != nil {
			t.Fatalf("failed to put update: %v", err)
		}

		got, _, err := repo.Get(ctx, "job-1")
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}
		if got.Status != "Interview" {
			t.Errorf("expected status Interview, got %s", got.Status)
		}
		if got.User != "alice" {
			t.Errorf("owner must not change, got %s", got.User)
		}
		if !got.CreatedAt.Equal(base) {
			t.Errorf("createdAt must not change, got %v", got.CreatedAt)
		}
		if !got.UpdatedAt.Equal(later) {
			t.Errorf("expected updatedAt %v, got %v", later, got.UpdatedAt)
		}

		all, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected idempotent put to keep 1 record, got %d", len(all))
		}
	})

	t.Run("Put Without Timestamps", func(t *testing.T) {
		store := setupTestStore(t)
		job := newJob("job-1", "alice", "https://x.test/1", time.Time{})
		if err := store.Jobs.Put(ctx, job); err != nil {
			t.Fatalf("failed to put job: %v", err)
		}

		got, _, err := store.Jobs.Get(ctx, "job-1")
		if err != nil {
			t.Fatalf("failed to get job: %v", err)
		}
		if !got.UpdatedAt.IsZero() || !got.CreatedAt.IsZero() {
			t.Errorf("expected zero timestamps, got %v / %v", got.CreatedAt, got.UpdatedAt)
		}
	})

	t.Run("GetAllByIndex", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Jobs

		jobs := []*models.JobRecord{
			newJob("a1", "alice", "https://x.test/1", base),
			newJob("a2", "alice", "https://x.test/2", base.Add(time.Minute)),
			newJob("b1", "bob", "https://x.test/1", base),
		}
		jobs[1].Status = "Rejected"
		jobs[2].ApplicationDate = "2025-02-01"
		for _, j := range jobs {
			if err := repo.Put(ctx, j); err != nil {
				t.Fatalf("failed to put job: %v", err)
			}
		}

		tests := []struct {
			index models.JobIndex
			value string
			want  []string
		}{
			{index: models.IndexUser, value: "alice", want: []string{"a1", "a2"}},
			{index: models.IndexUser, value: "bob", want: []string{"b1"}},
			{index: models.IndexUser, value: "Alice", want: []string{}},
			{index: models.IndexStatus, value: "Rejected", want: []string{"a2"}},
			{index: models.IndexApplicationDate, value: "2025-01-15", want: []string{"a1", "a2"}},
			{index: models.IndexJobLink, value: "https://x.test/1", want: []string{"a1", "b1"}},
		}

		for _, tt := range tests {
			t.Run(string(tt.index)+"="+tt.value, func(t *testing.T) {
				got, err := repo.GetAllByIndex(ctx, tt.index, tt.value)
				if err != nil {
					t.Fatalf("GetAllByIndex() error = %v", err)
				}
				gotIDs := ids(got)
				sort.Strings(gotIDs)
				if len(gotIDs) != len(tt.want) {
					t.Fatalf("GetAllByIndex() = %v, want %v", gotIDs, tt.want)
				}
				for i := range gotIDs {
					if gotIDs[i] != tt.want[i] {
						t.Errorf("GetAllByIndex() = %v, want %v", gotIDs, tt.want)
						break
					}
				}
			})
		}

		if _, err := repo.GetAllByIndex(ctx, models.JobIndex("company"), "Acme"); err == nil {
			t.Error("expected error for unknown index")
		}
	})

	t.Run("FindByLinkKey", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Jobs

		jobs := []*models.JobRecord{
			newJob("newer", "alice", "https://x.test/job?id=42&utm_source=mail", base.Add(time.Hour)),
			newJob("older", "alice", "https://x.test/job?id=42", base),
			newJob("other-user", "bob", "https://x.test/job?id=42", base),
			newJob("no-link", "alice", "", base),
		}
		for _, j := range jobs {
			if err := repo.Put(ctx, j); err != nil {
				t.Fatalf("failed to put job: %v", err)
			}
		}

		key := shared.LinkKey("https://x.test/job?gclid=zz&id=42")
		got, err := repo.FindByLinkKey(ctx, "alice", key)
		if err != nil {
			t.Fatalf("FindByLinkKey() error = %v", err)
		}
		gotIDs := ids(got)
		if len(gotIDs) != 2 || gotIDs[0] != "older" || gotIDs[1] != "newer" {
			t.Errorf("expected [older newer], got %v", gotIDs)
		}

		empty, err := repo.FindByLinkKey(ctx, "alice", "")
		if err != nil {
			t.Fatalf("FindByLinkKey() error = %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("empty key must never match, got %v", ids(empty))
		}
	})

	t.Run("Delete & DeleteMany", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Jobs

		for _, id := range []string{"a", "b", "c"} {
			if err := repo.Put(ctx, newJob(id, "alice", "https://x.test/"+id, base)); err != nil {
				t.Fatalf("failed to put job: %v", err)
			}
		}

		if err := repo.Delete(ctx, "a"); err != nil {
			t.Fatalf("failed to delete job: %v", err)
		}
		if err := repo.Delete(ctx, "a"); err != nil {
			t.Errorf("deleting a missing job should be a no-op: %v", err)
		}
		if _, found, _ := repo.Get(ctx, "a"); found {
			t.Error("expected deleted job to be absent")
		}

		if err := repo.DeleteMany(ctx, []string{"b", "c", "missing"}); err != nil {
			t.Fatalf("failed to delete many: %v", err)
		}
		all, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to list jobs: %v", err)
		}
		if len(all) != 0 {
			t.Errorf("expected empty partition, got %v", ids(all))
		}
	})

	t.Run("WithTx Commits", func(t *testing.T) {
		store := setupTestStore(t)

		err := store.Jobs.WithTx(ctx, func(tx models.JobStore) error {
			if err := tx.Put(ctx, newJob("t1", "alice", "https://x.test/1", base)); err != nil {
				return err
			}
			_, found, err := tx.Get(ctx, "t1")
			if err != nil {
				return err
			}
			if !found {
				t.Error("expected write to be visible inside the transaction")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WithTx() error = %v", err)
		}

		if _, found, _ := store.Jobs.Get(ctx, "t1"); !found {
			t.Error("expected committed job to be visible")
		}
	})

	t.Run("WithTx Rolls Back", func(t *testing.T) {
		store := setupTestStore(t)

		err := store.Jobs.WithTx(ctx, func(tx models.JobStore) error {
			if err := tx.Put(ctx, newJob("t1", "alice", "https://x.test/1", base)); err != nil {
				return err
			}
			return shared.ErrDuplicateLink
		})
		if err != shared.ErrDuplicateLink {
			t.Fatalf("expected fn error to be returned, got %v", err)
		}

		if _, found, _ := store.Jobs.Get(ctx, "t1"); found {
			t.Error("expected rolled back job to be absent")
		}
	})

	t.Run("Put Requires ID", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.Jobs.Put(ctx, newJob("", "alice", "https://x.test/1", base)); err == nil {
			t.Error("expected error for job without id")
		}
	})
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Put, Get & GetAll", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Users

		for _, name := range []string{"bob", "alice", "Alice"} {
			if err := repo.Put(ctx, &models.UserProfile{Username: name}); err != nil {
				t.Fatalf("failed to put user: %v", err)
			}
		}

		got, found, err := repo.Get(ctx, "alice")
		if err != nil || !found {
			t.Fatalf("expected alice to exist, found=%v err=%v", found, err)
		}
		if got.CreatedAt.IsZero() {
			t.Error("expected creation time to be set")
		}

		if _, found, _ := repo.Get(ctx, "ALICE"); found {
			t.Error("usernames are case-sensitive")
		}

		all, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 users, got %d", len(all))
		}
		if all[0].Username != "Alice" || all[1].Username != "alice" || all[2].Username != "bob" {
			t.Errorf("unexpected order: %s %s %s", all[0].Username, all[1].Username, all[2].Username)
		}
	})

	t.Run("Put Is Idempotent", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Users

		first := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		if err := repo.Put(ctx, &models.UserProfile{Username: "alice", CreatedAt: first}); err != nil {
			t.Fatalf("failed to put user: %v", err)
		}
		if err := repo.Put(ctx, &models.UserProfile{Username: "alice"}); err != nil {
			t.Fatalf("failed to put user again: %v", err)
		}

		got, _, err := repo.Get(ctx, "alice")
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}
		if !got.CreatedAt.Equal(first) {
			t.Errorf("expected original creation time %v, got %v", first, got.CreatedAt)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Users

		if err := repo.Put(ctx, &models.UserProfile{Username: "alice"}); err != nil {
			t.Fatalf("failed to put user: %v", err)
		}
		if err := repo.DeleteMany(ctx, []string{"alice", "ghost"}); err != nil {
			t.Fatalf("failed to delete users: %v", err)
		}
		if err := repo.Delete(ctx, "alice"); err != nil {
			t.Errorf("deleting a missing user should be a no-op: %v", err)
		}
		if _, found, _ := repo.Get(ctx, "alice"); found {
			t.Error("expected alice to be deleted")
		}
	})

	t.Run("Put Requires Username", func(t *testing.T) {
		store := setupTestStore(t)
		if err := store.Users.Put(ctx, &models.UserProfile{}); err == nil {
			t.Error("expected error for empty username")
		}
	})
}

func TestSettingRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Put Replaces Value", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Settings

		if err := repo.Put(ctx, &models.Setting{Name: models.SettingTheme, Value: "light"}); err != nil {
			t.Fatalf("failed to put setting: %v", err)
		}
		if err := repo.Put(ctx, &models.Setting{Name: models.SettingTheme, Value: "dark"}); err != nil {
			t.Fatalf("failed to replace setting: %v", err)
		}

		got, found, err := repo.Get(ctx, models.SettingTheme)
		if err != nil || !found {
			t.Fatalf("expected theme setting, found=%v err=%v", found, err)
		}
		if got.Value != "dark" {
			t.Errorf("expected dark, got %s", got.Value)
		}

		all, err := repo.GetAll(ctx)
		if err != nil {
			t.Fatalf("failed to list settings: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("expected 1 setting, got %d", len(all))
		}
	})

	t.Run("Get Missing & Delete", func(t *testing.T) {
		store := setupTestStore(t)
		repo := store.Settings

		if _, found, err := repo.Get(ctx, "missing"); found || err != nil {
			t.Errorf("expected absent setting without error, found=%v err=%v", found, err)
		}

		if err := repo.Put(ctx, &models.Setting{Name: models.SettingCurrentUser, Value: "alice"}); err != nil {
			t.Fatalf("failed to put setting: %v", err)
		}
		if err := repo.Delete(ctx, models.SettingCurrentUser); err != nil {
			t.Fatalf("failed to delete setting: %v", err)
		}
		if _, found, _ := repo.Get(ctx, models.SettingCurrentUser); found {
			t.Error("expected setting to be deleted")
		}
		if err := repo.DeleteMany(ctx, []string{"a", "b"}); err != nil {
			t.Errorf("deleting missing settings should be a no-op: %v", err)
		}
	})
}
