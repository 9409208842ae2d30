package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
	tu "github.com/desertthunder/jobtrack/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			scraper := &tu.MockScraper{}
			store := tu.NewTestStore(t)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Scraper:    scraper,
				Store:      store,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.Scraper() != scraper {
				t.Error("expected scraper to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses scraper timeout", func(t *testing.T) {
			config := shared.DefaultConfig()
			runner := NewRunner(RunnerOpts{Config: config})

			if runner.httpClient == nil || runner.httpClient.Timeout != config.Scraper.Timeout() {
				t.Errorf("expected client with %v timeout", config.Scraper.Timeout())
			}
		})

		t.Run("builds page scraper lazily", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.scraper != nil {
				t.Fatal("expected no scraper before first use")
			}
			if runner.Scraper() == nil {
				t.Error("expected a page scraper")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("Before", func(t *testing.T) {
		t.Run("loads config file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "jobtrack.toml")
			conf := "[database]\npath = \":memory:\"\n\n[tracker]\npage_size = 3\n"
			if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
				t.Fatal(err)
			}

			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(io.Discard)})
			if err := runner.app().Run(context.Background(), []string{"jobtrack", "-c", path, "settings", "list"}); err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if runner.config.Tracker.PageSize != 3 {
				t.Errorf("expected page size from file, got %d", runner.config.Tracker.PageSize)
			}
			if runner.store != nil {
				t.Error("expected After to close the store it opened")
			}
		})

		t.Run("rejects invalid config", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "jobtrack.toml")
			if err := os.WriteFile(path, []byte("[tracker]\npage_size = 0\n"), 0644); err != nil {
				t.Fatal(err)
			}

			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(io.Discard)})
			err := runner.app().Run(context.Background(), []string{"jobtrack", "-c", path, "whoami"})
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{shared.ErrNoSession, 2},
		{&shared.ValidationError{Fields: []string{"jobLink"}}, 2},
		{shared.ErrNotFound, 3},
		{shared.ErrNoRecords, 3},
		{shared.ErrDuplicateLink, 4},
		{errors.New("disk on fire"), 1},
	}

	for _, tt := range tests {
		if got := exitCode(tt.err); got != tt.want {
			t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestReadLinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.txt")
	content := "# saved searches\nhttps://x.test/1\n\n  https://x.test/2  \n#https://x.test/3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	links, err := readLinks(path)
	if err != nil {
		t.Fatalf("readLinks() error = %v", err)
	}
	if len(links) != 2 || links[0] != "https://x.test/1" || links[1] != "https://x.test/2" {
		t.Errorf("unexpected links %v", links)
	}

	if _, err := readLinks(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCandidateFlagsKeepUnsetFields(t *testing.T) {
	r, _ := newTestRunner(t)
	run(t, r, "login", "alice")
	run(t, r, "jobs", "add", "--company", "Acme", "--title", "SRE", "--link", "https://x.test/1", "--remarks", "via referral")

	rec := onlyRecord(t, r, "alice")
	run(t, r, "jobs", "edit", "--status", "Interview", rec.ID)

	got := onlyRecord(t, r, "alice")
	if got.Status != "Interview" || got.ResponseRemarks != "via referral" || got.CompanyName != "Acme" {
		t.Errorf("edit must only change set flags, got %+v", got)
	}
	if got.ID != rec.ID || !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("edit must keep identity, got %+v", got)
	}
}

func onlyRecord(t *testing.T, r *Runner, user string) *models.JobRecord {
	t.Helper()

	page, err := r.tracker.Search(context.Background(), models.NewSession(user), models.Query{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if page.Total != 1 {
		t.Fatalf("expected one record, got %d", page.Total)
	}
	return page.Records[0]
}
