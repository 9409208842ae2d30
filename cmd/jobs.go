package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/jobtrack/internal/formatter"
	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/desertthunder/jobtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

// candidateFromFlags overlays every record flag set on cmd onto base.
func candidateFromFlags(cmd *cli.Command, base models.Candidate) models.Candidate {
	fields := []struct {
		flag string
		dst  *string
	}{
		{"company", &base.CompanyName},
		{"title", &base.JobTitle},
		{"link", &base.JobLink},
		{"date", &base.ApplicationDate},
		{"country", &base.CountryName},
		{"recruiter", &base.Recruiter},
		{"status", &base.Status},
		{"remarks", &base.ResponseRemarks},
	}
	for _, f := range fields {
		if cmd.IsSet(f.flag) {
			*f.dst = cmd.String(f.flag)
		}
	}
	return base
}

// JobsAdd saves a new record, or updates the record already tracking the same link.
func (r *Runner) JobsAdd(ctx context.Context, cmd *cli.Command) error {
	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	res, err := tracker.Upsert(ctx, s, candidateFromFlags(cmd, models.Candidate{}))
	if err != nil {
		return err
	}
	return r.writeUpsert(cmd, tracker, res)
}

// JobsEdit changes the fields given as flags on the record with the given ID.
func (r *Runner) JobsEdit(ctx context.Context, cmd *cli.Command) error {
	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: record id", shared.ErrMissingArgument)
	}

	rec, found, err := tracker.Get(ctx, s, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}

	c := candidateFromFlags(cmd, models.CandidateOf(rec))
	c.ID = id

	res, err := tracker.Upsert(ctx, s, c)
	if err != nil {
		return err
	}
	return r.writeUpsert(cmd, tracker, res)
}

func (r *Runner) writeUpsert(cmd *cli.Command, tracker *tasks.Tracker, res *tasks.UpsertResult) error {
	if cmd.Bool("json") {
		return r.writeJSON(res, true)
	}

	verb := "Updated"
	if res.Created {
		verb = "Added"
	}
	rec := res.Record
	r.writePlain("✓ %s %s • %s (%s)\n", verb, rec.CompanyName, rec.JobTitle, rec.ID)

	if res.GoalReached {
		r.writePlain("🎉 %d applications on %s, past your daily goal of %d!\n",
			res.AppliedOnDate, rec.ApplicationDate, tracker.Config().DailyGoal)
	}
	return nil
}

// JobsList prints one page of the user's records, optionally filtered.
func (r *Runner) JobsList(ctx context.Context, cmd *cli.Command) error {
	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	limit := cmd.Int("limit")
	if limit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", shared.ErrInvalidArgument)
	}
	if limit == 0 {
		limit = tracker.Config().PageSize
	}
	pageNum := cmd.Int("page")
	if pageNum < 1 {
		return fmt.Errorf("%w: --page starts at 1", shared.ErrInvalidArgument)
	}

	page, err := tracker.Search(ctx, s, models.Query{
		Text:   cmd.String("query"),
		Limit:  limit,
		Offset: (pageNum - 1) * limit,
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	if page.Total == 0 {
		return r.writePlain("No job applications for %s\n", s.User)
	}
	if len(page.Records) == 0 {
		return r.writePlain("Page %d is past the last page (%d records)\n", pageNum, page.Total)
	}

	r.writePlain("%s\n", recordTable(page.Records))

	pages := (page.Total + limit - 1) / limit
	r.writePlain("Page %d of %d • %d records", pageNum, pages, page.Total)
	if page.HasMore {
		r.writePlain(" • next: --page %d", pageNum+1)
	}
	return r.writePlain("\n")
}

func recordTable(records []*models.JobRecord) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			rec.ApplicationDate,
			rec.CompanyName,
			rec.JobTitle,
			rec.Status,
			rec.CountryName,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		}).
		Headers("ID", "Applied", "Company", "Title", "Status", "Country").
		Rows(rows...).
		String()
}

// JobsShow prints every field of one record.
func (r *Runner) JobsShow(ctx context.Context, cmd *cli.Command) error {
	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	id := cmd.StringArg("id")
	rec, found, err := tracker.Get(ctx, s, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(rec, true); err != nil {
			return err
		}
	} else {
		r.writePlainHeader(fmt.Sprintf("%s • %s", rec.CompanyName, rec.JobTitle))
		for _, row := range [][2]string{
			{"ID", rec.ID},
			{"Applied", rec.ApplicationDate},
			{"Status", rec.Status},
			{"Country", rec.CountryName},
			{"Recruiter", rec.Recruiter},
			{"Link", rec.JobLink},
			{"Remarks", rec.ResponseRemarks},
		} {
			r.writePlain("%-10s %s\n", row[0]+":", row[1])
		}
	}

	if cmd.Bool("open") {
		if err := r.openLink(rec.JobLink); err != nil {
			return err
		}
		r.logger.Info("opened job link", "link", rec.JobLink)
	}
	return nil
}

// JobsCheck reports the record that already tracks a link, if any.
func (r *Runner) JobsCheck(ctx context.Context, cmd *cli.Command) error {
	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	link := strings.TrimSpace(cmd.StringArg("link"))
	if link == "" {
		return fmt.Errorf("%w: link", shared.ErrMissingArgument)
	}

	rec, err := tracker.FindDuplicate(ctx, s, models.Candidate{JobLink: link})
	if err != nil {
		return err
	}
	if rec == nil {
		return r.writePlain("Not tracked yet\n")
	}
	return r.writePlain("Already tracked: %s • %s, %s on %s (%s)\n",
		rec.CompanyName, rec.JobTitle, rec.Status, rec.ApplicationDate, rec.ID)
}

// JobsDelete removes one record.
func (r *Runner) JobsDelete(ctx context.Context, cmd *cli.Command) error {
	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	id := cmd.StringArg("id")
	deleted, err := tracker.Delete(ctx, s, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", shared.ErrNotFound, id)
	}
	return r.writePlain("✓ Deleted %s\n", id)
}

// JobsClear deletes every record of the user, after writing a backup unless --no-backup is set.
func (r *Runner) JobsClear(ctx context.Context, cmd *cli.Command) error {
	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") {
		ok, err := r.confirm(fmt.Sprintf("Delete every job record of %s?", s.User))
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Aborted\n")
		}
	}

	if cmd.Bool("no-backup") {
		n, err := tracker.DeleteAllForUser(ctx, s)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Deleted %d records\n", n)
	}

	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	dir := cmd.String("dir")
	if dir == "" {
		dir = tracker.Config().BackupDir
	}

	res, err := tracker.ClearWithBackup(ctx, s, dir, f)
	if err != nil {
		return err
	}
	if res.Backup == nil {
		return r.writePlain("Nothing to clear\n")
	}
	r.writePlain("✓ Backed up %d records to %s\n", res.Backup.Count, res.Backup.Path)
	return r.writePlain("✓ Deleted %d records\n", res.Deleted)
}

// confirm asks a yes/no question on the runner's input. Anything but y or yes declines.
func (r *Runner) confirm(question string) (bool, error) {
	r.writePlain("%s [y/N] ", question)

	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// JobsScrape fetches a job page and prints the extracted candidate, optionally saving it.
func (r *Runner) JobsScrape(ctx context.Context, cmd *cli.Command) error {
	link := strings.TrimSpace(cmd.StringArg("url"))
	if link == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	c, err := r.Scraper().Scrape(ctx, link)
	if err != nil {
		return err
	}

	if !cmd.Bool("save") {
		return r.writeJSON(c, true)
	}

	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}
	res, err := tracker.Upsert(ctx, s, *c)
	if err != nil {
		return err
	}
	return r.writeUpsert(cmd, tracker, res)
}

// JobsImport scrapes and saves every link given as an argument or listed in --file.
func (r *Runner) JobsImport(ctx context.Context, cmd *cli.Command) error {
	links := cmd.Args().Slice()
	if path := cmd.String("file"); path != "" {
		fromFile, err := readLinks(path)
		if err != nil {
			return err
		}
		links = append(links, fromFile...)
	}
	if len(links) == 0 {
		return fmt.Errorf("%w: pass links as arguments or with --file", shared.ErrMissingArgument)
	}

	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	opts := tasks.ImportOpts{
		Workers:         r.config.Scraper.Workers,
		RateLimit:       r.config.Scraper.RateLimit,
		Status:          cmd.String("status"),
		ApplicationDate: cmd.String("date"),
	}
	if cmd.IsSet("workers") {
		opts.Workers = cmd.Int("workers")
	}
	if cmd.IsSet("rate") {
		opts.RateLimit = cmd.Float("rate")
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.QueueLinks:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SaveRecord:
				r.writePlain("   ✓ %s\n", update.Message)
			case tasks.ImportFailed:
				r.writePlain("   ✗ %s\n", update.Message)
			}
		}
	}()

	result, err := tracker.Import(ctx, s, links, opts, progressCh)
	close(progressCh)
	<-done

	if result == nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Import Complete")
	r.writePlain("Links: %d\n", result.Total)
	r.writePlain("Added: %d • Updated: %d • Failed: %d\n", result.Created, result.Updated, result.Failed)

	if result.Failed > 0 {
		r.writePlain("\nFailed links:\n")
		for _, item := range result.Items {
			if item.Err != nil {
				r.writePlain("  - %s: %s\n", item.Link, item.Error)
			}
		}
	}
	return err
}

// readLinks reads one link per line, skipping blank lines and # comments.
func readLinks(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open links file: %w", err)
	}
	defer f.Close()

	var links []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		links = append(links, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read links file: %w", err)
	}
	return links, nil
}

// JobsReindex rewrites every record so stored link keys match the current normalizer.
func (r *Runner) JobsReindex(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.Tracker(ctx)
	if err != nil {
		return err
	}

	n, err := tracker.Reindex(ctx)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Reindexed %d records\n", n)
}
