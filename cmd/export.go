package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/jobtrack/internal/formatter"
	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export writes the user's records to jobs-<user>-<date>.<ext>, or to standard output with --stdout.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	f, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	if cmd.Bool("stdout") {
		view, err := tracker.ExportView(ctx, s)
		if err != nil {
			return err
		}
		if len(view) == 0 {
			return shared.ErrNoRecords
		}
		data, err := formatter.Render(f, s.User, view)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	dir := cmd.String("dir")
	if dir == "" {
		dir = tracker.Config().ExportDir
	}

	res, err := tracker.Export(ctx, s, dir, f)
	if err != nil {
		return err
	}
	return r.writePlain("✓ Exported %d records to %s\n", res.Count, res.Path)
}
