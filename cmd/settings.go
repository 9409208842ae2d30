package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/urfave/cli/v3"
)

// SettingsList prints every setting as key = value.
func (r *Runner) SettingsList(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.Tracker(ctx)
	if err != nil {
		return err
	}

	settings, err := tracker.ListSettings(ctx)
	if err != nil {
		return err
	}
	if len(settings) == 0 {
		return r.writePlain("No settings\n")
	}
	for _, st := range settings {
		r.writePlain("%s = %s\n", st.Name, st.Value)
	}
	return nil
}

// SettingsGet prints the value of one setting.
func (r *Runner) SettingsGet(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.Tracker(ctx)
	if err != nil {
		return err
	}

	key := cmd.StringArg("key")
	value, found, err := tracker.GetSetting(ctx, key)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: setting %q", shared.ErrNotFound, key)
	}
	return r.writePlain("%s\n", value)
}

// SettingsSet replaces the value of one setting.
func (r *Runner) SettingsSet(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.Tracker(ctx)
	if err != nil {
		return err
	}

	key, value := cmd.StringArg("key"), cmd.StringArg("value")
	if err := tracker.SetSetting(ctx, key, value); err != nil {
		return err
	}
	return r.writePlain("✓ %s = %s\n", key, value)
}
