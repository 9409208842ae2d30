package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login records the username and makes it the active namespace.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.Tracker(ctx)
	if err != nil {
		return err
	}

	s, err := tracker.Login(ctx, cmd.StringArg("username"))
	if err != nil {
		return err
	}

	r.logger.Info("logged in", "user", s.User)
	return r.writePlain("✓ Logged in as %s\n", s.User)
}

// Logout forgets the active user. Records are kept.
func (r *Runner) Logout(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.Tracker(ctx)
	if err != nil {
		return err
	}

	if err := tracker.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}

// Whoami prints the active user.
func (r *Runner) Whoami(ctx context.Context, cmd *cli.Command) error {
	_, s, err := r.session(ctx, cmd)
	if errors.Is(err, shared.ErrNoSession) {
		return r.writePlain("Not logged in\n")
	}
	if err != nil {
		return err
	}
	return r.writePlain("%s\n", s.User)
}

// Users lists every known username.
func (r *Runner) Users(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.Tracker(ctx)
	if err != nil {
		return err
	}

	users, err := tracker.ListUsers(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	if len(users) == 0 {
		return r.writePlain("No users yet, run 'jobtrack login <username>'\n")
	}

	current, _ := tracker.Resume(ctx)
	for _, u := range users {
		marker := " "
		if u.Username == current.User {
			marker = "*"
		}
		if err := r.writePlain("%s %s\n", marker, u.Username); err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
	}
	return nil
}
