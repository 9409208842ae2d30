package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/desertthunder/jobtrack/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI over the active user's records.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, closer, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer closer.Close()
	shared.ConfigureLogLevel(fileLogger, r.config.Log.Level)
	r.SetLogger(fileLogger)

	tracker, s, err := r.session(ctx, cmd)
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, tracker, s)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
