package main

import (
	"context"

	"github.com/desertthunder/jobtrack/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the JSON API until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	tracker, err := r.Tracker(ctx)
	if err != nil {
		return err
	}

	cfg := r.config.Server
	if cmd.IsSet("host") {
		cfg.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}

	api := server.NewAPI(tracker, r.Scraper(), cfg, r.logger)
	return server.Serve(ctx, cfg.Addr(), api, r.logger)
}
