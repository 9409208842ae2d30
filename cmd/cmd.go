// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// recordFlags are the editable job record fields.
func recordFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "company", Usage: "Company name"},
		&cli.StringFlag{Name: "title", Usage: "Job title"},
		&cli.StringFlag{Name: "link", Usage: "Job posting URL"},
		&cli.StringFlag{Name: "date", Usage: "Application date (YYYY-MM-DD, default today)"},
		&cli.StringFlag{Name: "country", Usage: "Country name"},
		&cli.StringFlag{Name: "recruiter", Usage: "Recruiter email & phone"},
		&cli.StringFlag{Name: "status", Usage: "Application status (default Applied)"},
		&cli.StringFlag{Name: "remarks", Usage: "Response remarks"},
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Export format: csv, json, markdown or txt",
		Value:   "csv",
	}
}

// setupCommand handles setup operations for the config file and database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the config file if missing, initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "migrations",
				Usage: "List applied migration versions",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "rollback", Usage: "Roll back the latest migration"},
				},
				Action: r.SetupMigrations,
			},
		},
	}
}

func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "login",
		Usage:     "Remember a user as the active namespace",
		ArgsUsage: "<username>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "username"},
		},
		Action: r.Login,
	}
}

func logoutCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Forget the active user",
		Action: r.Logout,
	}
}

func whoamiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Print the active user",
		Action: r.Whoami,
	}
}

func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "List known users",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.Users,
	}
}

// jobsCommand handles job record operations for the active user.
func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "Job application records",
		Commands: []*cli.Command{
			{
				Name:   "add",
				Usage:  "Add a job, or update the record already tracking its link",
				Flags:  recordFlags(),
				Action: r.JobsAdd,
			},
			{
				Name:      "edit",
				Usage:     "Edit a record by ID; unset flags keep their value",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     recordFlags(),
				Action:    r.JobsEdit,
			},
			{
				Name:    "list",
				Aliases: []string{"ls", "search"},
				Usage:   "List records, most recently updated first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Case-insensitive substring filter"},
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Page size (default from config)"},
					&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "Page number, starting at 1", Value: 1},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print JSON output"},
				},
				Action: r.JobsList,
			},
			{
				Name:      "show",
				Usage:     "Show one record",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "open", Usage: "Open the job link in the browser"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.JobsShow,
			},
			{
				Name:      "check",
				Usage:     "Report whether a link is already tracked",
				ArgsUsage: "<link>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "link"}},
				Action:    r.JobsCheck,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete one record",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.JobsDelete,
			},
			{
				Name:  "clear",
				Usage: "Back up and then delete every record of the active user",
				Flags: []cli.Flag{
					formatFlag(),
					&cli.StringFlag{Name: "dir", Usage: "Backup directory (default from config)"},
					&cli.BoolFlag{Name: "no-backup", Usage: "Delete without writing a backup"},
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Do not ask for confirmation"},
				},
				Action: r.JobsClear,
			},
			{
				Name:      "scrape",
				Usage:     "Fetch a job page and print the extracted fields",
				ArgsUsage: "<url>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "save", Usage: "Save the extracted record"},
				},
				Action: r.JobsScrape,
			},
			{
				Name:      "import",
				Usage:     "Scrape and save many job links",
				ArgsUsage: "[link...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "file", Usage: "Read links from a file, one per line"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent fetches (default from config)"},
					&cli.FloatFlag{Name: "rate", Usage: "Fetches per second (default from config)"},
					&cli.StringFlag{Name: "status", Usage: "Status for new records"},
					&cli.StringFlag{Name: "date", Usage: "Application date for new records"},
				},
				Action: r.JobsImport,
			},
			{
				Name:   "reindex",
				Usage:  "Recompute link keys and timestamps of every record",
				Action: r.JobsReindex,
			},
		},
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the active user's records, oldest application first",
		Flags: []cli.Flag{
			formatFlag(),
			&cli.StringFlag{Name: "dir", Usage: "Output directory (default from config)"},
			&cli.BoolFlag{Name: "stdout", Usage: "Write to standard output instead of a file"},
		},
		Action: r.Export,
	}
}

func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Key/value preferences",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List every setting",
				Action: r.SettingsList,
			},
			{
				Name:      "get",
				Usage:     "Print one setting",
				ArgsUsage: "<key>",
				Arguments: []cli.Argument{&cli.StringArg{Name: "key"}},
				Action:    r.SettingsGet,
			},
			{
				Name:      "set",
				Usage:     "Replace one setting",
				ArgsUsage: "<key> <value>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "key"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.SettingsSet,
			},
		},
	}
}

func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API for the browser extension",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Listen host (default from config)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (default from config)"},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for browsing records interactively.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Browse the active user's records in a terminal UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-file", Usage: "Write logs here while the UI runs", Value: "./tmp/jobtrack-tui.log"},
		},
		Action: r.TUI,
	}
}
