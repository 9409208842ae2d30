package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/jobtrack/internal/models"
	"github.com/desertthunder/jobtrack/internal/repositories"
	"github.com/desertthunder/jobtrack/internal/services"
	"github.com/desertthunder/jobtrack/internal/shared"
	"github.com/desertthunder/jobtrack/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "jobtrack.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store is opened on first use so help output and config commands never touch the database.
type Runner struct {
	config     *shared.Config
	configPath string
	store      *repositories.Store
	ownsStore  bool
	tracker    *tasks.Tracker
	scraper    services.Scraper
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	openLink   func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Store      *repositories.Store
	Scraper    services.Scraper
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.Scraper.Timeout()}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		store:      opts.Store,
		scraper:    opts.Scraper,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		openLink:   shared.OpenLink,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, loginCommand, logoutCommand, whoamiCommand, usersCommand,
		jobsCommand, exportCommand, settingsCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config and applies its log level.
//
// A missing config file is not an error; the embedded defaults apply.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if path == "" {
		path = defaultConfigPath
	}
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else if cmd.IsSet("config") {
		r.logger.Warn("config file not found, using defaults", "path", path)
	}

	shared.ConfigureLogLevel(r.logger, r.config.Log.Level)
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// After closes the store when the runner opened it.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil || !r.ownsStore {
		return nil
	}
	err := r.store.Close()
	r.store, r.tracker, r.ownsStore = nil, nil, false
	return err
}

// SetLogger replaces the logger. The tracker is rebuilt on next use so it logs to l too.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	r.tracker = nil
}

// Tracker returns the tracker, opening the configured store on first use.
func (r *Runner) Tracker(ctx context.Context) (*tasks.Tracker, error) {
	if r.tracker != nil {
		return r.tracker, nil
	}

	if r.store == nil {
		r.logger.Debug("opening store", "path", r.config.Database.Path)
		store, err := repositories.OpenStore(ctx, r.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		r.store = store
		r.ownsStore = true
	}

	r.tracker = tasks.NewTracker(r.store.Jobs, r.store.Users, r.store.Settings, r.config.Tracker, r.logger)
	r.tracker.SetScraper(r.Scraper())
	return r.tracker, nil
}

// Scraper returns the page scraper built from the scraper config.
func (r *Runner) Scraper() services.Scraper {
	if r.scraper == nil {
		r.scraper = services.NewPageScraper(r.config.Scraper, r.httpClient)
	}
	return r.scraper
}

// session resolves the acting user: the --user flag, then the remembered current user.
func (r *Runner) session(ctx context.Context, cmd *cli.Command) (*tasks.Tracker, models.Session, error) {
	tracker, err := r.Tracker(ctx)
	if err != nil {
		return nil, models.Session{}, err
	}

	if s := models.NewSession(cmd.String("user")); s.Valid() {
		return tracker, s, nil
	}

	s, err := tracker.Resume(ctx)
	if err != nil {
		return nil, models.Session{}, err
	}
	return tracker, s, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// exitCode maps an error returned by a command to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrNoSession),
		errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrInvalidFlag),
		errors.Is(err, shared.ErrMissingArgument),
		errors.Is(err, shared.ErrInvalidUsername):
		return 2
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrNoRecords):
		return 3
	case errors.Is(err, shared.ErrDuplicateLink):
		return 4
	}
	return 1
}
