package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/raocow/internal/formatter"
	"github.com/desertthunder/raocow/internal/graph"
	"github.com/desertthunder/raocow/internal/repositories"
	"github.com/desertthunder/raocow/internal/shared"
	"github.com/desertthunder/raocow/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store is opened on first use so that commands which never touch the catalog
// (help, setup) do not create a database file.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	palette *ui.Palette
	store   graph.Store
	repos   *repositories.Set
	ownsDB  bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer
	Store  graph.Store // optional; opened from Config.Database when nil
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

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		palette: ui.Styles(),
		store:   opts.Store,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, channelCommand, seriesCommand, videoCommand, importCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "raocow",
		Usage:   "Catalog YouTube channels, series and videos",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.before,
		Commands: r.register(),
	}
}

// before loads the config file (when present or explicitly requested) and applies the log level.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil || cmd.IsSet("config") {
		config, err := shared.LoadConfig(path)
		switch {
		case err == nil:
			r.config = config
		case errors.Is(err, shared.ErrMissingConfig) && cmd.Args().First() == "setup":
			// setup database writes the file
		default:
			return ctx, err
		}
	}

	level, err := shared.ParseLogLevel(r.config.Log.Level)
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("debug") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// repositories opens the store on first use and returns the repository set.
func (r *Runner) repositories(ctx context.Context) (*repositories.Set, error) {
	if r.repos != nil {
		return r.repos, nil
	}

	if r.store == nil {
		db := r.config.Database
		r.logger.Debug("opening database", "path", db.Path)
		store, err := graph.OpenSQLite(ctx, db.Path, db.Options())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrStore, err)
		}
		r.store = store
		r.ownsDB = true
	}

	r.repos = repositories.New(r.store, repositories.OptionsFromConfig(r.config, r.logger))
	return r.repos, nil
}

// Close releases the store if the runner opened it.
func (r *Runner) Close() error {
	if !r.ownsDB || r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store, r.repos, r.ownsDB = nil, nil, false
	return err
}

func (r *Runner) render(cmd *cli.Command, table formatter.Table, data any) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	return formatter.Write(r.output, format, table, data)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

func (r *Runner) writeSuccess(format string, args ...any) error {
	return r.writePlain("%s\n", r.palette.Success(format, args...))
}

// requireArg returns the named positional argument or [shared.ErrMissingArgument].
func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// exitCode maps an action error onto the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, shared.ErrNotFound):
		return 3
	case shared.IsExpected(err):
		return 2
	default:
		return 1
	}
}
