// Package cli wires the notas command line: the interactive TUI as the
// default action and one-shot subcommands that print with internal/ui.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/idilsaglam/notas/internal/config"
	"github.com/idilsaglam/notas/internal/logging"
	"github.com/idilsaglam/notas/internal/session"
	"github.com/idilsaglam/notas/internal/store/remote"
	"github.com/idilsaglam/notas/internal/ui"
	pkgconfig "github.com/idilsaglam/notas/pkg/config"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// App holds what the commands share. Zero fields fall back to the process
// defaults.
type App struct {
	Version string
	Stdin   io.Reader

	// Interactive runs the default action. Nil makes the bare command a
	// usage error.
	Interactive func(ctx context.Context, rt *Runtime) error
}

// Runtime is built once the flags are parsed.
type Runtime struct {
	Config *config.Config
	Log    *logging.Logger
	Store  *remote.Client
	Ctl    *session.Controller
}

// Close releases the log file.
func (rt *Runtime) Close() {
	_ = rt.Log.Close()
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	err := a.Command().Run(ctx, args)
	if err == nil {
		return ExitOK
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			ui.Fail(msg)
		}
		return ec.ExitCode()
	}
	ui.Fail(err.Error())
	return ExitError
}

// Command builds the root command.
func (a *App) Command() *cli.Command {
	return &cli.Command{
		Name:                  "notas",
		Usage:                 "Terminal client for the notas notes service",
		Version:               a.Version,
		Writer:                ui.Stdout,
		ErrWriter:             ui.Stderr,
		EnableShellCompletion: true,
		ExitErrHandler:        func(context.Context, *cli.Command, error) {},
		OnUsageError:          usageError,
		Flags:                 globalFlags(),
		Action:                a.runInteractive,
		Commands: []*cli.Command{
			a.lsCommand(),
			a.searchCommand(),
			a.showCommand(),
			a.addCommand(),
			a.editCommand(),
			a.rmCommand(),
			a.mcpCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (missing file means defaults)",
			Value:   "config.yaml",
			Sources: cli.EnvVars("NOTAS_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL of the notas service",
			Sources: cli.EnvVars("NOTAS_BASE_URL"),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level (trace, debug, info, warn, error)",
			Sources: cli.EnvVars("NOTAS_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:    "log-file",
			Usage:   "Write logs to this file",
			Sources: cli.EnvVars("NOTAS_LOG_FILE"),
		},
		&cli.StringFlag{
			Name:  "theme",
			Usage: "Output theme: classic, neon, mono",
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output (also when NO_COLOR is set to any value)",
		},
	}
}

func usageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return cli.Exit(err.Error(), ExitUsage)
}

func usage(format string, args ...any) error {
	return cli.Exit(fmt.Sprintf("usage: "+format, args...), ExitUsage)
}

// loadConfig reads the file named by --config and applies flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, err
	}

	if cmd.IsSet("base-url") {
		cfg.API.BaseURL = cmd.String("base-url")
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}
	if cmd.IsSet("log-file") {
		cfg.Log.File = cmd.String("log-file")
	}
	if cmd.IsSet("theme") {
		cfg.UI.Theme = cmd.String("theme")
	}
	// NO_COLOR counts when set to anything non-empty (no-color.org).
	if cmd.Bool("no-color") || os.Getenv("NO_COLOR") != "" {
		cfg.UI.NoColor = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// setup builds the runtime. Interactive sessions log to a file since the
// TUI owns the terminal; one-shot commands log warnings to stderr.
func (a *App) setup(cmd *cli.Command, interactive bool) (*Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cli.Exit(err.Error(), ExitUsage)
	}

	ui.SetTheme(cfg.UI.Theme)
	if cfg.UI.NoColor {
		ui.SetColorMode(ui.ColorNever)
	}

	lb := logging.New().Level(cfg.Log.Level)
	switch {
	case cfg.Log.File != "":
		lb = lb.FromPath(cfg.Log.File)
	case interactive:
		lb = lb.FromPath(config.DefaultLogFile())
	default:
		lb = lb.FromWriter(ui.Stderr)
		if !cmd.IsSet("log-level") {
			lb = lb.Level("warn")
		}
	}
	log, err := lb.Make()
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	store := remote.New(cfg.API.BaseURL,
		remote.WithTimeout(cfg.API.Timeout),
		remote.WithLogger(log.With().Str("component", "remote").Logger()),
	)
	ctl := session.New(store, session.WithLogger(log.With().Str("component", "session").Logger()))

	log.Debug().Str("base_url", cfg.API.BaseURL).Bool("interactive", interactive).Msg("runtime ready")
	return &Runtime{Config: cfg, Log: log, Store: store, Ctl: ctl}, nil
}

func (a *App) stdin() io.Reader {
	if a.Stdin != nil {
		return a.Stdin
	}
	return os.Stdin
}

func (a *App) runInteractive(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return usage("notas [global options] [command]; unknown command %q", cmd.Args().First())
	}
	if a.Interactive == nil {
		return usage("notas [global options] <command>")
	}
	rt, err := a.setup(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()
	return a.Interactive(ctx, rt)
}
