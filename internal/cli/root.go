package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/sadopc/saati/internal/config"
	"github.com/sadopc/saati/internal/session"
	"github.com/sadopc/saati/internal/store"
	"github.com/spf13/cobra"
)

// App carries the session every command works against. When Session is
// nil it is opened in the root pre-run from the configuration and flags.
type App struct {
	Session *session.Session
	Config  *config.Config
	Logger  *slog.Logger

	// Now and Location default to time.Now and time.Local.
	Now      func() time.Time
	Location *time.Location

	// IsInteractive reports whether stdout is a terminal. The root command
	// starts the TUI when it does.
	IsInteractive func() bool

	// RunTUI starts the terminal UI over the open session.
	RunTUI func(app *App) error

	closers []io.Closer
}

type rootFlags struct {
	configPath string
	dbPath     string
	guest      bool
}

// NewRootCmd creates the top-level "saati" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:           "saati",
		Short:         "Work time tracker: logs, balances, reports and reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open(cmd, flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() && app.RunTUI != nil {
				return app.RunTUI(app)
			}
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default ~/.config/saati/config.yaml)")
	pf.StringVar(&flags.dbPath, "db", "", "SQLite database path")
	pf.BoolVar(&flags.guest, "guest", false, "Keep everything in memory for this run")

	root.AddCommand(
		newLogCmd(app),
		newTaskCmd(app),
		newProfileCmd(app),
		newReportCmd(app),
		newRemindCmd(app),
		newExportCmd(app),
		newTUICmd(app),
	)

	return root
}

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.RunTUI == nil {
				return errors.New("terminal UI is not available")
			}
			return app.RunTUI(app)
		},
	}
}

// interactiveCommand reports whether cmd draws the full-screen UI, which
// must not share the terminal with log output.
func interactiveCommand(app *App, cmd *cobra.Command) bool {
	if cmd.Name() == "tui" {
		return true
	}
	return !cmd.HasParent() && app.IsInteractive != nil && app.IsInteractive()
}

func (app *App) open(cmd *cobra.Command, flags rootFlags) error {
	if app.Now == nil {
		app.Now = time.Now
	}
	if app.Location == nil {
		app.Location = time.Local
	}
	if app.Session != nil {
		if app.Config == nil {
			app.Config = config.Default()
		}
		return nil
	}

	path := flags.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if flags.guest {
		cfg.Storage.Mode = config.ModeGuest
	}
	if flags.dbPath != "" {
		cfg.Storage.Path = flags.dbPath
	}
	app.Config = cfg

	var fallback io.Writer = os.Stderr
	if interactiveCommand(app, cmd) {
		fallback = io.Discard
	}
	logger, closer, err := cfg.Logger(fallback)
	if err != nil {
		return err
	}
	app.Logger = logger
	app.closers = append(app.closers, closer)

	backend, err := openBackend(cfg)
	if err != nil {
		return err
	}
	s, err := session.Open(context.Background(), backend, session.WithLogger(logger))
	if err != nil {
		backend.Close()
		return err
	}
	app.Session = s
	logger.Debug("storage ready", "mode", cfg.Storage.Mode, "path", cfg.Storage.Path)
	return nil
}

func openBackend(cfg *config.Config) (session.Persistence, error) {
	if cfg.Guest() {
		return store.NewGuest(), nil
	}
	path := cfg.Storage.Path
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}

// Close releases the session and the log file, if any.
func (app *App) Close() error {
	var errs []error
	if app.Session != nil {
		errs = append(errs, app.Session.Close())
		app.Session = nil
	}
	for _, c := range app.closers {
		errs = append(errs, c.Close())
	}
	app.closers = nil
	return errors.Join(errs...)
}

func (app *App) now() time.Time {
	return app.Now().In(app.Location)
}

func (app *App) today() string {
	return app.now().Format("2006-01-02")
}
