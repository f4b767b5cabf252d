package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"tasklist-cli/internal/format"
	"tasklist-cli/internal/logging"
	"tasklist-cli/internal/mutate"
	"tasklist-cli/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	LogLevel   string
	UndoLimit  int

	cfg    *store.GlobalConfig
	logger *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tasklist",
		Short:        "Local task lists (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tasklist

  # Scriptable commands
  tasklist tasks add "buy milk"
  tasklist tasks reorder task-abc --before task-def
  tasklist undo
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.configure(cmd); err != nil {
			return writeErr(cmd, err)
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TASKLIST_DIR", ""), "Path to the data dir (default: project-local .tasklist, then config dataDir, then ~/.tasklist/data)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TASKLIST_FORMAT", "json"), "Output format (json|yaml|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("TASKLIST_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newUndoCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newPasteCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newClearCompletedCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newImportJSONCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// configure applies config.json under flags and env vars.
// Precedence: flag > env > config file > default.
func (app *App) configure(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return err
	}
	app.cfg = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") && os.Getenv("TASKLIST_FORMAT") == "" && cfg.Format != "" {
		app.Format = cfg.Format
	}
	if !format.Valid(app.Format) {
		return fmt.Errorf("unknown format: %s", app.Format)
	}
	if !flags.Changed("log-level") && os.Getenv("TASKLIST_LOG_LEVEL") == "" && cfg.LogLevel != "" {
		app.LogLevel = cfg.LogLevel
	}
	level, err := logging.ParseLevel(app.LogLevel)
	if err != nil {
		return err
	}
	app.logger = logging.New(cmd.ErrOrStderr(), level)

	app.UndoLimit = cfg.UndoLimit
	if v := strings.TrimSpace(os.Getenv("TASKLIST_UNDO_LIMIT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TASKLIST_UNDO_LIMIT: %w", err)
		}
		app.UndoLimit = n
	}
	return nil
}

func (app *App) dataStore() (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir(app.cfg)
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir, Logger: app.logger}, nil
}

// openSession loads the data dir into a session. Lists with tasks that lack order keys
// are normalized and saved before anything else happens.
func openSession(cmd *cobra.Command, app *App) (*mutate.Session, store.Store, error) {
	s, err := app.dataStore()
	if err != nil {
		return nil, store.Store{}, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	db, history, err := s.Load(ctx)
	if err != nil {
		return nil, s, err
	}
	sess := mutate.NewSession(db, history, mutate.Options{UndoLimit: app.UndoLimit, Logger: app.logger})
	if sess.NormalizeAll() {
		app.logger.Info("assigned missing order keys", "dir", s.Dir)
		if err := s.Save(ctx, sess.DB, sess.History.Actions()); err != nil {
			return nil, s, err
		}
	}
	return sess, s, nil
}

// commit persists the session and appends one event for the mutation.
func commit(cmd *cobra.Command, s store.Store, sess *mutate.Session, eventType, entityID string, payload any) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.Save(ctx, sess.DB, sess.History.Actions()); err != nil {
		return err
	}
	if eventType == "" {
		return nil
	}
	return s.AppendEvent(ctx, eventType, entityID, payload)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut writes v in the selected format. Text output drops the {"data": ...}
// envelope.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if strings.EqualFold(strings.TrimSpace(app.Format), "text") {
		if m, ok := v.(map[string]any); ok {
			if d, ok := m["data"]; ok {
				v = d
			}
		}
	}
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
