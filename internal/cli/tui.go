package cli

import (
	"path/filepath"

	"tasklist-cli/internal/logging"
	"tasklist-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive TUI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := app.dataStore()
	if err != nil {
		return writeErr(cmd, err)
	}
	// Log to a file; stderr would draw over the alternate screen.
	level, _ := logging.ParseLevel(app.LogLevel)
	logger, closeLog, err := logging.NewFile(filepath.Join(s.Dir, "tui.log"), level)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closeLog()
	app.logger = logger

	sess, s, err := openSession(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	var opts tui.Options
	if app.cfg != nil && app.cfg.TUI != nil {
		opts.NoColor = app.cfg.TUI.NoColor
		opts.ConfirmDelete = app.cfg.TUI.ConfirmDelete
	}
	opts.Logger = logger
	return tui.Run(cmd.Context(), s, sess, opts)
}
