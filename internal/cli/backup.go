package cli

import (
	"os"

	"tasklist-cli/internal/store"

	"github.com/spf13/cobra"
)

const (
	eventBackupRestore = "backup.restore"
	eventImportJSON    = "import.json"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write or restore compressed snapshots",
	}

	createCmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Write a zstd-compressed snapshot of all lists and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			m, err := store.WriteBackup(args[0], sess.DB)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": m,
				"meta": map[string]any{"path": args[0]},
			})
		},
	}

	restoreCmd := &cobra.Command{
		Use:   "restore <path>",
		Short: "Replace all lists and tasks with a snapshot (clears undo history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, m, err := store.ReadBackup(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := replaceState(cmd, app, db, eventBackupRestore, map[string]any{"path": args[0], "createdAt": m.CreatedAt}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": m})
		},
	}

	cmd.AddCommand(createCmd)
	cmd.AddCommand(restoreCmd)
	return cmd
}

func newImportJSONCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import-json <file>",
		Short: "Replace all lists and tasks with a todos.json export (clears undo history)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			db, err := store.ParseLegacyJSON(b)
			if err != nil {
				return writeErr(cmd, err)
			}
			payload := map[string]any{"file": args[0], "lists": len(db.Lists), "tasks": len(db.Tasks)}
			if err := replaceState(cmd, app, db, eventImportJSON, payload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": payload})
		},
	}
}

// replaceState saves db as the whole state with an empty undo history.
func replaceState(cmd *cobra.Command, app *App, db *store.DB, eventType string, payload map[string]any) error {
	s, err := app.dataStore()
	if err != nil {
		return err
	}
	store.NormalizeAllPartitions(db)
	if err := s.Save(cmd.Context(), db, nil); err != nil {
		return err
	}
	return s.AppendEvent(cmd.Context(), eventType, "", payload)
}
