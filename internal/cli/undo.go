package cli

import (
	"fmt"

	"tasklist-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newUndoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !sess.History.CanUndo() {
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"undone": false},
					"meta": map[string]any{"reason": "nothing to undo"},
				})
			}
			typ, ok := sess.Undo()
			if !ok {
				app.logger.Warn("undo failed", "type", string(typ))
				return writeOut(cmd, app, map[string]any{
					"data": map[string]any{"undone": false, "type": string(typ)},
					"meta": map[string]any{"reason": fmt.Sprintf("could not undo %s; history kept", typ)},
				})
			}
			if err := commit(cmd, s, sess, mutate.EventUndo, "", map[string]any{"type": string(typ)}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"undone": true, "type": string(typ)},
				"meta": map[string]any{"remaining": sess.History.Size()},
			})
		},
	}
	return cmd
}
