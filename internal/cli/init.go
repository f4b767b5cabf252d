package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"
)

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := commit(cmd, s, sess, "", "", nil); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"dir":        s.Dir,
					"sqlitePath": filepath.Join(s.Dir, "tasklist.sqlite"),
					"lists":      len(sess.DB.Lists),
					"tasks":      len(sess.DB.Tasks),
				},
			})
		},
	}
	return cmd
}
