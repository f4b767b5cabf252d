package cli

import (
	"io"
	"os"

	"tasklist-cli/internal/clip"
	"tasklist-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newPasteCmd(app *App) *cobra.Command {
	var list string
	cmd := &cobra.Command{
		Use:   "paste [file|-]",
		Short: "Add one task per line/bullet/checkbox of pasted text (stdin by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				r = f
			}
			b, err := io.ReadAll(r)
			if err != nil {
				return writeErr(cmd, err)
			}

			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			parsed := clip.Parse(string(b))
			items := make([]mutate.ImportItem, 0, len(parsed))
			for _, it := range parsed {
				items = append(items, mutate.ImportItem{Text: it.Text, Completed: it.Completed})
			}
			res, err := sess.ImportTodos(items, listOrCurrent(sess, list))
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd, s, sess, mutate.EventTaskImport, "", res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"added": nonNil(res.IDs)},
				"meta": map[string]any{"parsed": len(parsed)},
			})
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "List id or name (default: current list)")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var list string
	var render bool
	var style string
	var width int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print a list as a markdown checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, ok := sess.DB.ResolveListID(listOrCurrent(sess, list))
			if !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "list", ID: list})
			}
			md := clip.Markdown(sess.DB.ListName(id), sess.Tasks(id))
			if render {
				md = clip.Render(md, style, width) + "\n"
			}
			_, err = io.WriteString(cmd.OutOrStdout(), md)
			return err
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "List id or name (default: current list)")
	cmd.Flags().BoolVar(&render, "render", false, "Render for the terminal")
	cmd.Flags().StringVar(&style, "style", "dark", "Render style (dark|light|notty|ascii)")
	cmd.Flags().IntVar(&width, "width", 80, "Render wrap width")
	return cmd
}

func newClearCompletedCmd(app *App) *cobra.Command {
	var list string
	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete the completed tasks of a list (one undo step)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.ClearCompleted(listOrCurrent(sess, list))
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd, s, sess, mutate.EventTaskClearCompleted, "", res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": nonNil(res.IDs)}})
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "List id or name (default: current list)")
	return cmd
}
