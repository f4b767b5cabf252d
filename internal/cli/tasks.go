package cli

import (
	"strings"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tasks",
		Aliases: []string{"todos"},
		Short:   "Manage tasks",
	}
	cmd.AddCommand(newTasksListCmd(app))
	cmd.AddCommand(newTasksShowCmd(app))
	cmd.AddCommand(newTasksAddCmd(app))
	cmd.AddCommand(newTasksDoneCmd(app))
	cmd.AddCommand(newTasksToggleCmd(app))
	cmd.AddCommand(newTasksEditCmd(app))
	cmd.AddCommand(newTasksDeleteCmd(app))
	cmd.AddCommand(newTasksMoveCmd(app))
	cmd.AddCommand(newTasksReorderCmd(app))
	cmd.AddCommand(newTasksPositionCmd(app))
	return cmd
}

// listOrCurrent returns ref, or the selected list when ref is empty.
func listOrCurrent(sess *mutate.Session, ref string) string {
	if strings.TrimSpace(ref) == "" {
		return sess.Selection.Current()
	}
	return ref
}

func newTasksListCmd(app *App) *cobra.Command {
	var list string
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order (default: current list)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if all {
				out := newTaskViews(sess.Tasks(model.DefaultListID))
				for _, l := range sess.DB.Lists {
					out = append(out, newTaskViews(sess.Tasks(l.ID))...)
				}
				return writeOut(cmd, app, map[string]any{"data": out})
			}
			id, ok := sess.DB.ResolveListID(listOrCurrent(sess, list))
			if !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "list", ID: list})
			}
			return writeOut(cmd, app, map[string]any{
				"data": newTaskViews(sess.Tasks(id)),
				"meta": map[string]any{"listId": id, "name": sess.DB.ListName(id)},
			})
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "List id or name")
	cmd.Flags().BoolVar(&all, "all", false, "Tasks of every list")
	return cmd
}

func newTasksShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := sess.DB.FindTask(args[0])
			if !ok {
				return writeErr(cmd, mutate.NotFoundError{Kind: "task", ID: args[0]})
			}
			return writeOut(cmd, app, map[string]any{
				"data": newTaskView(t),
				"meta": map[string]any{"list": sess.DB.ListName(model.PartitionID(t.ListID))},
			})
		},
	}
}

func newTasksAddCmd(app *App) *cobra.Command {
	var list string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task to the end of a list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.AddTodo(strings.Join(args, " "), listOrCurrent(sess, list))
			if err != nil {
				return writeErr(cmd, err)
			}
			v := newTaskView(res.Task)
			if err := commit(cmd, s, sess, mutate.EventTaskAdd, v.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": v})
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "List id or name (default: current list)")
	return cmd
}

func newTasksDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, app, args[0], true)
		},
	}
}

func newTasksToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, app, args[0], false)
		},
	}
}

// runToggle flips the task. With onlyOpen, an already completed task is left alone.
func runToggle(cmd *cobra.Command, app *App, id string, onlyOpen bool) error {
	sess, s, err := openSession(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	t, ok := sess.DB.FindTask(id)
	if !ok {
		return writeErr(cmd, mutate.NotFoundError{Kind: "task", ID: id})
	}
	if onlyOpen && t.Completed {
		return writeOut(cmd, app, map[string]any{
			"data": newTaskView(t),
			"meta": map[string]any{"changed": false},
		})
	}
	res, err := sess.ToggleTodo(id)
	if err != nil {
		return writeErr(cmd, err)
	}
	v := newTaskView(res.Task)
	if err := commit(cmd, s, sess, mutate.EventTaskToggle, v.ID, res.EventPayload); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{
		"data": v,
		"meta": map[string]any{"changed": true},
	})
}

func newTasksEditCmd(app *App) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change a task's text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.EditTodo(args[0], text)
			if err != nil {
				return writeErr(cmd, err)
			}
			v := newTaskView(res.Task)
			if res.Changed {
				if err := commit(cmd, s, sess, mutate.EventTaskEdit, v.ID, res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": v,
				"meta": map[string]any{"changed": res.Changed},
			})
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "New text (required)")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newTasksDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id...>",
		Short: "Delete tasks (one undo step)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.DeleteTodos(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := commit(cmd, s, sess, mutate.EventTaskDelete, strings.Join(res.IDs, ","), res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": res.IDs}})
		},
	}
}

func newTasksMoveCmd(app *App) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "move <task-id...>",
		Short: "Move tasks to the end of another list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.MoveTodos(args, to)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd, s, sess, mutate.EventTaskMove, strings.Join(res.IDs, ","), res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"moved": nonNil(res.IDs)},
				"meta": map[string]any{"changed": res.Changed},
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target list id or name (\"default\" for the inbox)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newTasksReorderCmd(app *App) *cobra.Command {
	var before string
	cmd := &cobra.Command{
		Use:   "reorder <task-id...>",
		Short: "Drop tasks onto another task (or append them with no --before)",
		Long: strings.TrimSpace(`
Moves the given tasks as a block. With --before, the tasks are dropped onto that task:
moving down places them after it, moving up places them before it. Without --before
they go to the end of the list, in the order given.`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.ReorderTodos(args, before)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd, s, sess, mutate.EventTaskReorder, args[0], res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			listID := sess.Selection.Current()
			if t, ok := sess.DB.FindTask(args[0]); ok {
				listID = model.PartitionID(t.ListID)
			}
			return writeOut(cmd, app, map[string]any{
				"data": newTaskViews(sess.Tasks(listID)),
				"meta": map[string]any{"changed": res.Changed, "updated": nonNil(res.IDs)},
			})
		},
	}
	cmd.Flags().StringVar(&before, "before", "", "Target task id")
	return cmd
}

func newTasksPositionCmd(app *App) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "position <task-id>",
		Short: "Move a task to a 0-based index in its list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.SetTodoPosition(args[0], index)
			if err != nil {
				return writeErr(cmd, err)
			}
			v := newTaskView(res.Task)
			if res.Changed {
				if err := commit(cmd, s, sess, mutate.EventTaskPosition, v.ID, res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": v,
				"meta": map[string]any{"changed": res.Changed},
			})
		},
	}
	cmd.Flags().IntVar(&index, "index", 0, "Target index (0 = top)")
	_ = cmd.MarkFlagRequired("index")
	return cmd
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
