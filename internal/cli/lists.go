package cli

import (
	"errors"
	"strings"

	"tasklist-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newListsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage task lists",
	}
	cmd.AddCommand(newListsListCmd(app))
	cmd.AddCommand(newListsCreateCmd(app))
	cmd.AddCommand(newListsRenameCmd(app))
	cmd.AddCommand(newListsDeleteCmd(app))
	cmd.AddCommand(newListsUseCmd(app))
	return cmd
}

func newListsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all lists (the default list first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": newListViews(sess.DB, sess.Selection.Current())})
		},
	}
}

func newListsCreateCmd(app *App) *cobra.Command {
	var name string
	var use bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.AddList(name)
			if err != nil {
				return writeErr(cmd, err)
			}
			l := *res.List
			if use {
				if _, err := sess.SelectList(l.ID); err != nil {
					return writeErr(cmd, err)
				}
			}
			if err := commit(cmd, s, sess, mutate.EventListAdd, l.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": l})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "List name (required)")
	cmd.Flags().BoolVar(&use, "use", false, "Select the new list")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newListsRenameCmd(app *App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "rename <list>",
		Short: "Rename a list (by id or name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.EditList(args[0], name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if res.Changed {
				if err := commit(cmd, s, sess, mutate.EventListRename, res.List.ID, res.EventPayload); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": *res.List,
				"meta": map[string]any{"changed": res.Changed},
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New name (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newListsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <list>",
		Short: "Delete a list and all of its tasks (undoable)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := sess.DeleteList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := commit(cmd, s, sess, mutate.EventListDelete, res.List.ID, res.EventPayload); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": *res.List,
				"meta": res.EventPayload,
			})
		},
	}
}

func newListsUseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "use <list>",
		Short: "Select the current list (\"default\" for the inbox)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(args[0]) == "" {
				return writeErr(cmd, errors.New("missing list"))
			}
			sess, s, err := openSession(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := sess.SelectList(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := commit(cmd, s, sess, "", "", nil); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"currentListId": id, "name": sess.DB.ListName(id)},
			})
		},
	}
}
