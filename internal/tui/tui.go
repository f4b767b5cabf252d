package tui

import (
	"context"
	"log/slog"

	"tasklist-cli/internal/mutate"
	"tasklist-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	NoColor       bool
	ConfirmDelete bool
	Logger        *slog.Logger
}

// Run starts the interactive UI. Every change is saved before the next key is handled.
func Run(ctx context.Context, s store.Store, sess *mutate.Session, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	applyColorProfile(opts.NoColor)
	m := newAppModel(ctx, s, sess, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
