package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"tasklist-cli/internal/model"
)

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Text }

func (i taskItem) Title() string {
	if i.task.Completed {
		return "[x] " + i.task.Text
	}
	return "[ ] " + i.task.Text
}

type taskDelegate struct {
	st styles
}

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}
	width := m.Width()
	if width < 4 {
		return
	}

	line := xansi.Truncate(it.Title(), width, "…")
	if pad := width - xansi.StringWidth(line); pad > 0 {
		line += strings.Repeat(" ", pad)
	}

	style := d.st.task
	if it.task.Completed {
		style = d.st.taskDone
	}
	if index == m.Index() {
		style = d.st.selected
	}
	fmt.Fprint(w, style.Render(line))
}
