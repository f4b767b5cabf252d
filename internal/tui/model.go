package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasklist-cli/internal/logging"
	"tasklist-cli/internal/model"
	"tasklist-cli/internal/mutate"
	"tasklist-cli/internal/store"
)

type mode int

const (
	modeBrowse mode = iota
	modeAddTask
	modeEditTask
	modeNewList
	modeRenameList
	modeMoveTask
	modeConfirmDeleteList
)

type appModel struct {
	ctx    context.Context
	store  store.Store
	sess   *mutate.Session
	opts   Options
	logger *slog.Logger

	keys  keyMap
	st    styles
	help  help.Model
	list  list.Model
	input textinput.Model

	mode mode
	// List ids offered while moving a task; moveIdx is the highlighted one.
	moveTargets []string
	moveIdx     int

	status    string
	statusErr bool

	width  int
	height int
}

func newAppModel(ctx context.Context, s store.Store, sess *mutate.Session, opts Options) appModel {
	st := newStyles()
	l := list.New(nil, taskDelegate{st: st}, 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()

	in := textinput.New()
	in.CharLimit = 500

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	m := appModel{
		ctx:    ctx,
		store:  s,
		sess:   sess,
		opts:   opts,
		logger: logger,
		keys:   defaultKeyMap(),
		st:     st,
		help:   help.New(),
		list:   l,
		input:  in,
	}
	m.refresh("")
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// refresh rebuilds the list from the current partition and selects selectID when present.
func (m *appModel) refresh(selectID string) {
	cur := m.sess.Selection.Current()
	tasks := m.sess.Tasks(cur)
	items := make([]list.Item, 0, len(tasks))
	sel := -1
	for i, t := range tasks {
		items = append(items, taskItem{task: t.Clone()})
		if t.ID == selectID {
			sel = i
		}
	}
	idx := m.list.Index()
	m.list.SetItems(items)
	m.list.Title = m.sess.DB.ListName(cur)
	switch {
	case sel >= 0:
		m.list.Select(sel)
	case idx >= len(items) && len(items) > 0:
		m.list.Select(len(items) - 1)
	case len(items) > 0:
		m.list.Select(idx)
	}
}

func (m appModel) selectedTask() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

// persist saves state and history together, then records the event.
func (m *appModel) persist(eventType, entityID string, payload any) {
	if err := m.store.Save(m.ctx, m.sess.DB, m.sess.History.Actions()); err != nil {
		m.logger.Error("save failed", "err", err)
		m.setError(fmt.Errorf("save failed: %w", err))
		return
	}
	if eventType == "" {
		return
	}
	if err := m.store.AppendEvent(m.ctx, eventType, entityID, payload); err != nil {
		m.logger.Warn("append event failed", "type", eventType, "err", err)
	}
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, max(1, msg.Height-4))
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAddTask, modeEditTask, modeNewList, modeRenameList:
			return m.updateInput(msg)
		case modeMoveTask:
			return m.updateMovePicker(msg)
		case modeConfirmDeleteList:
			m.mode = modeBrowse
			if msg.String() == "y" || msg.String() == "Y" {
				m.deleteCurrentList()
			} else {
				m.setStatus("delete cancelled")
			}
			return m, nil
		}
		return m.updateBrowse(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t, hasTask := m.selectedTask()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Add):
		return m.startInput(modeAddTask, "New task: ", "")

	case key.Matches(msg, m.keys.Edit):
		if !hasTask {
			return m, nil
		}
		return m.startInput(modeEditTask, "Edit: ", t.Text)

	case key.Matches(msg, m.keys.Toggle):
		if !hasTask {
			return m, nil
		}
		res, err := m.sess.ToggleTodo(t.ID)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.persist(mutate.EventTaskToggle, t.ID, res.EventPayload)
		m.refresh(t.ID)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if !hasTask {
			return m, nil
		}
		res, err := m.sess.DeleteTodo(t.ID)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.persist(mutate.EventTaskDelete, t.ID, res.EventPayload)
		m.setStatus("deleted (u to undo)")
		m.refresh("")
		return m, nil

	case key.Matches(msg, m.keys.MoveUp):
		m.moveBy(t, hasTask, -1)
		return m, nil

	case key.Matches(msg, m.keys.MoveDown):
		m.moveBy(t, hasTask, +1)
		return m, nil

	case key.Matches(msg, m.keys.MoveToList):
		if !hasTask {
			return m, nil
		}
		m.moveTargets = m.otherLists()
		if len(m.moveTargets) == 0 {
			m.setStatus("no other list to move to")
			return m, nil
		}
		m.moveIdx = 0
		m.mode = modeMoveTask
		return m, nil

	case key.Matches(msg, m.keys.NextList):
		m.cycleList(+1)
		return m, nil

	case key.Matches(msg, m.keys.PrevList):
		m.cycleList(-1)
		return m, nil

	case key.Matches(msg, m.keys.NewList):
		return m.startInput(modeNewList, "List name: ", "")

	case key.Matches(msg, m.keys.RenameList):
		cur := m.sess.Selection.Current()
		if model.IsDefaultList(cur) {
			m.setError(mutate.ErrDefaultList)
			return m, nil
		}
		return m.startInput(modeRenameList, "Rename list: ", m.sess.DB.ListName(cur))

	case key.Matches(msg, m.keys.DeleteList):
		if model.IsDefaultList(m.sess.Selection.Current()) {
			m.setError(mutate.ErrDefaultList)
			return m, nil
		}
		if m.opts.ConfirmDelete {
			m.mode = modeConfirmDeleteList
			return m, nil
		}
		m.deleteCurrentList()
		return m, nil

	case key.Matches(msg, m.keys.ClearCompleted):
		res, err := m.sess.ClearCompleted(m.sess.Selection.Current())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if res.Changed {
			m.persist(mutate.EventTaskClearCompleted, "", res.EventPayload)
			m.setStatus(fmt.Sprintf("cleared %d", len(res.IDs)))
		}
		m.refresh("")
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		typ, ok := m.sess.Undo()
		if !ok {
			m.setStatus("nothing to undo")
			return m, nil
		}
		m.persist(mutate.EventUndo, "", map[string]any{"type": string(typ)})
		m.setStatus("undid " + string(typ))
		m.refresh(keepID(t, hasTask))
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func keepID(t model.Task, ok bool) string {
	if !ok {
		return ""
	}
	return t.ID
}

// moveBy swaps the task with its neighbor using drag-and-drop semantics: dropping on the
// task above lands before it, on the task below lands after it. Open and completed tasks
// don't cross.
func (m *appModel) moveBy(t model.Task, ok bool, delta int) {
	if !ok {
		return
	}
	tasks := m.sess.Tasks(m.sess.Selection.Current())
	i := -1
	for k, o := range tasks {
		if o.ID == t.ID {
			i = k
		}
	}
	j := i + delta
	if i < 0 || j < 0 || j >= len(tasks) || tasks[j].Completed != t.Completed {
		return
	}
	res, err := m.sess.ReorderTodos([]string{t.ID}, tasks[j].ID)
	if err != nil {
		m.setError(err)
		return
	}
	if res.Changed {
		m.persist(mutate.EventTaskReorder, t.ID, res.EventPayload)
	}
	m.refresh(t.ID)
}

// otherLists returns every partition id except the current one, the default list first.
func (m appModel) otherLists() []string {
	cur := m.sess.Selection.Current()
	var out []string
	for _, id := range m.allLists() {
		if id != cur {
			out = append(out, id)
		}
	}
	return out
}

func (m appModel) allLists() []string {
	out := []string{model.DefaultListID}
	for _, l := range m.sess.DB.Lists {
		out = append(out, l.ID)
	}
	return out
}

func (m *appModel) cycleList(delta int) {
	ids := m.allLists()
	cur := m.sess.Selection.Current()
	i := 0
	for k, id := range ids {
		if id == cur {
			i = k
		}
	}
	next := ids[(i+delta+len(ids))%len(ids)]
	if next == cur {
		return
	}
	if _, err := m.sess.SelectList(next); err != nil {
		m.setError(err)
		return
	}
	m.persist("", "", nil)
	m.list.Select(0)
	m.refresh("")
}

func (m *appModel) deleteCurrentList() {
	res, err := m.sess.DeleteList(m.sess.Selection.Current())
	if err != nil {
		m.setError(err)
		return
	}
	m.persist(mutate.EventListDelete, res.List.ID, res.EventPayload)
	m.setStatus("deleted list " + res.List.Name + " (u to undo)")
	m.refresh("")
}

func (m appModel) startInput(md mode, prompt, value string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.input.Prompt = m.st.prompt.Render(prompt)
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.status = ""
	cmd := m.input.Focus()
	return m, cmd
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		md := m.mode
		m.mode = modeBrowse
		m.input.Blur()
		m.submitInput(md, m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) submitInput(md mode, value string) {
	cur := m.sess.Selection.Current()
	switch md {
	case modeAddTask:
		res, err := m.sess.AddTodo(value, cur)
		if err != nil {
			m.setError(err)
			return
		}
		id := res.Task.ID
		m.persist(mutate.EventTaskAdd, id, res.EventPayload)
		m.refresh(id)

	case modeEditTask:
		t, ok := m.selectedTask()
		if !ok {
			return
		}
		res, err := m.sess.EditTodo(t.ID, value)
		if err != nil {
			m.setError(err)
			return
		}
		if res.Changed {
			m.persist(mutate.EventTaskEdit, t.ID, res.EventPayload)
		}
		m.refresh(t.ID)

	case modeNewList:
		res, err := m.sess.AddList(value)
		if err != nil {
			m.setError(err)
			return
		}
		id := res.List.ID
		if _, err := m.sess.SelectList(id); err != nil {
			m.setError(err)
			return
		}
		m.persist(mutate.EventListAdd, id, res.EventPayload)
		m.refresh("")

	case modeRenameList:
		res, err := m.sess.EditList(cur, value)
		if err != nil {
			m.setError(err)
			return
		}
		if res.Changed {
			m.persist(mutate.EventListRename, cur, res.EventPayload)
		}
		m.refresh("")
	}
}

func (m appModel) updateMovePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeBrowse
	case "left", "h", "up", "k", "shift+tab":
		m.moveIdx = (m.moveIdx - 1 + len(m.moveTargets)) % len(m.moveTargets)
	case "right", "l", "down", "j", "tab":
		m.moveIdx = (m.moveIdx + 1) % len(m.moveTargets)
	case "enter":
		m.mode = modeBrowse
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		to := m.moveTargets[m.moveIdx]
		res, err := m.sess.MoveTodos([]string{t.ID}, to)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		if res.Changed {
			m.persist(mutate.EventTaskMove, t.ID, res.EventPayload)
			m.setStatus("moved to " + m.sess.DB.ListName(to))
		}
		m.refresh("")
	}
	return m, nil
}

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(m.tabsView())
	b.WriteString("\n")
	b.WriteString(m.list.View())
	b.WriteString("\n")

	switch m.mode {
	case modeAddTask, modeEditTask, modeNewList, modeRenameList:
		b.WriteString(m.input.View())
	case modeMoveTask:
		b.WriteString(m.st.prompt.Render("Move to: "))
		for i, id := range m.moveTargets {
			name := m.sess.DB.ListName(id)
			if i == m.moveIdx {
				b.WriteString(m.st.pickActive.Render(name))
			} else {
				b.WriteString(m.st.tab.Render(name))
			}
			b.WriteString(" ")
		}
	case modeConfirmDeleteList:
		b.WriteString(m.st.statusErr.Render(fmt.Sprintf("Delete list %q and its tasks? (y/N)", m.sess.DB.ListName(m.sess.Selection.Current()))))
	default:
		if m.statusErr {
			b.WriteString(m.st.statusErr.Render(m.status))
		} else {
			b.WriteString(m.st.status.Render(m.status))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m appModel) tabsView() string {
	cur := m.sess.Selection.Current()
	var tabs []string
	for _, id := range m.allLists() {
		name := m.sess.DB.ListName(id)
		if id == cur {
			tabs = append(tabs, m.st.tabActive.Render(name))
		} else {
			tabs = append(tabs, m.st.tab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
