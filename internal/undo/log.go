package undo

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"tasklist-cli/internal/model"
)

// DefaultMaxSize is the history depth used when a Log is created with a size < 1.
const DefaultMaxSize = 50

var ErrUnknownAction = errors.New("unknown undo action")

// Mutators are the storage callbacks an inverse is expressed in.
// The log never touches task/list storage directly.
type Mutators interface {
	RemoveTodo(id string) error
	RestoreTodos(todos []model.Task) error
	SetTodoCompleted(id string, completed bool) error
	SetTodoText(id, text string) error
	// RemoveList deletes the list. Bindings are expected to reset the current-list
	// selection when it pointed at the removed list.
	RemoveList(id string) error
	RestoreList(list model.List, todos []model.Task) error
	SetListName(id, name string) error
	SetTodoListID(id, listID string) error
	SetTodoOrder(id string, order int64) error
}

// Log is a bounded LIFO of reversible actions. When full, pushing evicts the oldest
// entry, which then can't be undone anymore. There is no redo.
//
// A Log is not safe for concurrent use.
type Log struct {
	maxSize int
	actions []Action
	logger  *slog.Logger
}

func NewLog(maxSize int, logger *slog.Logger) *Log {
	if maxSize < 1 {
		maxSize = DefaultMaxSize
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Log{maxSize: maxSize, logger: logger}
}

func (l *Log) MaxSize() int { return l.maxSize }

// Push appends a. Actions without a recognized type tag are logged and dropped.
func (l *Log) Push(a Action) bool {
	if a == nil {
		l.logger.Warn("undo: rejected nil action")
		return false
	}
	if !a.Type().Valid() {
		l.logger.Warn("undo: rejected action with unknown type", "type", string(a.Type()))
		return false
	}
	l.actions = append(l.actions, a)
	if over := len(l.actions) - l.maxSize; over > 0 {
		l.actions = append([]Action(nil), l.actions[over:]...)
	}
	return true
}

// Undo pops the most recent action and applies its inverse through m.
// If the inverse fails the action is put back and false is returned.
func (l *Log) Undo(m Mutators) bool {
	if len(l.actions) == 0 {
		return false
	}
	last := len(l.actions) - 1
	a := l.actions[last]
	l.actions = l.actions[:last]

	if err := invert(a, m); err != nil {
		l.logger.Warn("undo: inverse failed; action kept", "type", string(a.Type()), "err", err)
		l.actions = append(l.actions, a)
		return false
	}
	l.logger.Debug("undo: applied", "type", string(a.Type()))
	return true
}

func (l *Log) CanUndo() bool { return len(l.actions) > 0 }

func (l *Log) Size() int { return len(l.actions) }

func (l *Log) PeekLastType() (Type, bool) {
	if len(l.actions) == 0 {
		return "", false
	}
	return l.actions[len(l.actions)-1].Type(), true
}

func (l *Log) Clear() { l.actions = nil }

// Actions returns a copy of the history, oldest first.
func (l *Log) Actions() []Action {
	return append([]Action(nil), l.actions...)
}

// Replace swaps in a persisted history (oldest first). Invalid entries are dropped
// and only the newest MaxSize entries are kept.
func (l *Log) Replace(actions []Action) {
	l.actions = nil
	for _, a := range actions {
		l.Push(a)
	}
}

func invert(a Action, m Mutators) error {
	switch a := a.(type) {
	case AddTodo:
		return m.RemoveTodo(a.TodoID)
	case DeleteTodo:
		return m.RestoreTodos([]model.Task{a.Todo})
	case ToggleTodo:
		return m.SetTodoCompleted(a.TodoID, a.PreviousCompleted)
	case EditTodo:
		return m.SetTodoText(a.TodoID, a.PreviousText)
	case AddList:
		return m.RemoveList(a.ListID)
	case DeleteList:
		return m.RestoreList(a.List, a.Todos)
	case EditList:
		return m.SetListName(a.ListID, a.PreviousName)
	case MoveTodos:
		for _, id := range idsOrKeys(a.TodoIDs, a.OriginalListIDs) {
			listID, ok := a.OriginalListIDs[id]
			if !ok {
				continue
			}
			if err := m.SetTodoListID(id, listID); err != nil {
				return err
			}
			if order, ok := a.OriginalOrders[id]; ok {
				if err := m.SetTodoOrder(id, order); err != nil {
					return err
				}
			}
		}
		return nil
	case ReorderTodos:
		for _, id := range idsOrKeys(a.TodoIDs, a.OriginalOrders) {
			order, ok := a.OriginalOrders[id]
			if !ok {
				continue
			}
			if err := m.SetTodoOrder(id, order); err != nil {
				return err
			}
		}
		return nil
	case UpdateTodoOrder:
		return m.SetTodoOrder(a.TodoID, a.PreviousOrder)
	case BatchDeleteTodos:
		return m.RestoreTodos(a.Todos)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

// idsOrKeys returns ids when set, else the map's keys in sorted order.
func idsOrKeys[V any](ids []string, m map[string]V) []string {
	if len(ids) > 0 {
		return ids
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
