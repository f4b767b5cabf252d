package mutate

import (
	"fmt"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/undo"
)

const EventUndo = "undo"

// Undo reverts the most recent undoable mutation. ok is false when the history is empty
// or the inverse failed; in the latter case the action stays in the history and the
// in-memory state is left exactly as it was before the attempt.
func (s *Session) Undo() (undo.Type, bool) {
	typ, ok := s.History.PeekLastType()
	if !ok {
		return "", false
	}
	snap := s.DB.Clone()
	sel := *s.Selection
	if !s.History.Undo(dbMutators{s}) {
		*s.DB = *snap
		*s.Selection = sel
		return typ, false
	}
	return typ, true
}

// dbMutators applies undo inverses to the session's DB.
type dbMutators struct {
	s *Session
}

var _ undo.Mutators = dbMutators{}

func (m dbMutators) RemoveTodo(id string) error {
	if !m.s.DB.RemoveTask(id) {
		return NotFoundError{Kind: "task", ID: id}
	}
	return nil
}

func (m dbMutators) RestoreTodos(todos []model.Task) error {
	for _, t := range todos {
		if _, ok := m.s.DB.FindTask(t.ID); ok {
			return fmt.Errorf("restore task %s: id already in use", t.ID)
		}
		if pid := model.PartitionID(t.ListID); !model.IsDefaultList(pid) {
			if _, ok := m.s.DB.FindList(pid); !ok {
				return NotFoundError{Kind: "list", ID: pid}
			}
		}
	}
	for _, t := range todos {
		m.s.DB.Tasks = append(m.s.DB.Tasks, t.Clone())
	}
	return nil
}

func (m dbMutators) SetTodoCompleted(id string, completed bool) error {
	t, err := m.s.findTask(id)
	if err != nil {
		return err
	}
	t.Completed = completed
	return nil
}

func (m dbMutators) SetTodoText(id, text string) error {
	t, err := m.s.findTask(id)
	if err != nil {
		return err
	}
	t.Text = text
	return nil
}

func (m dbMutators) RemoveList(id string) error {
	if model.IsDefaultList(id) {
		return ErrDefaultList
	}
	if _, ok := m.s.DB.FindList(id); !ok {
		return NotFoundError{Kind: "list", ID: id}
	}
	if n := len(m.s.Tasks(id)); n > 0 {
		return fmt.Errorf("remove list %s: still has %d tasks", id, n)
	}
	m.s.removeList(id)
	return nil
}

func (m dbMutators) RestoreList(list model.List, todos []model.Task) error {
	if _, ok := m.s.DB.FindList(list.ID); ok {
		return fmt.Errorf("restore list %s: id already in use", list.ID)
	}
	m.s.DB.Lists = append(m.s.DB.Lists, list)
	return m.RestoreTodos(todos)
}

func (m dbMutators) SetListName(id, name string) error {
	l, ok := m.s.DB.FindList(id)
	if !ok {
		return NotFoundError{Kind: "list", ID: id}
	}
	l.Name = name
	return nil
}

func (m dbMutators) SetTodoListID(id, listID string) error {
	t, err := m.s.findTask(id)
	if err != nil {
		return err
	}
	if !model.IsDefaultList(listID) {
		if _, ok := m.s.DB.FindList(listID); !ok {
			return NotFoundError{Kind: "list", ID: listID}
		}
	}
	t.ListID = model.PartitionKey(listID)
	return nil
}

func (m dbMutators) SetTodoOrder(id string, order int64) error {
	t, err := m.s.findTask(id)
	if err != nil {
		return err
	}
	t.Order = order
	return nil
}
