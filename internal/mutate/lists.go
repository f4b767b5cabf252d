package mutate

import (
	"strings"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/undo"
)

const (
	EventListAdd    = "list.add"
	EventListDelete = "list.delete"
	EventListRename = "list.rename"
)

// validateListName trims name and rejects empty, reserved and (case-insensitively)
// duplicate names. selfID is excluded from the duplicate check.
func (s *Session) validateListName(name, selfID string) (string, error) {
	name, err := normalizeText("name", name)
	if err != nil {
		return "", err
	}
	if model.IsDefaultList(name) || strings.EqualFold(name, model.DefaultListName) {
		return "", ValidationError{Field: "name", Reason: "reserved list name"}
	}
	if l, ok := s.DB.FindListByName(name); ok && l.ID != selfID {
		return "", ValidationError{Field: "name", Reason: "a list named " + l.Name + " already exists"}
	}
	return name, nil
}

func (s *Session) AddList(name string) (ListResult, error) {
	name, err := s.validateListName(name, "")
	if err != nil {
		s.logger.Debug("add list rejected", "err", err)
		return ListResult{}, err
	}
	id, err := s.DB.NewID("list")
	if err != nil {
		return ListResult{}, err
	}
	s.DB.Lists = append(s.DB.Lists, model.List{ID: id, Name: name, CreatedAt: s.now()})
	s.push(undo.AddList{ListID: id})
	l := &s.DB.Lists[len(s.DB.Lists)-1]
	return ListResult{List: l, Changed: true, EventPayload: map[string]any{"name": name}}, nil
}

// DeleteList removes a list and all of its tasks. The selection falls back to the
// default list when it pointed at the removed one.
func (s *Session) DeleteList(ref string) (ListResult, error) {
	id, err := s.resolveList(ref)
	if err != nil {
		return ListResult{}, err
	}
	if model.IsDefaultList(id) {
		return ListResult{}, ErrDefaultList
	}
	l, _ := s.DB.FindList(id)
	snap := *l

	var todos []model.Task
	for _, t := range s.Tasks(id) {
		todos = append(todos, t.Clone())
	}
	for _, t := range todos {
		s.DB.RemoveTask(t.ID)
	}
	s.removeList(id)
	s.push(undo.DeleteList{List: snap, Todos: todos})
	return ListResult{
		List:         &snap,
		Changed:      true,
		EventPayload: map[string]any{"name": snap.Name, "tasks": len(todos)},
	}, nil
}

// EditList renames a list. Renaming to the current name is not a change.
func (s *Session) EditList(ref, name string) (ListResult, error) {
	id, err := s.resolveList(ref)
	if err != nil {
		return ListResult{}, err
	}
	if model.IsDefaultList(id) {
		return ListResult{}, ErrDefaultList
	}
	name, err = s.validateListName(name, id)
	if err != nil {
		return ListResult{}, err
	}
	l, _ := s.DB.FindList(id)
	if l.Name == name {
		return ListResult{List: l}, nil
	}
	prev := l.Name
	l.Name = name
	s.push(undo.EditList{ListID: id, PreviousName: prev})
	return ListResult{
		List:         l,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": name},
	}, nil
}

func (s *Session) removeList(id string) bool {
	for i := range s.DB.Lists {
		if s.DB.Lists[i].ID == id {
			s.DB.Lists = append(s.DB.Lists[:i], s.DB.Lists[i+1:]...)
			if s.Selection.Current() == id {
				s.setSelection(model.DefaultListID)
			}
			return true
		}
	}
	return false
}
