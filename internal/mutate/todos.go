package mutate

import (
	"strings"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/store"
	"tasklist-cli/internal/undo"
)

const (
	EventTaskAdd            = "task.add"
	EventTaskDelete         = "task.delete"
	EventTaskToggle         = "task.toggle"
	EventTaskEdit           = "task.edit"
	EventTaskMove           = "task.move"
	EventTaskReorder        = "task.reorder"
	EventTaskPosition       = "task.position"
	EventTaskClearCompleted = "task.clear_completed"
	EventTaskImport         = "task.import"
)

// ImportItem is one parsed line of pasted or imported text.
type ImportItem struct {
	Text      string
	Completed bool
}

// AddTodo appends a task to the end of the list's incomplete tasks.
func (s *Session) AddTodo(text, listRef string) (TaskResult, error) {
	text, err := normalizeText("text", text)
	if err != nil {
		s.logger.Debug("add todo rejected", "err", err)
		return TaskResult{}, err
	}
	listID, err := s.resolveList(listRef)
	if err != nil {
		return TaskResult{}, err
	}
	t, err := s.insertTask(text, false, listID)
	if err != nil {
		return TaskResult{}, err
	}
	s.push(undo.AddTodo{TodoID: t.ID})
	return TaskResult{
		Task:         t,
		Changed:      true,
		EventPayload: map[string]any{"text": t.Text, "listId": listID, "order": t.Order},
	}, nil
}

func (s *Session) insertTask(text string, completed bool, listID string) (*model.Task, error) {
	id, err := s.DB.NewID("task")
	if err != nil {
		return nil, err
	}
	t := model.Task{
		ID:        id,
		Text:      text,
		Completed: completed,
		ListID:    model.PartitionKey(listID),
		CreatedAt: s.now(),
		Order:     store.NextOrderValue(s.Tasks(listID)),
	}
	s.DB.Tasks = append(s.DB.Tasks, t)
	return &s.DB.Tasks[len(s.DB.Tasks)-1], nil
}

func (s *Session) DeleteTodo(id string) (TaskResult, error) {
	t, err := s.findTask(id)
	if err != nil {
		return TaskResult{}, err
	}
	snap := t.Clone()
	s.DB.RemoveTask(snap.ID)
	s.push(undo.DeleteTodo{Todo: snap})
	return TaskResult{
		Task:         &snap,
		Changed:      true,
		EventPayload: map[string]any{"text": snap.Text, "listId": model.PartitionID(snap.ListID)},
	}, nil
}

// DeleteTodos removes every listed task as one undoable step. Unknown ids fail the whole
// call before anything is removed.
func (s *Session) DeleteTodos(ids []string) (BatchResult, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return BatchResult{}, ValidationError{Field: "ids", Reason: "at least one task id is required"}
	}
	for _, id := range ids {
		if _, err := s.findTask(id); err != nil {
			return BatchResult{}, err
		}
	}
	if len(ids) == 1 {
		res, err := s.DeleteTodo(ids[0])
		if err != nil {
			return BatchResult{}, err
		}
		return BatchResult{IDs: ids, Changed: true, EventPayload: res.EventPayload}, nil
	}

	snaps := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		t, _ := s.DB.FindTask(id)
		snaps = append(snaps, t.Clone())
	}
	for _, t := range snaps {
		s.DB.RemoveTask(t.ID)
	}
	s.push(undo.BatchDeleteTodos{Todos: snaps})
	return BatchResult{IDs: ids, Changed: true, EventPayload: map[string]any{"ids": ids}}, nil
}

func (s *Session) ToggleTodo(id string) (TaskResult, error) {
	t, err := s.findTask(id)
	if err != nil {
		return TaskResult{}, err
	}
	prev := t.Completed
	t.Completed = !prev
	s.push(undo.ToggleTodo{TodoID: t.ID, PreviousCompleted: prev})
	return TaskResult{
		Task:         t,
		Changed:      true,
		EventPayload: map[string]any{"completed": t.Completed},
	}, nil
}

// EditTodo replaces the task text. Setting the same text is not a change.
func (s *Session) EditTodo(id, text string) (TaskResult, error) {
	text, err := normalizeText("text", text)
	if err != nil {
		return TaskResult{}, err
	}
	t, err := s.findTask(id)
	if err != nil {
		return TaskResult{}, err
	}
	if t.Text == text {
		return TaskResult{Task: t}, nil
	}
	prev := t.Text
	t.Text = text
	s.push(undo.EditTodo{TodoID: t.ID, PreviousText: prev})
	return TaskResult{
		Task:         t,
		Changed:      true,
		EventPayload: map[string]any{"from": prev, "to": text},
	}, nil
}

// MoveTodos moves tasks to the end of another list. Tasks already in the target list are
// skipped. Each moved task's source list and order are recorded so undo can put tasks
// that came from different lists back where they were.
func (s *Session) MoveTodos(ids []string, toListRef string) (BatchResult, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return BatchResult{}, ValidationError{Field: "ids", Reason: "at least one task id is required"}
	}
	toID, err := s.resolveList(toListRef)
	if err != nil {
		return BatchResult{}, err
	}
	for _, id := range ids {
		if _, err := s.findTask(id); err != nil {
			return BatchResult{}, err
		}
	}

	next := store.NextOrderValue(s.Tasks(toID))
	act := undo.MoveTodos{
		OriginalListIDs: map[string]string{},
		OriginalOrders:  map[string]int64{},
	}
	for _, id := range ids {
		t, _ := s.DB.FindTask(id)
		if t.InList(toID) {
			continue
		}
		act.TodoIDs = append(act.TodoIDs, t.ID)
		act.OriginalListIDs[t.ID] = model.PartitionID(t.ListID)
		act.OriginalOrders[t.ID] = t.Order
		t.ListID = model.PartitionKey(toID)
		t.Order = next
		next += store.OrderStep
	}
	if len(act.TodoIDs) == 0 {
		return BatchResult{}, nil
	}
	s.push(act)
	return BatchResult{
		IDs:          act.TodoIDs,
		Changed:      true,
		EventPayload: map[string]any{"ids": act.TodoIDs, "from": act.OriginalListIDs, "to": toID},
	}, nil
}

// ClearCompleted deletes the completed tasks of one list as a single undoable step.
func (s *Session) ClearCompleted(listRef string) (BatchResult, error) {
	listID, err := s.resolveList(listRef)
	if err != nil {
		return BatchResult{}, err
	}
	var snaps []model.Task
	for _, t := range s.Tasks(listID) {
		if t.Completed {
			snaps = append(snaps, t.Clone())
		}
	}
	if len(snaps) == 0 {
		return BatchResult{}, nil
	}
	ids := make([]string, 0, len(snaps))
	for _, t := range snaps {
		s.DB.RemoveTask(t.ID)
		ids = append(ids, t.ID)
	}
	s.push(undo.BatchDeleteTodos{Todos: snaps})
	return BatchResult{
		IDs:          ids,
		Changed:      true,
		EventPayload: map[string]any{"listId": listID, "count": len(ids)},
	}, nil
}

// ImportTodos appends one task per item, in order, each undoable on its own.
// Blank items are skipped.
func (s *Session) ImportTodos(items []ImportItem, listRef string) (BatchResult, error) {
	listID, err := s.resolveList(listRef)
	if err != nil {
		return BatchResult{}, err
	}
	var ids []string
	for _, it := range items {
		text := strings.TrimSpace(it.Text)
		if text == "" {
			continue
		}
		t, err := s.insertTask(text, it.Completed, listID)
		if err != nil {
			return BatchResult{IDs: ids, Changed: len(ids) > 0}, err
		}
		s.push(undo.AddTodo{TodoID: t.ID})
		ids = append(ids, t.ID)
	}
	if len(ids) == 0 {
		return BatchResult{}, nil
	}
	return BatchResult{
		IDs:          ids,
		Changed:      true,
		EventPayload: map[string]any{"listId": listID, "count": len(ids)},
	}, nil
}

func dedupe(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
