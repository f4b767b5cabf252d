package mutate

import (
	"tasklist-cli/internal/model"
	"tasklist-cli/internal/store"
	"tasklist-cli/internal/undo"
)

// ReorderTodos drops draggedIDs onto targetID within the partition of the first dragged
// task. An empty targetID moves them to the end. A computed ordering identical to the
// stored one reports Changed == false and records nothing.
func (s *Session) ReorderTodos(draggedIDs []string, targetID string) (BatchResult, error) {
	draggedIDs = dedupe(draggedIDs)
	if len(draggedIDs) == 0 {
		return BatchResult{}, ValidationError{Field: "ids", Reason: "at least one task id is required"}
	}
	first, err := s.findTask(draggedIDs[0])
	if err != nil {
		return BatchResult{}, err
	}
	listID := model.PartitionID(first.ListID)

	tasks := s.Tasks(listID)
	plan, ok := store.PlanReorder(draggedIDs, targetID, tasks)
	if !ok {
		s.logger.Debug("reorder is a no-op", "ids", draggedIDs, "target", targetID)
		return BatchResult{}, nil
	}
	s.applyPlan(tasks, plan)
	changed := plan.ChangedIDs()
	s.push(undo.ReorderTodos{TodoIDs: changed, OriginalOrders: plan.OriginalOrders})
	return BatchResult{
		IDs:          changed,
		Changed:      true,
		EventPayload: map[string]any{"ids": draggedIDs, "target": targetID, "sequence": plan.Sequence},
	}, nil
}

// SetTodoPosition moves one task so it is displayed at index within its list (counting
// the task itself). The index is clamped to the tasks sharing its completion state.
//
// When the list is normalized the move writes a single fractional key. Otherwise, or if
// that key would not land the task at index, the whole list is renumbered.
func (s *Session) SetTodoPosition(id string, index int) (TaskResult, error) {
	t, err := s.findTask(id)
	if err != nil {
		return TaskResult{}, err
	}
	tasks := s.Tasks(model.PartitionID(t.ListID))

	from, lo, hi := -1, -1, -1
	for i, o := range tasks {
		if o.ID == t.ID {
			from = i
		}
		if o.Completed == t.Completed {
			if lo < 0 {
				lo = i
			}
			hi = i
		}
	}
	index = max(lo, min(index, hi))
	if index == from {
		return TaskResult{Task: t}, nil
	}

	if key, ok := fractionalKey(tasks, from, index); ok {
		prev := t.Order
		t.Order = key
		s.push(undo.UpdateTodoOrder{TodoID: t.ID, PreviousOrder: prev})
		return TaskResult{
			Task:         t,
			Changed:      true,
			EventPayload: map[string]any{"index": index, "order": key},
		}, nil
	}

	plan, ok := store.PlanMoveToIndex(t.ID, index, tasks)
	if !ok {
		return TaskResult{Task: t}, nil
	}
	s.applyPlan(tasks, plan)
	s.push(undo.ReorderTodos{TodoIDs: plan.ChangedIDs(), OriginalOrders: plan.OriginalOrders})
	return TaskResult{
		Task:         t,
		Changed:      true,
		EventPayload: map[string]any{"index": index, "sequence": plan.Sequence},
	}, nil
}

// fractionalKey returns the key that puts tasks[from] at index without touching any other
// task. ok is false unless tasks carry normalized keys.
func fractionalKey(tasks []*model.Task, from, index int) (int64, bool) {
	for i, o := range tasks {
		if o.Order != int64(i+1)*store.OrderStep {
			return 0, false
		}
	}
	slot := index
	if from < index {
		slot++
	}
	return store.InsertAtFractionalPosition(slot), true
}

func (s *Session) applyPlan(tasks []*model.Task, plan store.ReorderResult) {
	for _, t := range tasks {
		if key, ok := plan.OrderByID[t.ID]; ok {
			t.Order = key
		}
	}
}
