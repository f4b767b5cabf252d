package store

import (
	"strings"

	"tasklist-cli/internal/model"
)

// ReorderResult describes the order-key writes needed to realize a drag-and-drop move.
type ReorderResult struct {
	// Sequence is the partition's new display order.
	Sequence []string
	// OrderByID holds the new key of every task in Sequence.
	OrderByID map[string]int64
	// OriginalOrders holds the previous key of each task whose key changes.
	OriginalOrders map[string]int64
}

// ChangedIDs returns the IDs whose order changes, in Sequence order.
func (r ReorderResult) ChangedIDs() []string {
	out := make([]string, 0, len(r.OriginalOrders))
	for _, id := range r.Sequence {
		if _, ok := r.OriginalOrders[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// PlanReorder computes the new ordering of a partition after dropping draggedIDs onto
// targetID. An empty targetID appends the dragged tasks at the end, in the order given.
//
// A forward move (dragged task above the target) lands right after the target; a backward
// move lands right before it. This compensates for the index shift caused by removing the
// dragged tasks from the sequence.
//
// ok is false when nothing would change: unknown IDs, dropping a task on itself, or a
// computed ordering that matches the stored keys. tasks are not modified.
func PlanReorder(draggedIDs []string, targetID string, tasks []*model.Task) (ReorderResult, bool) {
	targetID = strings.TrimSpace(targetID)

	cur := compactTasks(tasks)
	SortTasksForDisplay(cur)

	index := make(map[string]int, len(cur))
	for i, t := range cur {
		index[t.ID] = i
	}

	dragged := make([]string, 0, len(draggedIDs))
	isDragged := map[string]bool{}
	for _, id := range draggedIDs {
		id = strings.TrimSpace(id)
		if id == "" || isDragged[id] {
			continue
		}
		if _, ok := index[id]; !ok {
			return ReorderResult{}, false
		}
		isDragged[id] = true
		dragged = append(dragged, id)
	}
	if len(dragged) == 0 {
		return ReorderResult{}, false
	}
	if targetID != "" {
		if _, ok := index[targetID]; !ok {
			return ReorderResult{}, false
		}
		if isDragged[targetID] {
			return ReorderResult{}, false
		}
	}

	remaining := make([]string, 0, len(cur))
	for _, t := range cur {
		if !isDragged[t.ID] {
			remaining = append(remaining, t.ID)
		}
	}

	var seq []string
	if targetID == "" {
		seq = append(remaining, dragged...)
	} else {
		pos := 0
		for i, id := range remaining {
			if id == targetID {
				pos = i
				break
			}
		}
		if index[dragged[0]] < index[targetID] {
			pos++
		}
		seq = make([]string, 0, len(cur))
		seq = append(seq, remaining[:pos]...)
		seq = append(seq, dragged...)
		seq = append(seq, remaining[pos:]...)
	}

	res := ReorderResult{
		Sequence:       seq,
		OrderByID:      make(map[string]int64, len(seq)),
		OriginalOrders: map[string]int64{},
	}
	for i, id := range seq {
		want := int64(i+1) * OrderStep
		res.OrderByID[id] = want
		if prev := cur[index[id]].Order; prev != want {
			res.OriginalOrders[id] = prev
		}
	}
	if len(res.OriginalOrders) == 0 {
		return ReorderResult{}, false
	}
	return res, true
}

// PlanMoveToIndex plans moving one task so that it ends up at index in the partition's
// display order (clamped to the valid range).
func PlanMoveToIndex(id string, index int, tasks []*model.Task) (ReorderResult, bool) {
	cur := compactTasks(tasks)
	SortTasksForDisplay(cur)

	rest := make([]*model.Task, 0, len(cur))
	found := false
	for _, t := range cur {
		if t.ID == id {
			found = true
			continue
		}
		rest = append(rest, t)
	}
	if !found {
		return ReorderResult{}, false
	}
	if index >= len(rest) {
		return PlanReorder([]string{id}, "", tasks)
	}
	if index < 0 {
		index = 0
	}
	// Landing at index means "before the task currently at rest[index]". The planner decides
	// before/after from the move direction, so pick the neighbor that yields that slot.
	from := 0
	for i, t := range cur {
		if t.ID == id {
			from = i
		}
	}
	switch {
	case from == index:
		return ReorderResult{}, false
	case from < index:
		return PlanReorder([]string{id}, rest[index-1].ID, tasks)
	default:
		return PlanReorder([]string{id}, rest[index].ID, tasks)
	}
}
