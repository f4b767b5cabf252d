package store

import (
	"sort"

	"tasklist-cli/internal/model"
)

// OrderStep is the gap between adjacent order keys after normalization.
// The gap leaves room for InsertAtFractionalPosition without renumbering.
const OrderStep int64 = 1000

// NextOrderValue returns a key that sorts after every task in the partition.
// Missing orders count as 0, so an empty partition yields OrderStep.
func NextOrderValue(tasks []*model.Task) int64 {
	var max int64
	for _, t := range tasks {
		if t != nil && t.Order > max {
			max = t.Order
		}
	}
	return max + OrderStep
}

// InsertAtFractionalPosition returns a key strictly between the normalized keys of the
// tasks at targetIndex-1 and targetIndex.
func InsertAtFractionalPosition(targetIndex int) int64 {
	if targetIndex < 0 {
		targetIndex = 0
	}
	return int64(targetIndex)*OrderStep + OrderStep/2
}

// NormalizeOrders rewrites the keys of one partition to (i+1)*OrderStep in display order.
// Tasks without an order are first placed by their creation time. Relative display order
// never changes. Reports whether any stored value changed.
func NormalizeOrders(tasks []*model.Task) bool {
	changed := false
	for _, t := range tasks {
		if t != nil && t.Order == 0 {
			t.Order = t.CreatedAt.UnixMilli()
			if t.Order <= 0 {
				t.Order = 1
			}
			changed = true
		}
	}

	sorted := compactTasks(tasks)
	SortTasksForDisplay(sorted)
	for i, t := range sorted {
		want := int64(i+1) * OrderStep
		if t.Order != want {
			t.Order = want
			changed = true
		}
	}
	return changed
}

// SortTasksForDisplay sorts in place: incomplete first, then order, then creation time, then ID.
func SortTasksForDisplay(tasks []*model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return compareTasksForDisplay(*tasks[i], *tasks[j]) < 0
	})
}

func compareTasksForDisplay(a, b model.Task) int {
	if a.Completed != b.Completed {
		if !a.Completed {
			return -1
		}
		return 1
	}
	if a.Order != 0 && b.Order != 0 {
		if a.Order < b.Order {
			return -1
		}
		if a.Order > b.Order {
			return 1
		}
	}
	if a.CreatedAt.Before(b.CreatedAt) {
		return -1
	}
	if a.CreatedAt.After(b.CreatedAt) {
		return 1
	}
	if a.ID < b.ID {
		return -1
	}
	if a.ID > b.ID {
		return 1
	}
	return 0
}

// PartitionTasks returns pointers into db.Tasks for one list partition, in display order.
// listID may be "", "default" or a list id.
func PartitionTasks(db *DB, listID string) []*model.Task {
	if db == nil {
		return nil
	}
	key := model.PartitionKey(listID)
	var out []*model.Task
	for i := range db.Tasks {
		if model.SamePartition(db.Tasks[i].ListID, key) {
			out = append(out, &db.Tasks[i])
		}
	}
	SortTasksForDisplay(out)
	return out
}

// NormalizeAllPartitions runs NormalizeOrders on every partition that has a task without
// an order. Used once on load to migrate legacy data.
func NormalizeAllPartitions(db *DB) bool {
	if db == nil {
		return false
	}
	needs := map[string]bool{}
	for _, t := range db.Tasks {
		if t.Order == 0 {
			needs[model.PartitionID(t.ListID)] = true
		}
	}
	keys := make([]string, 0, len(needs))
	for k := range needs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	changed := false
	for _, k := range keys {
		if NormalizeOrders(PartitionTasks(db, k)) {
			changed = true
		}
	}
	return changed
}

func compactTasks(tasks []*model.Task) []*model.Task {
	out := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
