package store

import (
	"testing"
	"time"

	"tasklist-cli/internal/model"
)

func TestNextOrderValue(t *testing.T) {
	if got := NextOrderValue(nil); got != 1000 {
		t.Fatalf("empty partition: got %d; want 1000", got)
	}
	one := []*model.Task{{ID: "a", Order: 1000}}
	if got := NextOrderValue(one); got != 2000 {
		t.Fatalf("single task: got %d; want 2000", got)
	}
	mixed := []*model.Task{{ID: "a", Order: 0}, {ID: "b", Order: 4500}, nil, {ID: "c", Order: 3000}}
	if got := NextOrderValue(mixed); got != 5500 {
		t.Fatalf("mixed: got %d; want 5500", got)
	}
}

func TestInsertAtFractionalPosition_SitsBetweenNormalizedNeighbors(t *testing.T) {
	for idx := 0; idx < 5; idx++ {
		k := InsertAtFractionalPosition(idx)
		lower := int64(idx) * OrderStep // key of normalized task at idx-1 (0 when idx==0)
		upper := int64(idx+1) * OrderStep
		if !(lower < k && k < upper) {
			t.Fatalf("idx=%d: key %d not in (%d, %d)", idx, k, lower, upper)
		}
	}
	if got := InsertAtFractionalPosition(-4); got != 500 {
		t.Fatalf("negative index: got %d; want 500", got)
	}
}

func TestNormalizeOrders_PreservesDisplayOrderAndMakesKeysUnique(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []*model.Task{
		{ID: "done-early", Order: 100, Completed: true, CreatedAt: base},
		{ID: "x", Order: 7, CreatedAt: base.Add(time.Minute)},
		{ID: "y", Order: 7, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "z", Order: 2, CreatedAt: base.Add(3 * time.Minute)},
		{ID: "legacy", Order: 0, CreatedAt: base.Add(4 * time.Minute)},
	}

	before := displayIDs(tasks)
	if !NormalizeOrders(tasks) {
		t.Fatalf("expected a change")
	}
	after := displayIDs(tasks)
	// The legacy task's createdAt-derived key sorts after the small explicit keys.
	want := []string{"z", "x", "y", "legacy", "done-early"}
	if !equalStrings(after, want) {
		t.Fatalf("display order after normalize = %v; want %v (before %v)", after, want, before)
	}

	seen := map[int64]string{}
	byOrder := append([]*model.Task{}, tasks...)
	for _, tk := range byOrder {
		if other, dup := seen[tk.Order]; dup {
			t.Fatalf("duplicate order %d for %s and %s", tk.Order, tk.ID, other)
		}
		seen[tk.Order] = tk.ID
	}
	// Ascending order keys give the same sequence as the display order.
	for i, id := range after {
		if got := findTask(tasks, id).Order; got != int64(i+1)*1000 {
			t.Fatalf("%s order = %d; want %d", id, got, (i+1)*1000)
		}
	}

	if NormalizeOrders(tasks) {
		t.Fatalf("second normalize reported a change")
	}
}

func TestPartitionTasks_TreatsDefaultAndNilAlike(t *testing.T) {
	work := "list-work"
	def := model.DefaultListID
	db := &DB{Tasks: []model.Task{
		{ID: "a", Order: 2000},
		{ID: "b", Order: 1000, ListID: &def},
		{ID: "c", Order: 1000, ListID: &work},
	}}
	for _, key := range []string{"", "default"} {
		got := PartitionTasks(db, key)
		if ids := idsOf(got); !equalStrings(ids, []string{"b", "a"}) {
			t.Fatalf("PartitionTasks(%q) = %v; want [b a]", key, ids)
		}
	}
	if ids := idsOf(PartitionTasks(db, work)); !equalStrings(ids, []string{"c"}) {
		t.Fatalf("PartitionTasks(work) = %v; want [c]", ids)
	}
}

func TestNormalizeAllPartitions_OnlyTouchesPartitionsWithMissingOrders(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	work := "list-work"
	db := &DB{Tasks: []model.Task{
		{ID: "a", CreatedAt: base.Add(time.Second)},
		{ID: "b", CreatedAt: base},
		{ID: "c", Order: 5, ListID: &work},
	}}
	if !NormalizeAllPartitions(db) {
		t.Fatalf("expected change")
	}
	if ids := idsOf(PartitionTasks(db, "")); !equalStrings(ids, []string{"b", "a"}) {
		t.Fatalf("default partition = %v; want [b a]", ids)
	}
	if got := db.Tasks[2].Order; got != 5 {
		t.Fatalf("untouched partition was renumbered: order=%d", got)
	}
}

func displayIDs(tasks []*model.Task) []string {
	cp := append([]*model.Task{}, tasks...)
	SortTasksForDisplay(cp)
	return idsOf(cp)
}

func idsOf(tasks []*model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func findTask(tasks []*model.Task, id string) *model.Task {
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
