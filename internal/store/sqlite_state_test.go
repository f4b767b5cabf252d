package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/undo"
)

func sampleDB() *DB {
	now := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)
	work := "list-work"
	return &DB{
		Version:       1,
		CurrentListID: work,
		Lists:         []model.List{{ID: work, Name: "Work", CreatedAt: now}},
		Tasks: []model.Task{
			{ID: "task-a", Text: "inbox item", CreatedAt: now, Order: 1000},
			{ID: "task-b", Text: "work item", ListID: &work, CreatedAt: now, Order: 1000, Completed: true},
		},
	}
}

func TestSQLite_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	db := sampleDB()
	history := []undo.Action{
		undo.AddTodo{TodoID: "task-a"},
		undo.ReorderTodos{TodoIDs: []string{"task-a"}, OriginalOrders: map[string]int64{"task-a": 2000}},
		undo.DeleteTodo{Todo: db.Tasks[1].Clone()},
	}
	if err := s.Save(ctx, db, history); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, gotHistory, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, db) {
		t.Fatalf("state mismatch:\n got %+v\nwant %+v", got, db)
	}
	if len(gotHistory) != len(history) {
		t.Fatalf("history len = %d; want %d", len(gotHistory), len(history))
	}
	for i := range history {
		if gotHistory[i].Type() != history[i].Type() {
			t.Fatalf("history[%d] type = %s; want %s", i, gotHistory[i].Type(), history[i].Type())
		}
	}
	if !reflect.DeepEqual(gotHistory[2], history[2]) {
		t.Fatalf("snapshot mismatch: got %#v want %#v", gotHistory[2], history[2])
	}

	// A second save replaces the previous history rather than appending.
	if err := s.Save(ctx, got, nil); err != nil {
		t.Fatalf("Save (2): %v", err)
	}
	if _, h, err := s.Load(ctx); err != nil || len(h) != 0 {
		t.Fatalf("expected empty history; got %d (err %v)", len(h), err)
	}
}

func TestLoad_ImportsLegacyJSONOnceAndAssignsOrders(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	legacy := `{
  "lists": [{"id": "default", "name": "Default"}, {"id": "l1", "name": " Groceries ", "createdAt": "2025-05-01T10:00:00Z"}],
  "todos": [
    {"id": "t2", "text": "second", "completed": false, "listId": "default", "createdAt": "2025-05-01T10:00:02Z"},
    {"id": "t1", "text": "first", "completed": false, "listId": null, "createdAt": "2025-05-01T10:00:01Z"},
    {"id": "t3", "text": "milk", "completed": true, "listId": "l1", "createdAt": "2025-05-01T10:00:03Z", "order": 5000}
  ]
}`
	if err := os.WriteFile(filepath.Join(dir, "todos.json"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("write legacy: %v", err)
	}

	s := Store{Dir: dir}
	db, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(db.Lists) != 1 || db.Lists[0].Name != "Groceries" {
		t.Fatalf("lists = %+v; want only Groceries", db.Lists)
	}
	inbox := PartitionTasks(db, model.DefaultListID)
	if ids := idsOf(inbox); !equalStrings(ids, []string{"t1", "t2"}) {
		t.Fatalf("inbox = %v; want [t1 t2]", ids)
	}
	if inbox[0].Order != 1000 || inbox[1].Order != 2000 {
		t.Fatalf("inbox orders = %d,%d; want 1000,2000", inbox[0].Order, inbox[1].Order)
	}
	for _, tk := range inbox {
		if tk.ListID != nil {
			t.Fatalf("%s: listId = %q; want nil", tk.ID, *tk.ListID)
		}
	}
	if tk, _ := db.FindTask("t3"); tk.Order != 5000 {
		t.Fatalf("t3 order rewritten to %d; partition had no missing orders", tk.Order)
	}

	// The import happens once; edits to todos.json afterwards are ignored.
	if err := os.WriteFile(filepath.Join(dir, "todos.json"), []byte(`{"todos": []}`), 0o644); err != nil {
		t.Fatalf("rewrite legacy: %v", err)
	}
	db2, _, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load (2): %v", err)
	}
	if len(db2.Tasks) != 3 {
		t.Fatalf("tasks after reload = %d; want 3", len(db2.Tasks))
	}
}

func TestEvents_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	if err := s.AppendEvent(ctx, "task.add", "task-a", map[string]any{"text": "x"}); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent(ctx, "task.toggle", "task-a", nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent(ctx, "list.add", "list-b", nil); err != nil {
		t.Fatalf("AppendEvent: %v", err)
	}
	if err := s.AppendEvent(ctx, "", "x", nil); err == nil {
		t.Fatalf("expected error for missing type")
	}

	all, err := s.ReadEvents(ctx, "", 0)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("events = %d; want 3", len(all))
	}
	forA, err := s.ReadEvents(ctx, "task-a", 1)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(forA) != 1 || forA[0].EntityID != "task-a" {
		t.Fatalf("unexpected events for task-a: %+v", forA)
	}
}

func TestBackup_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "snap.tlbak")
	db := sampleDB()
	m, err := WriteBackup(path, db)
	if err != nil {
		t.Fatalf("WriteBackup: %v", err)
	}
	if m.Lists != 1 || m.Tasks != 2 {
		t.Fatalf("manifest = %+v", m)
	}
	got, _, err := ReadBackup(path)
	if err != nil {
		t.Fatalf("ReadBackup: %v", err)
	}
	if !reflect.DeepEqual(got.Tasks, db.Tasks) || !reflect.DeepEqual(got.Lists, db.Lists) {
		t.Fatalf("backup mismatch:\n got %+v\nwant %+v", got, db)
	}
}

func TestDoctor_ReportsOrderingProblems(t *testing.T) {
	ghost := "list-ghost"
	db := &DB{
		Lists: []model.List{{ID: "l1", Name: "A"}, {ID: "l2", Name: "a"}},
		Tasks: []model.Task{
			{ID: "t1", Text: "x", Order: 1000},
			{ID: "t2", Text: "y", Order: 1000},
			{ID: "t3", Text: "z"},
			{ID: "t4", Text: "w", ListID: &ghost, Order: 1000},
		},
	}
	rep := Doctor(db)
	codes := map[string]bool{}
	for _, is := range rep.Issues {
		codes[is.Code] = true
	}
	for _, want := range []string{"list_duplicate_name", "task_duplicate_order", "task_missing_order", "task_orphan"} {
		if !codes[want] {
			t.Fatalf("missing issue %q in %+v", want, rep.Issues)
		}
	}
	if !rep.HasErrors() {
		t.Fatalf("expected errors")
	}
	if rep := Doctor(sampleDB()); len(rep.Issues) != 0 {
		t.Fatalf("clean db reported issues: %+v", rep.Issues)
	}
}
