package store

import (
	"strings"
	"testing"

	"tasklist-cli/internal/model"
)

func TestNewRandomID_Shape(t *testing.T) {
	for _, prefix := range []string{"task", "list"} {
		id, err := newRandomID(prefix)
		if err != nil {
			t.Fatalf("newRandomID: %v", err)
		}
		if !strings.HasPrefix(id, prefix+"-") {
			t.Fatalf("expected %s prefix, got %q", prefix, id)
		}
		suffix := strings.TrimPrefix(id, prefix+"-")
		if got, want := len(suffix), 8; got != want {
			t.Fatalf("suffix len = %d; want %d (%q)", got, want, suffix)
		}
		if suffix != strings.ToLower(suffix) {
			t.Fatalf("suffix should be lowercase: %q", suffix)
		}
	}
}

func TestNewID_AvoidsExistingIDs(t *testing.T) {
	db := &DB{}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id, err := db.NewID("task")
		if err != nil {
			t.Fatalf("NewID: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
		db.Tasks = append(db.Tasks, model.Task{ID: id, Text: "x"})
	}
	if !idExists(db, db.Tasks[0].ID) || idExists(db, "task-missing") || idExists(nil, "x") {
		t.Fatalf("idExists mismatch")
	}
}
