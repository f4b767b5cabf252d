package store

import (
	"context"
	"testing"
)

func TestReadEvents_NewestFirstWithPayload(t *testing.T) {
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}

	for _, typ := range []string{"task.add", "task.edit", "undo"} {
		entity := "task-a"
		if typ == "undo" {
			entity = ""
		}
		if err := s.AppendEvent(ctx, typ, entity, map[string]any{"step": typ}); err != nil {
			t.Fatalf("AppendEvent %s: %v", typ, err)
		}
	}

	evs, err := s.ReadEvents(ctx, "", 2)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if len(evs) != 2 || evs[0].Type != "undo" || evs[1].Type != "task.edit" {
		t.Fatalf("events = %+v", evs)
	}
	p, ok := evs[1].Payload.(map[string]any)
	if !ok || p["step"] != "task.edit" {
		t.Fatalf("payload = %#v", evs[1].Payload)
	}
	if evs[0].ID == "" || evs[0].TS.IsZero() {
		t.Fatalf("event missing id or timestamp: %+v", evs[0])
	}
}

func TestReadEvents_EmptyLogIsEmptySlice(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	evs, err := s.ReadEvents(context.Background(), "task-x", 0)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if evs == nil || len(evs) != 0 {
		t.Fatalf("events = %#v", evs)
	}
}
