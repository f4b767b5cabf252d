package undo

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"tasklist-cli/internal/model"
)

func TestCodec_PreservesSnapshotsAndMaps(t *testing.T) {
	work := "list-work"
	created := time.Date(2026, 3, 4, 5, 6, 7, 891011121, time.UTC)

	in := []Action{
		DeleteList{
			List: model.List{ID: work, Name: "Work", CreatedAt: created},
			Todos: []model.Task{
				{ID: "task-1", Text: "ship it", ListID: &work, CreatedAt: created, Order: 3000, Completed: true},
			},
		},
		MoveTodos{
			TodoIDs:         []string{"task-1", "task-2"},
			OriginalListIDs: map[string]string{"task-1": work, "task-2": model.DefaultListID},
			OriginalOrders:  map[string]int64{"task-1": 1000, "task-2": 2500},
		},
		ReorderTodos{TodoIDs: []string{"A"}, OriginalOrders: map[string]int64{"A": 1000}},
	}
	for _, a := range in {
		b, err := Encode(a)
		if err != nil {
			t.Fatalf("encode %s: %v", a.Type(), err)
		}
		got, err := Decode(b)
		if err != nil {
			t.Fatalf("decode %s: %v", a.Type(), err)
		}
		if !reflect.DeepEqual(got, a) {
			t.Fatalf("%s: decoded %#v; want %#v", a.Type(), got, a)
		}
	}
}

func TestCodec_RejectsUnknownType(t *testing.T) {
	if _, err := Encode(bogusAction{tag: "nope"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("encode err = %v; want ErrUnknownAction", err)
	}
	b, err := encMode.Marshal(envelope{Type: "nope", Payload: []byte{0xa0}})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	if _, err := Decode(b); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("decode err = %v; want ErrUnknownAction", err)
	}
}
