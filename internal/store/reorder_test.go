package store

import (
	"testing"
	"time"

	"tasklist-cli/internal/model"
)

func abcd() []*model.Task {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*model.Task{
		{ID: "A", Text: "a", Order: 1000, CreatedAt: now},
		{ID: "B", Text: "b", Order: 2000, CreatedAt: now.Add(time.Second)},
		{ID: "C", Text: "c", Order: 3000, CreatedAt: now.Add(2 * time.Second)},
		{ID: "D", Text: "d", Order: 4000, CreatedAt: now.Add(3 * time.Second)},
	}
}

func applyReorder(tasks []*model.Task, res ReorderResult) {
	for _, t := range tasks {
		if o, ok := res.OrderByID[t.ID]; ok {
			t.Order = o
		}
	}
}

func TestPlanReorder_DropDirections(t *testing.T) {
	cases := []struct {
		name    string
		dragged []string
		target  string
		want    []string
	}{
		{"A onto D (forward lands after)", []string{"A"}, "D", []string{"B", "C", "D", "A"}},
		{"A appended", []string{"A"}, "", []string{"B", "C", "D", "A"}},
		{"C onto A (backward lands before)", []string{"C"}, "A", []string{"C", "A", "B", "D"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tasks := abcd()
			res, ok := PlanReorder(tc.dragged, tc.target, tasks)
			if !ok {
				t.Fatalf("unexpected no-op")
			}
			if !equalStrings(res.Sequence, tc.want) {
				t.Fatalf("sequence = %v; want %v", res.Sequence, tc.want)
			}
			applyReorder(tasks, res)
			if got := displayIDs(tasks); !equalStrings(got, tc.want) {
				t.Fatalf("display after apply = %v; want %v", got, tc.want)
			}
		})
	}
}

// Every (dragged, target) pair over four positions, in both directions.
func TestPlanReorder_AllPositionsBothDirections(t *testing.T) {
	ids := []string{"A", "B", "C", "D"}
	want := map[[2]string][]string{
		{"A", "B"}: {"B", "A", "C", "D"},
		{"A", "C"}: {"B", "C", "A", "D"},
		{"A", "D"}: {"B", "C", "D", "A"},
		{"B", "A"}: {"B", "A", "C", "D"},
		{"B", "C"}: {"A", "C", "B", "D"},
		{"B", "D"}: {"A", "C", "D", "B"},
		{"C", "A"}: {"C", "A", "B", "D"},
		{"C", "B"}: {"A", "C", "B", "D"},
		{"C", "D"}: {"A", "B", "D", "C"},
		{"D", "A"}: {"D", "A", "B", "C"},
		{"D", "B"}: {"A", "D", "B", "C"},
		{"D", "C"}: {"A", "B", "D", "C"},
	}
	for _, from := range ids {
		for _, to := range ids {
			if from == to {
				continue
			}
			tasks := abcd()
			res, ok := PlanReorder([]string{from}, to, tasks)
			if !ok {
				t.Fatalf("%s->%s: unexpected no-op", from, to)
			}
			if w := want[[2]string{from, to}]; !equalStrings(res.Sequence, w) {
				t.Fatalf("%s->%s: sequence = %v; want %v", from, to, res.Sequence, w)
			}
		}
	}
}

func TestPlanReorder_RoundTripRestoresDisplay(t *testing.T) {
	ids := []string{"A", "B", "C", "D"}
	for i, from := range ids {
		for j, to := range ids {
			if i == j {
				continue
			}
			tasks := abcd()
			orig := displayIDs(tasks)
			res, ok := PlanReorder([]string{from}, to, tasks)
			if !ok {
				t.Fatalf("%s->%s: unexpected no-op", from, to)
			}
			applyReorder(tasks, res)

			// Moving back: a forward return drop lands after its target, so aim at the
			// original predecessor; a backward return aims at the original successor.
			back := ""
			if j < i {
				back = orig[i-1]
			} else if i+1 < len(orig) {
				back = orig[i+1]
			}
			res2, ok := PlanReorder([]string{from}, back, tasks)
			if !ok {
				t.Fatalf("%s->%s: return move was a no-op", from, to)
			}
			applyReorder(tasks, res2)
			if got := displayIDs(tasks); !equalStrings(got, orig) {
				t.Fatalf("%s->%s->%q: display = %v; want %v", from, to, back, got, orig)
			}
		}
	}
}

func TestPlanReorder_MultipleDragged(t *testing.T) {
	tasks := abcd()
	res, ok := PlanReorder([]string{"D", "B"}, "", tasks)
	if !ok {
		t.Fatalf("unexpected no-op")
	}
	if want := []string{"A", "C", "D", "B"}; !equalStrings(res.Sequence, want) {
		t.Fatalf("append: sequence = %v; want %v", res.Sequence, want)
	}

	tasks = abcd()
	res, ok = PlanReorder([]string{"A", "B", "A"}, "D", tasks)
	if !ok {
		t.Fatalf("unexpected no-op")
	}
	if want := []string{"C", "D", "A", "B"}; !equalStrings(res.Sequence, want) {
		t.Fatalf("forward multi: sequence = %v; want %v", res.Sequence, want)
	}
}

func TestPlanReorder_NoOps(t *testing.T) {
	cases := []struct {
		name    string
		dragged []string
		target  string
	}{
		{"empty dragged", nil, "A"},
		{"drop on self", []string{"B"}, "B"},
		{"unknown dragged", []string{"Z"}, "A"},
		{"unknown target", []string{"A"}, "Z"},
		{"target among dragged", []string{"A", "B"}, "B"},
		{"append last", []string{"D"}, ""},
		{"append trailing group", []string{"C", "D"}, ""},
	}
	for _, tc := range cases {
		tasks := abcd()
		if res, ok := PlanReorder(tc.dragged, tc.target, tasks); ok {
			t.Fatalf("%s: expected no-op; got %+v", tc.name, res)
		}
		for i, tk := range tasks {
			if tk.Order != int64(i+1)*1000 {
				t.Fatalf("%s: input mutated: %s order=%d", tc.name, tk.ID, tk.Order)
			}
		}
	}
}

func TestPlanReorder_OriginalOrdersOnlyChanged(t *testing.T) {
	tasks := abcd()
	res, ok := PlanReorder([]string{"C"}, "B", tasks)
	if !ok {
		t.Fatalf("unexpected no-op")
	}
	if len(res.OriginalOrders) != 2 || res.OriginalOrders["B"] != 2000 || res.OriginalOrders["C"] != 3000 {
		t.Fatalf("OriginalOrders = %v; want B:2000 C:3000", res.OriginalOrders)
	}
	if got := res.ChangedIDs(); !equalStrings(got, []string{"C", "B"}) {
		t.Fatalf("ChangedIDs = %v; want [C B]", got)
	}
	if len(res.OrderByID) != 4 {
		t.Fatalf("OrderByID should cover the whole partition; got %v", res.OrderByID)
	}
}

func TestPlanReorder_CompletedStayLast(t *testing.T) {
	tasks := abcd()
	tasks[1].Completed = true // B
	// Display: A C D B. Drag B onto A: backward, lands before A in the sequence, but
	// completed tasks still render after incomplete ones.
	res, ok := PlanReorder([]string{"B"}, "A", tasks)
	if !ok {
		t.Fatalf("unexpected no-op")
	}
	applyReorder(tasks, res)
	if got := displayIDs(tasks); !equalStrings(got, []string{"A", "C", "D", "B"}) {
		t.Fatalf("display = %v; want [A C D B]", got)
	}
}

func TestPlanMoveToIndex(t *testing.T) {
	cases := []struct {
		id    string
		index int
		want  []string
		ok    bool
	}{
		{"A", 2, []string{"B", "C", "A", "D"}, true},
		{"A", 1, []string{"B", "A", "C", "D"}, true},
		{"D", 1, []string{"A", "D", "B", "C"}, true},
		{"D", 0, []string{"D", "A", "B", "C"}, true},
		{"B", 99, []string{"A", "C", "D", "B"}, true},
		{"B", 1, nil, false},
		{"Z", 0, nil, false},
	}
	for _, tc := range cases {
		res, ok := PlanMoveToIndex(tc.id, tc.index, abcd())
		if ok != tc.ok {
			t.Fatalf("%s@%d: ok=%v; want %v", tc.id, tc.index, ok, tc.ok)
		}
		if ok && !equalStrings(res.Sequence, tc.want) {
			t.Fatalf("%s@%d: sequence = %v; want %v", tc.id, tc.index, res.Sequence, tc.want)
		}
	}
}
