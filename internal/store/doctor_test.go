package store

import (
	"testing"

	"tasklist-cli/internal/model"
)

func issueCodes(r DoctorReport) map[string]DoctorIssueLevel {
	out := map[string]DoctorIssueLevel{}
	for _, is := range r.Issues {
		out[is.Code] = is.Level
	}
	return out
}

func TestDoctor_ReservedIDAndEmptyValues(t *testing.T) {
	db := &DB{
		Lists: []model.List{{ID: model.DefaultListID, Name: "Inbox copy"}, {ID: "l1", Name: "  "}},
		Tasks: []model.Task{{ID: "t1", Text: " ", Order: 1000}},
	}
	codes := issueCodes(Doctor(db))
	for _, want := range []string{"list_reserved_id", "list_empty_name", "task_empty_text"} {
		if codes[want] != DoctorIssueLevelError {
			t.Fatalf("expected error %q; got %v", want, codes)
		}
	}
}

func TestDoctor_OrderingIssuesAreWarnings(t *testing.T) {
	db := &DB{Tasks: []model.Task{
		{ID: "t1", Text: "a", Order: 1000},
		{ID: "t2", Text: "b", Order: 1000},
		{ID: "t3", Text: "c"},
	}}
	r := Doctor(db)
	if r.HasErrors() {
		t.Fatalf("ordering issues should not be errors: %+v", r.Issues)
	}
	if len(r.Issues) != 2 {
		t.Fatalf("issues = %+v", r.Issues)
	}
	if r.Issues[1].EntityID != "t2" {
		t.Fatalf("duplicate order should point at the later task: %+v", r.Issues[1])
	}
}

func TestDoctor_SameOrderInDifferentListsIsFine(t *testing.T) {
	work := "l1"
	db := &DB{
		Lists: []model.List{{ID: work, Name: "Work"}},
		Tasks: []model.Task{
			{ID: "t1", Text: "a", Order: 1000},
			{ID: "t2", Text: "b", Order: 1000, ListID: &work},
		},
	}
	if r := Doctor(db); len(r.Issues) != 0 {
		t.Fatalf("issues = %+v", r.Issues)
	}
	if r := Doctor(nil); r.Issues == nil || len(r.Issues) != 0 {
		t.Fatalf("nil db report = %+v", r)
	}
}
