package store

import (
	"encoding/json"
	"errors"
	"strings"

	"tasklist-cli/internal/model"
)

// wireDB is the plain JSON document written by earlier versions (todos.json).
// Older files used "tasks" instead of "todos".
type wireDB struct {
	CurrentListID string          `json:"currentListId,omitempty"`
	Lists         []model.List    `json:"lists"`
	Todos         json.RawMessage `json:"todos"`
	Tasks         json.RawMessage `json:"tasks"`
}

func loadWireDB(b []byte) (DB, error) {
	var w wireDB
	if err := json.Unmarshal(b, &w); err != nil {
		return DB{}, err
	}

	raw := w.Todos
	if isNullOrEmpty(raw) {
		raw = w.Tasks
	}
	var tasks []model.Task
	if !isNullOrEmpty(raw) {
		if err := json.Unmarshal(raw, &tasks); err != nil {
			return DB{}, err
		}
	}

	db := DB{Version: 1, CurrentListID: strings.TrimSpace(w.CurrentListID)}
	for _, l := range w.Lists {
		// The sentinel was sometimes written out as a real list; it's implicit now.
		if model.IsDefaultList(l.ID) {
			continue
		}
		l.Name = strings.TrimSpace(l.Name)
		db.Lists = append(db.Lists, l)
	}
	for _, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			return DB{}, errors.New("task without id")
		}
		t.ListID = model.PartitionKey(model.PartitionID(t.ListID))
		t.Text = strings.TrimSpace(t.Text)
		db.Tasks = append(db.Tasks, t)
	}
	if model.IsDefaultList(db.CurrentListID) {
		db.CurrentListID = ""
	}
	return db, nil
}

// ParseLegacyJSON decodes a todos.json document and assigns missing order keys.
func ParseLegacyJSON(b []byte) (*DB, error) {
	db, err := loadWireDB(b)
	if err != nil {
		return nil, err
	}
	NormalizeAllPartitions(&db)
	return &db, nil
}

// MarshalWire encodes db in the legacy todos.json layout.
func MarshalWire(db *DB, pretty bool) ([]byte, error) {
	w := struct {
		CurrentListID string       `json:"currentListId,omitempty"`
		Lists         []model.List `json:"lists"`
		Todos         []model.Task `json:"todos"`
	}{db.CurrentListID, db.Lists, db.Tasks}
	if w.Lists == nil {
		w.Lists = []model.List{}
	}
	if w.Todos == nil {
		w.Todos = []model.Task{}
	}
	if pretty {
		return json.MarshalIndent(w, "", "  ")
	}
	return json.Marshal(w)
}

func isNullOrEmpty(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	s := strings.TrimSpace(string(b))
	return s == "" || s == "null"
}
