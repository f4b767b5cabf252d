package cli

import (
	"fmt"
	"strings"
	"time"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/store"
)

type taskView struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	ListID    string    `json:"listId"`
	Order     int64     `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

func newTaskView(t *model.Task) taskView {
	return taskView{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		ListID:    model.PartitionID(t.ListID),
		Order:     t.Order,
		CreatedAt: t.CreatedAt,
	}
}

func (v taskView) line() string {
	box := "[ ]"
	if v.Completed {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s  (%s)", box, v.Text, v.ID)
}

type taskViews []taskView

func newTaskViews(tasks []*model.Task) taskViews {
	out := make(taskViews, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, newTaskView(t))
	}
	return out
}

func (vs taskViews) Text() string {
	var b strings.Builder
	for _, v := range vs {
		b.WriteString(v.line())
		b.WriteString("\n")
	}
	return b.String()
}

type listView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	Tasks     int       `json:"tasks"`
	Open      int       `json:"open"`
	Current   bool      `json:"current"`
}

type listViews []listView

// newListViews returns the default list first, then stored lists in creation order.
func newListViews(db *store.DB, currentID string) listViews {
	count := func(id string) (int, int) {
		total, open := 0, 0
		for _, t := range store.PartitionTasks(db, id) {
			total++
			if !t.Completed {
				open++
			}
		}
		return total, open
	}
	out := listViews{}
	total, open := count(model.DefaultListID)
	out = append(out, listView{ID: model.DefaultListID, Name: model.DefaultListName, Tasks: total, Open: open, Current: currentID == model.DefaultListID})
	for _, l := range db.Lists {
		total, open := count(l.ID)
		out = append(out, listView{ID: l.ID, Name: l.Name, CreatedAt: l.CreatedAt, Tasks: total, Open: open, Current: currentID == l.ID})
	}
	return out
}

func (vs listViews) Text() string {
	var b strings.Builder
	for _, v := range vs {
		mark := " "
		if v.Current {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %s  %d/%d open  (%s)\n", mark, v.Name, v.Open, v.Tasks, v.ID)
	}
	return b.String()
}
