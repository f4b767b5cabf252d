package model

import (
	"strings"
	"time"
)

// DefaultListID is the reserved partition key for tasks that belong to no list.
// It is never stored as a List and can't be renamed or deleted.
const DefaultListID = "default"

// DefaultListName is the display name of the sentinel list.
const DefaultListName = "Inbox"

type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	ListID    *string   `json:"listId"`
	CreatedAt time.Time `json:"createdAt"`

	// Order is the sort key within the task's list partition.
	// Zero means "missing" (records written before ordering existed).
	Order int64 `json:"order,omitempty"`
}

type List struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// PartitionKey converts an API-level list id into the stored Task.ListID form.
// Both "" and DefaultListID map to nil.
func PartitionKey(listID string) *string {
	listID = strings.TrimSpace(listID)
	if listID == "" || listID == DefaultListID {
		return nil
	}
	return &listID
}

// PartitionID is the inverse of PartitionKey: nil becomes DefaultListID.
func PartitionID(p *string) string {
	if p == nil {
		return DefaultListID
	}
	id := strings.TrimSpace(*p)
	if id == "" {
		return DefaultListID
	}
	return id
}

func SamePartition(a, b *string) bool {
	return PartitionID(a) == PartitionID(b)
}

func IsDefaultList(listID string) bool {
	return PartitionKey(listID) == nil
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	out := t
	if t.ListID != nil {
		v := *t.ListID
		out.ListID = &v
	}
	return out
}

// InList reports whether t belongs to the partition identified by listID.
func (t Task) InList(listID string) bool {
	return PartitionID(t.ListID) == PartitionID(PartitionKey(listID))
}

type Event struct {
	ID       string    `json:"id"`
	TS       time.Time `json:"ts"`
	Type     string    `json:"type"`
	EntityID string    `json:"entityId"`
	Payload  any       `json:"payload"`
}
