package store

import (
	"fmt"
	"sort"
	"strings"

	"tasklist-cli/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level    DoctorIssueLevel `json:"level"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	EntityID string           `json:"entityId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks the invariants the ordering code relies on.
func Doctor(db *DB) DoctorReport {
	issues := []DoctorIssue{}
	if db == nil {
		return DoctorReport{Issues: issues}
	}

	names := map[string]string{}
	for _, l := range db.Lists {
		if model.IsDefaultList(l.ID) {
			issues = append(issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "list_reserved_id", Message: "list uses the reserved default id", EntityID: l.ID})
		}
		if strings.TrimSpace(l.Name) == "" {
			issues = append(issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "list_empty_name", Message: "list has an empty name", EntityID: l.ID})
		}
		key := strings.ToLower(strings.TrimSpace(l.Name))
		if other, ok := names[key]; ok {
			issues = append(issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "list_duplicate_name", Message: fmt.Sprintf("name %q also used by %s", l.Name, other), EntityID: l.ID})
		}
		names[key] = l.ID
	}

	partitions := map[string][]model.Task{}
	for _, t := range db.Tasks {
		pid := model.PartitionID(t.ListID)
		if pid != model.DefaultListID {
			if _, ok := db.FindList(pid); !ok {
				issues = append(issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "task_orphan", Message: "task references missing list " + pid, EntityID: t.ID})
			}
		}
		if strings.TrimSpace(t.Text) == "" {
			issues = append(issues, DoctorIssue{Level: DoctorIssueLevelError, Code: "task_empty_text", Message: "task has empty text", EntityID: t.ID})
		}
		if t.Order == 0 {
			issues = append(issues, DoctorIssue{Level: DoctorIssueLevelWarn, Code: "task_missing_order", Message: "task has no order key", EntityID: t.ID})
		}
		partitions[pid] = append(partitions[pid], t)
	}

	pids := make([]string, 0, len(partitions))
	for pid := range partitions {
		pids = append(pids, pid)
	}
	sort.Strings(pids)
	for _, pid := range pids {
		seen := map[int64]string{}
		for _, t := range partitions[pid] {
			if t.Order == 0 {
				continue
			}
			if other, ok := seen[t.Order]; ok {
				issues = append(issues, DoctorIssue{
					Level:    DoctorIssueLevelWarn,
					Code:     "task_duplicate_order",
					Message:  fmt.Sprintf("order %d shared with %s in list %s", t.Order, other, pid),
					EntityID: t.ID,
				})
				continue
			}
			seen[t.Order] = t.ID
		}
	}
	return DoctorReport{Issues: issues}
}
