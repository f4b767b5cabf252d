package mutate

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/store"
	"tasklist-cli/internal/undo"
)

// SelectionState is the list the user is currently looking at.
type SelectionState struct {
	CurrentListID string
}

// Current returns the selected partition id ("default" for the sentinel).
func (s *SelectionState) Current() string {
	if s == nil {
		return model.DefaultListID
	}
	return model.PartitionID(model.PartitionKey(s.CurrentListID))
}

type Options struct {
	UndoLimit int
	Logger    *slog.Logger
	Now       func() time.Time
}

// Session owns one in-memory task/list collection, its undo history and the list
// selection. Every undoable method pushes its undo record before returning, so saving
// DB and History.Actions() together keeps state and history in step.
//
// Methods do no I/O. Results report Changed so callers know whether to persist,
// re-render and append the matching event.
//
// A Session is not safe for concurrent use.
type Session struct {
	DB        *store.DB
	History   *undo.Log
	Selection *SelectionState

	logger *slog.Logger
	now    func() time.Time
}

type TaskResult struct {
	Task         *model.Task
	Changed      bool
	EventPayload map[string]any
}

type ListResult struct {
	List         *model.List
	Changed      bool
	EventPayload map[string]any
}

type BatchResult struct {
	IDs          []string
	Changed      bool
	EventPayload map[string]any
}

func NewSession(db *store.DB, history []undo.Action, opts Options) *Session {
	if db == nil {
		db = &store.DB{Version: 1}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	log := undo.NewLog(opts.UndoLimit, logger)
	log.Replace(history)

	s := &Session{
		DB:        db,
		History:   log,
		Selection: &SelectionState{},
		logger:    logger,
		now:       now,
	}
	s.Selection.CurrentListID = model.DefaultListID
	if id, ok := db.ResolveListID(db.CurrentListID); ok {
		s.Selection.CurrentListID = id
	}
	return s
}

// NormalizeAll assigns order keys to every partition that has tasks without one.
// It is the load-time migration step and is not undoable.
func (s *Session) NormalizeAll() bool {
	return store.NormalizeAllPartitions(s.DB)
}

// Tasks returns the tasks of one list in display order.
func (s *Session) Tasks(listID string) []*model.Task {
	return store.PartitionTasks(s.DB, listID)
}

// SelectList changes the current list. listID may be an id, a name or "default".
func (s *Session) SelectList(ref string) (string, error) {
	id, ok := s.DB.ResolveListID(ref)
	if !ok {
		return "", NotFoundError{Kind: "list", ID: strings.TrimSpace(ref)}
	}
	s.setSelection(id)
	return id, nil
}

func (s *Session) setSelection(id string) {
	s.Selection.CurrentListID = model.PartitionID(model.PartitionKey(id))
	if model.IsDefaultList(id) {
		s.DB.CurrentListID = ""
	} else {
		s.DB.CurrentListID = id
	}
}

// resolveList maps a user reference to a canonical partition id.
func (s *Session) resolveList(ref string) (string, error) {
	id, ok := s.DB.ResolveListID(ref)
	if !ok {
		s.logger.Debug("list not found", "ref", ref)
		return "", NotFoundError{Kind: "list", ID: strings.TrimSpace(ref)}
	}
	return id, nil
}

func (s *Session) findTask(id string) (*model.Task, error) {
	t, ok := s.DB.FindTask(id)
	if !ok {
		s.logger.Debug("task not found", "id", id)
		return nil, NotFoundError{Kind: "task", ID: strings.TrimSpace(id)}
	}
	return t, nil
}

func (s *Session) push(a undo.Action) {
	if !s.History.Push(a) {
		s.logger.Warn("undo record dropped", "type", string(a.Type()))
	}
}

func normalizeText(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", ValidationError{Field: field, Reason: "must not be empty"}
	}
	return v, nil
}
