package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/undo"
)

const (
	legacyJSONFileName = "todos.json"
	localDirName       = ".tasklist"
)

// DB is the full in-memory state of one data directory.
type DB struct {
	Version       int          `json:"version"`
	CurrentListID string       `json:"currentListId,omitempty"`
	Lists         []model.List `json:"lists"`
	Tasks         []model.Task `json:"todos"`
}

type Store struct {
	Dir    string
	Logger *slog.Logger
}

func (s Store) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DiscoverDir walks up from start looking for a project-local .tasklist directory.
func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, localDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir resolves the data directory: a project-local .tasklist wins, then the
// configured dataDir, then <config dir>/data.
// The config dir itself (~/.tasklist) is never taken as a project dir.
func DefaultDir(cfg *GlobalConfig) (string, error) {
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if cwd, err := os.Getwd(); err == nil {
		if found, ok := DiscoverDir(cwd); ok && filepath.Clean(found) != filepath.Clean(cfgDir) {
			return found, nil
		}
	}
	if cfg != nil && strings.TrimSpace(cfg.DataDir) != "" {
		return expandHome(strings.TrimSpace(cfg.DataDir))
	}
	return filepath.Join(cfgDir, "data"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) legacyJSONPath() string {
	return filepath.Join(s.Dir, legacyJSONFileName)
}

// Load returns the persisted state and undo history. On first use it imports a legacy
// todos.json once and assigns order keys to partitions that lack them.
func (s Store) Load(ctx context.Context) (*DB, []undo.Action, error) {
	if err := s.Ensure(); err != nil {
		return nil, nil, err
	}
	return s.LoadSQLite(ctx)
}

// Save persists state and undo history in one transaction.
func (s Store) Save(ctx context.Context, db *DB, history []undo.Action) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(ctx, db, history)
}

func (db *DB) FindTask(id string) (*model.Task, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			return &db.Tasks[i], true
		}
	}
	return nil, false
}

func (db *DB) FindList(id string) (*model.List, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Lists {
		if db.Lists[i].ID == id {
			return &db.Lists[i], true
		}
	}
	return nil, false
}

// FindListByName matches case-insensitively.
func (db *DB) FindListByName(name string) (*model.List, bool) {
	name = strings.TrimSpace(name)
	for i := range db.Lists {
		if strings.EqualFold(db.Lists[i].Name, name) {
			return &db.Lists[i], true
		}
	}
	return nil, false
}

// ResolveListID accepts a list id, a list name, "" or "default" and returns the
// canonical partition id ("default" for the sentinel).
func (db *DB) ResolveListID(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if model.IsDefaultList(ref) || strings.EqualFold(ref, model.DefaultListName) {
		return model.DefaultListID, true
	}
	if l, ok := db.FindList(ref); ok {
		return l.ID, true
	}
	if l, ok := db.FindListByName(ref); ok {
		return l.ID, true
	}
	return "", false
}

func (db *DB) ListName(id string) string {
	if model.IsDefaultList(id) {
		return model.DefaultListName
	}
	if l, ok := db.FindList(id); ok {
		return l.Name
	}
	return id
}

func (db *DB) RemoveTask(id string) bool {
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			db.Tasks = append(db.Tasks[:i], db.Tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (db *DB) Clone() *DB {
	out := &DB{Version: db.Version, CurrentListID: db.CurrentListID}
	out.Lists = append([]model.List{}, db.Lists...)
	out.Tasks = make([]model.Task, 0, len(db.Tasks))
	for _, t := range db.Tasks {
		out.Tasks = append(out.Tasks, t.Clone())
	}
	return out
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/")), nil
}
