package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tasklist-cli/internal/model"
	"tasklist-cli/internal/undo"

	_ "modernc.org/sqlite"
)

const sqliteFileName = "tasklist.sqlite"

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL lets the TUI and one-shot CLI commands read while the other writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// LoadSQLite loads state + undo history. If the database is empty but a legacy todos.json
// exists, it is imported once.
func (s Store) LoadSQLite(ctx context.Context) (*DB, []undo.Action, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	hasState, err := sqliteStateHasAnyRows(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	if !hasState {
		if b, err := os.ReadFile(s.legacyJSONPath()); err == nil && len(b) > 0 {
			legacy, err := loadWireDB(b)
			if err != nil {
				return nil, nil, fmt.Errorf("import %s: %w", legacyJSONFileName, err)
			}
			if NormalizeAllPartitions(&legacy) {
				s.logger().Info("assigned order keys during import", "file", s.legacyJSONPath())
			}
			if err := saveStateTx(ctx, db, &legacy, nil); err != nil {
				return nil, nil, err
			}
		}
	}

	st, err := loadStateFromSQLite(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.loadUndoHistory(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return st, history, nil
}

func (s Store) SaveSQLite(ctx context.Context, st *DB, history []undo.Action) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	return saveStateTx(ctx, db, st, history)
}

func saveStateTx(ctx context.Context, db *sql.DB, st *DB, history []undo.Action) error {
	// Encode before opening the transaction so a bad action can't leave a half-written state.
	blobs := make([][]byte, 0, len(history))
	types := make([]string, 0, len(history))
	for _, a := range history {
		b, err := undo.Encode(a)
		if err != nil {
			return fmt.Errorf("encode undo action: %w", err)
		}
		blobs = append(blobs, b)
		types = append(types, string(a.Type()))
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		"version":         strconv.Itoa(st.Version),
		"current_list_id": strings.TrimSpace(st.CurrentListID),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	// Replace-all keeps the write path simple; partitions are small.
	for _, t := range []string{"lists", "tasks", "undo_actions"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()
	for _, l := range st.Lists {
		raw, _ := json.Marshal(l)
		if _, err := tx.ExecContext(ctx, `INSERT INTO lists(id, name, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			l.ID, l.Name, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, t := range st.Tasks {
		raw, _ := json.Marshal(t)
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(id, list_id, sort_order, completed, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			t.ID, model.PartitionID(t.ListID), t.Order, boolToInt(t.Completed), string(raw), nowMs); err != nil {
			return err
		}
	}
	for i, b := range blobs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO undo_actions(seq, type, payload) VALUES(?, ?, ?)`, i, types[i], b); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS lists (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL,
			sort_order INTEGER NOT NULL,
			completed INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_list ON tasks(list_id, completed, sort_order);`,
		`CREATE TABLE IF NOT EXISTS undo_actions (
			seq INTEGER PRIMARY KEY,
			type TEXT NOT NULL,
			payload BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			payload_json TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_created ON events(created_at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_events_entity ON events(entity_id, created_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func sqliteStateHasAnyRows(ctx context.Context, db *sql.DB) (bool, error) {
	qs := []string{
		`SELECT COUNT(1) FROM tasks`,
		`SELECT COUNT(1) FROM lists`,
		`SELECT COUNT(1) FROM state_meta`,
	}
	for _, q := range qs {
		var n int
		if err := db.QueryRowContext(ctx, q).Scan(&n); err != nil {
			return false, err
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: 1}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentListID = readMeta("current_list_id")

	lists, err := readJSONRows[model.List](ctx, db, `SELECT json FROM lists ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	tasks, err := readJSONRows[model.Task](ctx, db, `SELECT json FROM tasks ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	out.Lists = lists
	out.Tasks = tasks
	if out.Lists == nil {
		out.Lists = []model.List{}
	}
	if out.Tasks == nil {
		out.Tasks = []model.Task{}
	}
	return out, nil
}

// loadUndoHistory skips entries that fail to decode instead of refusing to start.
func (s Store) loadUndoHistory(ctx context.Context, db *sql.DB) ([]undo.Action, error) {
	rows, err := db.QueryContext(ctx, `SELECT seq, type, payload FROM undo_actions ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []undo.Action
	for rows.Next() {
		var (
			seq     int64
			typ     string
			payload []byte
		)
		if err := rows.Scan(&seq, &typ, &payload); err != nil {
			return nil, err
		}
		a, err := undo.Decode(payload)
		if err != nil {
			s.logger().Warn("skipping unreadable undo entry", "seq", seq, "type", typ, "err", err)
			continue
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
