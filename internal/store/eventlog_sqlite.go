package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"tasklist-cli/internal/model"

	"github.com/google/uuid"
)

// AppendEvent records a mutation in the append-only activity log.
// The log is informational; state and undo history live in their own tables.
func (s Store) AppendEvent(ctx context.Context, typ, entityID string, payload any) error {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return errors.New("event: missing type")
	}
	// Batch and whole-state events carry no entity id.
	entityID = strings.TrimSpace(entityID)

	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT INTO events(event_id, type, entity_id, payload_json, created_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		uuid.NewString(), typ, entityID, string(pb), time.Now().UTC().UnixMilli())
	return err
}

// ReadEvents returns the newest events first. limit <= 0 means all.
func (s Store) ReadEvents(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, type, entity_id, payload_json, created_at_unixms FROM events`
	var args []any
	if entityID = strings.TrimSpace(entityID); entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY created_at_unixms DESC, rowid DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var (
			id, typ, ent, payloadJSON string
			ms                        int64
		)
		if err := rows.Scan(&id, &typ, &ent, &payloadJSON, &ms); err != nil {
			return nil, err
		}
		var payload any
		_ = json.Unmarshal([]byte(payloadJSON), &payload)
		out = append(out, model.Event{
			ID:       id,
			TS:       time.UnixMilli(ms).UTC(),
			Type:     typ,
			EntityID: ent,
			Payload:  payload,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Event{}
	}
	return out, nil
}
