package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"notewin/internal/model"

	"github.com/google/uuid"
)

func appendEventTx(ctx context.Context, tx *sql.Tx, actorID, typ, entityID string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO events(event_id, ts_unixms, actor_id, type, entity_id, payload_json) VALUES(?, ?, ?, ?, ?, ?)`,
		"evt-"+uuid.NewString(), time.Now().UTC().UnixMilli(), strings.TrimSpace(actorID), typ, entityID, string(raw))
	return err
}

// ReadEvents returns up to limit events, newest first. When entityID is set only that
// note's events are returned. limit <= 0 means no limit.
func (s Store) ReadEvents(ctx context.Context, entityID string, limit int) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT event_id, ts_unixms, actor_id, type, entity_id, payload_json FROM events`
	args := []any{}
	if entityID = strings.TrimSpace(entityID); entityID != "" {
		q += ` WHERE entity_id = ?`
		args = append(args, entityID)
	}
	q += ` ORDER BY ts_unixms DESC, rowid DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Event{}
	for rows.Next() {
		var (
			ev      model.Event
			tsMs    int64
			payload string
		)
		if err := rows.Scan(&ev.ID, &tsMs, &ev.ActorID, &ev.Type, &ev.EntityID, &payload); err != nil {
			return nil, err
		}
		ev.TS = time.UnixMilli(tsMs).UTC()
		if payload != "" && payload != "null" {
			var p any
			if err := json.Unmarshal([]byte(payload), &p); err == nil {
				ev.Payload = p
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// UpsertActor registers (or renames) an actor.
func (s Store) UpsertActor(ctx context.Context, a model.Actor) error {
	a.ID = strings.TrimSpace(a.ID)
	if a.ID == "" {
		return ErrNoActor
	}
	if strings.TrimSpace(a.Name) == "" {
		a.Name = a.ID
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.ExecContext(ctx, `INSERT INTO actors(id, name) VALUES(?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`, a.ID, a.Name)
	return err
}

func (s Store) FindActor(ctx context.Context, id string) (model.Actor, bool, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Actor{}, false, err
	}
	defer db.Close()
	var a model.Actor
	err = db.QueryRowContext(ctx, `SELECT id, name FROM actors WHERE id = ?`, strings.TrimSpace(id)).Scan(&a.ID, &a.Name)
	if err == sql.ErrNoRows {
		return model.Actor{}, false, nil
	}
	if err != nil {
		return model.Actor{}, false, err
	}
	return a, true, nil
}
