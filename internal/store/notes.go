package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"notewin/internal/model"
	"notewin/internal/perm"
)

type rowScanner interface {
	Scan(dest ...any) error
}

const noteColumns = `id, title, body, access, owner_actor_id, created_at_unixms, updated_at_unixms`

func scanNote(r rowScanner) (model.Note, error) {
	var (
		n                  model.Note
		access             string
		createdMs, updated int64
	)
	if err := r.Scan(&n.ID, &n.Title, &n.Body, &access, &n.OwnerActorID, &createdMs, &updated); err != nil {
		return model.Note{}, err
	}
	n.Access = model.Access(access)
	n.CreatedAt = time.UnixMilli(createdMs).UTC()
	n.UpdatedAt = time.UnixMilli(updated).UTC()
	return n, nil
}

func getNote(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, id string) (model.Note, error) {
	n, err := scanNote(q.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, strings.TrimSpace(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, ErrNotFound
	}
	return n, err
}

// CreateNote inserts a note owned by actorID.
func (s Store) CreateNote(ctx context.Context, actorID, title, body string, access model.Access) (model.NoteView, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return model.NoteView{}, ErrNoActor
	}
	if access == "" {
		access = model.AccessAdmin
	}
	a, ok := model.ParseAccess(string(access))
	if !ok {
		return model.NoteView{}, ErrInvalidAccess
	}
	access = a
	id, err := newRandomID("note")
	if err != nil {
		return model.NoteView{}, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	n := model.Note{
		ID:           id,
		Title:        strings.TrimSpace(title),
		Body:         body,
		Access:       access,
		OwnerActorID: actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO notes(`+noteColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.Title, n.Body, string(n.Access), n.OwnerActorID, now.UnixMilli(), now.UnixMilli()); err != nil {
			return err
		}
		return appendEventTx(ctx, tx, actorID, "note.create", n.ID, n)
	})
	if err != nil {
		return model.NoteView{}, err
	}
	v, _ := perm.View(actorID, n)
	return v, nil
}

// FetchNote returns the note as seen by actorID. Notes the actor may not see are reported
// as ErrNotFound so their existence is not leaked.
func (s Store) FetchNote(ctx context.Context, actorID, noteID string) (model.NoteView, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.NoteView{}, err
	}
	defer db.Close()

	n, err := getNote(ctx, db, noteID)
	if err != nil {
		return model.NoteView{}, err
	}
	v, ok := perm.View(actorID, n)
	if !ok {
		return model.NoteView{}, ErrNotFound
	}
	return v, nil
}

// ListNotes returns every note visible to actorID, most recently updated first.
func (s Store) ListNotes(ctx context.Context, actorID string) ([]model.NoteView, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY updated_at_unixms DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.NoteView{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		if v, ok := perm.View(actorID, n); ok {
			out = append(out, v)
		}
	}
	return out, rows.Err()
}

func (s Store) UpdateNoteTitle(ctx context.Context, actorID, noteID, title string) (model.NoteView, error) {
	title = strings.TrimSpace(title)
	return s.mutateNote(ctx, actorID, noteID, "note.set_title", map[string]any{"title": title}, func(n *model.Note) {
		n.Title = title
	})
}

func (s Store) UpdateNoteBody(ctx context.Context, actorID, noteID, body string) (model.NoteView, error) {
	return s.mutateNote(ctx, actorID, noteID, "note.set_body", map[string]any{"body": body}, func(n *model.Note) {
		n.Body = body
	})
}

func (s Store) UpdateNoteAccess(ctx context.Context, actorID, noteID string, access model.Access) (model.NoteView, error) {
	a, ok := model.ParseAccess(string(access))
	if !ok {
		return model.NoteView{}, ErrInvalidAccess
	}
	access = a
	return s.mutateNote(ctx, actorID, noteID, "note.set_access", map[string]any{"access": access}, func(n *model.Note) {
		n.Access = access
	})
}

// ShareNote records a share of the note. Sharing requires the note to be public.
func (s Store) ShareNote(ctx context.Context, actorID, noteID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := getNote(ctx, tx, noteID)
		if err != nil {
			return err
		}
		if !perm.CanViewNote(actorID, &n) {
			return ErrNotFound
		}
		if !perm.CanShareNote(actorID, &n) {
			return fmt.Errorf("share %s: %w", n.ID, ErrForbidden)
		}
		return appendEventTx(ctx, tx, actorID, "note.share", n.ID, map[string]any{"contentId": n.ID})
	})
}

func (s Store) DeleteNote(ctx context.Context, actorID, noteID string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := getNote(ctx, tx, noteID)
		if err != nil {
			return err
		}
		if !perm.CanViewNote(actorID, &n) {
			return ErrNotFound
		}
		if !perm.CanEditNote(actorID, &n) {
			return fmt.Errorf("delete %s: %w", n.ID, ErrForbidden)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, n.ID); err != nil {
			return err
		}
		return appendEventTx(ctx, tx, actorID, "note.delete", n.ID, nil)
	})
}

func (s Store) mutateNote(ctx context.Context, actorID, noteID, eventType string, payload any, apply func(n *model.Note)) (model.NoteView, error) {
	var out model.Note
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := getNote(ctx, tx, noteID)
		if err != nil {
			return err
		}
		if !perm.CanViewNote(actorID, &n) {
			return ErrNotFound
		}
		if !perm.CanEditNote(actorID, &n) {
			return fmt.Errorf("%s %s: %w", eventType, n.ID, ErrForbidden)
		}
		apply(&n)
		n.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
		if _, err := tx.ExecContext(ctx, `UPDATE notes SET title = ?, body = ?, access = ?, updated_at_unixms = ? WHERE id = ?`,
			n.Title, n.Body, string(n.Access), n.UpdatedAt.UnixMilli(), n.ID); err != nil {
			return err
		}
		out = n
		return appendEventTx(ctx, tx, actorID, eventType, n.ID, payload)
	})
	if err != nil {
		return model.NoteView{}, err
	}
	v, _ := perm.View(actorID, out)
	return v, nil
}

func (s Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
