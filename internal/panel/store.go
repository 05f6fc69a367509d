package panel

import (
	"context"

	"notewin/internal/model"
)

// NoteStore is the note service a panel talks to. store.Store implements it.
type NoteStore interface {
	FetchNote(ctx context.Context, actorID, noteID string) (model.NoteView, error)
	ShareNote(ctx context.Context, actorID, noteID string) error
	UpdateNoteAccess(ctx context.Context, actorID, noteID string, access model.Access) (model.NoteView, error)
	UpdateNoteTitle(ctx context.Context, actorID, noteID, title string) (model.NoteView, error)
	UpdateNoteBody(ctx context.Context, actorID, noteID, body string) (model.NoteView, error)
}

// ShareRequest asks the store to share a note.
type ShareRequest struct {
	NoteID string
}

func (r ShareRequest) Run(ctx context.Context, st NoteStore, actorID string) error {
	return st.ShareNote(ctx, actorID, r.NoteID)
}

// AccessRequest asks the store to change a note's access level.
type AccessRequest struct {
	NoteID string
	Access model.Access
}

func (r AccessRequest) Run(ctx context.Context, st NoteStore, actorID string) (model.NoteView, error) {
	return st.UpdateNoteAccess(ctx, actorID, r.NoteID, r.Access)
}
