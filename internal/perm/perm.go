package perm

import (
	"strings"

	"notewin/internal/model"
)

// CanViewNote reports whether actorID may read n.
//
// Rules:
// - The owner can always view.
// - Public notes are visible to everyone with an identity.
// - Admin notes are owner-only.
func CanViewNote(actorID string, n *model.Note) bool {
	if n == nil {
		return false
	}
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return false
	}
	if n.OwnerActorID == actorID {
		return true
	}
	return n.Access == model.AccessPublic
}

// CanEditNote reports whether actorID may change title, body or access of n.
func CanEditNote(actorID string, n *model.Note) bool {
	if n == nil {
		return false
	}
	actorID = strings.TrimSpace(actorID)
	return actorID != "" && n.OwnerActorID == actorID
}

// CanShareNote reports whether actorID may share n. Only public notes are shareable.
func CanShareNote(actorID string, n *model.Note) bool {
	return CanViewNote(actorID, n) && n.Access == model.AccessPublic
}

// View projects n for actorID. ok is false when the actor may not see the note.
func View(actorID string, n model.Note) (v model.NoteView, ok bool) {
	if !CanViewNote(actorID, &n) {
		return model.NoteView{}, false
	}
	return model.NoteView{
		Note:           n,
		ViewerCanEdit:  CanEditNote(actorID, &n),
		ViewerCanShare: CanShareNote(actorID, &n),
	}, true
}
