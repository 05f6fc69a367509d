package cli

import (
	"errors"
	"fmt"

	"notewin/internal/store"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func (e notFoundError) Unwrap() error { return store.ErrNotFound }

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type forbiddenError struct {
	actorID string
	op      string
	noteID  string
}

func (e forbiddenError) Error() string {
	return fmt.Sprintf("permission denied: actor %s cannot %s note %s", e.actorID, e.op, e.noteID)
}

func (e forbiddenError) Unwrap() error { return store.ErrForbidden }

// noteErr turns store sentinels into messages that name the note and actor.
func noteErr(err error, actorID, op, noteID string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errNotFound("note", noteID)
	case errors.Is(err, store.ErrForbidden):
		return forbiddenError{actorID: actorID, op: op, noteID: noteID}
	default:
		return err
	}
}
