package cli

import (
	"strconv"
	"time"

	"notewin/internal/model"
)

// Text renderings for --format text.

type noteTable []model.NoteView

func (t noteTable) Header() []string {
	return []string{"ID", "ACCESS", "OWNER", "UPDATED", "TITLE"}
}

func (t noteTable) Rows() [][]string {
	out := make([][]string, 0, len(t))
	for _, n := range t {
		out = append(out, []string{n.ID, string(n.Access), n.OwnerActorID, n.UpdatedAt.Local().Format(time.DateTime), n.Title})
	}
	return out
}

// noteDetail renders one note as field/value pairs.
type noteDetail model.NoteView

func (d noteDetail) Header() []string { return nil }

func (d noteDetail) Rows() [][]string {
	return [][]string{
		{"id:", d.ID},
		{"title:", d.Title},
		{"access:", string(d.Access)},
		{"owner:", d.OwnerActorID},
		{"can edit:", strconv.FormatBool(d.ViewerCanEdit)},
		{"can share:", strconv.FormatBool(d.ViewerCanShare)},
		{"updated:", d.UpdatedAt.Local().Format(time.DateTime)},
		{"", ""},
		{d.Body},
	}
}

type eventTable []model.Event

func (t eventTable) Header() []string {
	return []string{"TS", "TYPE", "ENTITY", "ACTOR"}
}

func (t eventTable) Rows() [][]string {
	out := make([][]string, 0, len(t))
	for _, e := range t {
		out = append(out, []string{e.TS.Local().Format(time.DateTime), e.Type, e.EntityID, e.ActorID})
	}
	return out
}
