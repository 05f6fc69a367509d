// Package panel holds the per-window note panel state: fetch phases, edit mode,
// the derived action list and the permission popup.
//
// Nothing here blocks or talks to the store directly. Callers run the returned
// requests (fetches, shares, access updates) asynchronously and feed the results back.
package panel

import (
	"strings"

	"notewin/internal/model"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseFound
	PhaseNotFound
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseFound:
		return "found"
	case PhaseNotFound:
		return "notFound"
	default:
		return "unknown"
	}
}

const (
	LoadingMessage  = "Loading..."
	NotFoundTitle   = "NOT FOUND"
	NotFoundMessage = "This note does no longer exist."
)

type ActionKind int

const (
	ActionShare ActionKind = iota
	ActionToggleEdit
	ActionEditPermissions
)

type Action struct {
	Kind  ActionKind
	Title string
}

// Effect describes what an invoked action did.
type Effect struct {
	// EditToggled is set when edit mode flipped. Saved is set when it flipped off.
	EditToggled bool
	Saved       bool
	PopupOpened bool
	Share       *ShareRequest
}

type Controller struct {
	windowID string
	noteID   string

	phase Phase
	note  *model.NoteView
	seq   uint64

	editMode bool
	popup    *PermissionPopup
}

// NewController returns a controller in the loading phase. Call Begin to get the token
// for the initial fetch.
func NewController(windowID, noteID string) *Controller {
	return &Controller{
		windowID: windowID,
		noteID:   strings.TrimSpace(noteID),
		phase:    PhaseLoading,
	}
}

func (c *Controller) WindowID() string { return c.windowID }
func (c *Controller) NoteID() string   { return c.noteID }
func (c *Controller) Phase() Phase     { return c.phase }
func (c *Controller) EditMode() bool   { return c.editMode }

// Begin starts a (re)fetch of the current note and returns its token. Results for older
// tokens are dropped by Resolve.
func (c *Controller) Begin() uint64 {
	c.seq++
	c.phase = PhaseLoading
	return c.seq
}

// Retarget points the controller at another note (history navigation). Edit mode and
// the popup belong to the previous note and are discarded. The previous note stays
// visible until the new fetch resolves.
func (c *Controller) Retarget(noteID string) uint64 {
	c.noteID = strings.TrimSpace(noteID)
	c.editMode = false
	c.ClosePopup()
	return c.Begin()
}

// Resolve applies a fetch result. It reports false when the token is stale.
// Any error (missing note, store failure) degrades to PhaseNotFound.
func (c *Controller) Resolve(token uint64, v model.NoteView, err error) bool {
	if token != c.seq {
		return false
	}
	if err != nil || v.ID == "" || v.ID != c.noteID {
		c.phase = PhaseNotFound
		c.note = nil
		c.editMode = false
		c.ClosePopup()
		return true
	}
	c.phase = PhaseFound
	c.setNote(v)
	return true
}

// ApplyNote renders a mutation response. Responses for other notes are ignored.
func (c *Controller) ApplyNote(v model.NoteView) bool {
	if v.ID == "" || v.ID != c.noteID || c.note == nil {
		return false
	}
	c.setNote(v)
	return true
}

func (c *Controller) setNote(v model.NoteView) {
	c.note = &v
	if !v.ViewerCanEdit {
		c.editMode = false
		c.ClosePopup()
	}
	if c.popup != nil {
		c.popup.rebind(v.Access)
	}
}

// Note returns the displayed note. While a refetch is in flight this is the last note
// that was found.
func (c *Controller) Note() (model.NoteView, bool) {
	if c.note == nil {
		return model.NoteView{}, false
	}
	return *c.note, true
}

// Stale reports whether the displayed note is a leftover from before the current fetch.
func (c *Controller) Stale() bool {
	return c.note != nil && (c.phase == PhaseLoading || c.note.ID != c.noteID)
}

// Visible is false only while the very first fetch is outstanding.
func (c *Controller) Visible() bool {
	return c.note != nil || c.phase != PhaseLoading
}

// HeaderTitle is the window header text outside of edit mode.
func (c *Controller) HeaderTitle() string {
	if c.note != nil {
		return c.note.Title
	}
	if c.phase == PhaseLoading {
		return LoadingMessage
	}
	return NotFoundTitle
}

// Placeholder is the body text shown when there is no note to render.
func (c *Controller) Placeholder() string {
	if c.note != nil {
		return ""
	}
	if c.phase == PhaseLoading {
		return LoadingMessage
	}
	return NotFoundMessage
}

// TitleEditable reports whether the title should render as an input field.
func (c *Controller) TitleEditable() bool {
	return c.editMode && c.note != nil && c.note.ViewerCanEdit
}

// Actions lists the header actions. Share actions come before edit actions.
func (c *Controller) Actions() []Action {
	if c.note == nil || c.note.ID != c.noteID {
		return nil
	}
	var out []Action
	if c.note.ViewerCanShare {
		out = append(out, Action{Kind: ActionShare, Title: "Share"})
	}
	if c.note.ViewerCanEdit {
		title := "Edit"
		if c.editMode {
			title = "Save"
		}
		out = append(out,
			Action{Kind: ActionToggleEdit, Title: title},
			Action{Kind: ActionEditPermissions, Title: "Edit permissions"},
		)
	}
	return out
}

func (c *Controller) hasAction(kind ActionKind) bool {
	for _, a := range c.Actions() {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// Invoke runs an action. anchor is where the action was triggered (screen cells) and is
// only used to place the permission popup. Unavailable actions do nothing.
func (c *Controller) Invoke(kind ActionKind, anchor Point) Effect {
	if !c.hasAction(kind) {
		return Effect{}
	}
	switch kind {
	case ActionShare:
		return Effect{Share: &ShareRequest{NoteID: c.note.ID}}
	case ActionToggleEdit:
		return c.ToggleEditMode()
	case ActionEditPermissions:
		c.popup = newPermissionPopup(c.note.ID, c.note.Access, anchor)
		return Effect{PopupOpened: true}
	}
	return Effect{}
}

// ToggleEditMode flips edit mode when the viewer may edit.
func (c *Controller) ToggleEditMode() Effect {
	if c.note == nil || c.note.ID != c.noteID || !c.note.ViewerCanEdit {
		return Effect{}
	}
	c.editMode = !c.editMode
	return Effect{EditToggled: true, Saved: !c.editMode}
}

// HandleEscape reports whether Escape should close the window. An open popup is closed
// first; in edit mode Escape is ignored.
func (c *Controller) HandleEscape() (closeWindow bool) {
	if c.Popup() != nil {
		c.ClosePopup()
		return false
	}
	return !c.editMode
}

// Popup returns the open permission popup, or nil.
func (c *Controller) Popup() *PermissionPopup {
	if c.popup == nil || !c.popup.IsOpen() {
		return nil
	}
	return c.popup
}

func (c *Controller) ClosePopup() {
	if c.popup != nil {
		c.popup.Close()
		c.popup = nil
	}
}
