// Package windows tracks the open note windows and their navigation history.
//
// Windows are UI-only and never persisted. The registry keeps them in stacking order:
// the last window is on top and holds focus.
package windows

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Descriptor is one open note window.
// Invariant: 0 <= CurrentIndex < len(History).
type Descriptor struct {
	ID           string
	History      []string
	CurrentIndex int
}

// NoteID returns the note currently shown by the window.
func (d Descriptor) NoteID() string {
	if d.CurrentIndex < 0 || d.CurrentIndex >= len(d.History) {
		return ""
	}
	return d.History[d.CurrentIndex]
}

func (d Descriptor) CanNavigateBack() bool { return d.CurrentIndex > 0 }

func (d Descriptor) CanNavigateNext() bool { return d.CurrentIndex < len(d.History)-1 }

func (d Descriptor) clone() Descriptor {
	d.History = append([]string(nil), d.History...)
	return d
}

// Registry is not safe for concurrent use; all mutations happen on the UI event loop.
type Registry struct {
	windows []Descriptor
	log     *slog.Logger
	newID   func() string
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		log:   log.With("component", "windows"),
		newID: func() string { return "win-" + uuid.NewString() },
	}
}

// Open creates a window showing noteID on top of the stack and returns its id.
func (r *Registry) Open(noteID string) string {
	d := Descriptor{
		ID:      r.newID(),
		History: []string{strings.TrimSpace(noteID)},
	}
	r.windows = append(r.windows, d)
	return d.ID
}

// Navigate shows noteID in the window. Forward history past the current entry is dropped.
// Navigating to the note already shown is a no-op.
func (r *Registry) Navigate(windowID, noteID string) bool {
	i := r.index(windowID, "navigate")
	if i < 0 {
		return false
	}
	noteID = strings.TrimSpace(noteID)
	w := &r.windows[i]
	if noteID == "" || w.NoteID() == noteID {
		return false
	}
	w.History = append(w.History[:w.CurrentIndex+1:w.CurrentIndex+1], noteID)
	w.CurrentIndex = len(w.History) - 1
	return true
}

// NavigateBack moves one entry back. It returns false at the start of the history.
func (r *Registry) NavigateBack(windowID string) bool {
	i := r.index(windowID, "navigate back")
	if i < 0 || !r.windows[i].CanNavigateBack() {
		return false
	}
	r.windows[i].CurrentIndex--
	return true
}

// NavigateNext moves one entry forward. It returns false at the end of the history.
func (r *Registry) NavigateNext(windowID string) bool {
	i := r.index(windowID, "navigate next")
	if i < 0 || !r.windows[i].CanNavigateNext() {
		return false
	}
	r.windows[i].CurrentIndex++
	return true
}

// Focus raises the window to the top of the stack.
func (r *Registry) Focus(windowID string) bool {
	i := r.index(windowID, "focus")
	if i < 0 {
		return false
	}
	if i == len(r.windows)-1 {
		return true
	}
	w := r.windows[i]
	r.windows = append(r.windows[:i], r.windows[i+1:]...)
	r.windows = append(r.windows, w)
	return true
}

// Destroy closes the window.
func (r *Registry) Destroy(windowID string) bool {
	i := r.index(windowID, "destroy")
	if i < 0 {
		return false
	}
	r.windows = append(r.windows[:i], r.windows[i+1:]...)
	return true
}

// Get returns a copy of the window.
func (r *Registry) Get(windowID string) (Descriptor, bool) {
	for _, w := range r.windows {
		if w.ID == windowID {
			return w.clone(), true
		}
	}
	return Descriptor{}, false
}

// Windows returns copies of all windows, bottom to top.
func (r *Registry) Windows() []Descriptor {
	out := make([]Descriptor, 0, len(r.windows))
	for _, w := range r.windows {
		out = append(out, w.clone())
	}
	return out
}

// Focused returns the top window.
func (r *Registry) Focused() (Descriptor, bool) {
	if len(r.windows) == 0 {
		return Descriptor{}, false
	}
	return r.windows[len(r.windows)-1].clone(), true
}

func (r *Registry) Len() int { return len(r.windows) }

func (r *Registry) index(windowID, op string) int {
	for i := range r.windows {
		if r.windows[i].ID == windowID {
			return i
		}
	}
	r.log.Warn("unknown window", "op", op, "window", windowID)
	return -1
}
