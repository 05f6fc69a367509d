package windows

import (
	"bytes"
	"log/slog"
	"math/rand"
	"strings"
	"testing"
)

func newTestRegistry(t *testing.T) (*Registry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewRegistry(log), &buf
}

func TestRegistry_BackAndNextStayInBounds(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := r.Open("note-a")
	r.Navigate(id, "note-b")
	r.Navigate(id, "note-c")

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		if rng.Intn(2) == 0 {
			r.NavigateBack(id)
		} else {
			r.NavigateNext(id)
		}
		w, ok := r.Get(id)
		if !ok {
			t.Fatalf("window disappeared")
		}
		if w.CurrentIndex < 0 || w.CurrentIndex >= len(w.History) {
			t.Fatalf("index out of bounds after step %d: %d (len %d)", i, w.CurrentIndex, len(w.History))
		}
	}
}

func TestRegistry_BoundaryNavigationIsNoop(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := r.Open("note-a")

	if r.NavigateBack(id) {
		t.Fatalf("expected back at index 0 to be a no-op")
	}
	if r.NavigateNext(id) {
		t.Fatalf("expected next at last index to be a no-op")
	}

	r.Navigate(id, "note-b")
	w, _ := r.Get(id)
	if w.CanNavigateNext() || !w.CanNavigateBack() {
		t.Fatalf("expected back enabled and next disabled, got %#v", w)
	}
	if !r.NavigateBack(id) {
		t.Fatalf("expected back to move")
	}
	w, _ = r.Get(id)
	if w.NoteID() != "note-a" || w.CanNavigateBack() {
		t.Fatalf("expected to be at note-a with back disabled, got %#v", w)
	}
	if !r.NavigateNext(id) {
		t.Fatalf("expected next to move")
	}
	if r.NavigateNext(id) {
		t.Fatalf("expected second next to be a no-op")
	}
}

func TestRegistry_NavigateDropsForwardHistory(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := r.Open("note-a")
	r.Navigate(id, "note-b")
	r.Navigate(id, "note-c")
	r.NavigateBack(id)
	r.NavigateBack(id)

	if !r.Navigate(id, "note-d") {
		t.Fatalf("expected navigate to succeed")
	}
	w, _ := r.Get(id)
	if got := strings.Join(w.History, ","); got != "note-a,note-d" {
		t.Fatalf("expected history a,d got %s", got)
	}
	if w.CurrentIndex != 1 {
		t.Fatalf("expected index 1, got %d", w.CurrentIndex)
	}

	if r.Navigate(id, "note-d") {
		t.Fatalf("expected navigating to the current note to be a no-op")
	}
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	r, _ := newTestRegistry(t)
	id := r.Open("note-a")
	r.Navigate(id, "note-b")

	w, _ := r.Get(id)
	w.History[0] = "mutated"
	w2, _ := r.Get(id)
	if w2.History[0] != "note-a" {
		t.Fatalf("expected registry history to be unaffected by caller mutation")
	}
}

func TestRegistry_FocusRaisesWindow(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := r.Open("note-a")
	b := r.Open("note-b")

	top, _ := r.Focused()
	if top.ID != b {
		t.Fatalf("expected newest window on top")
	}
	if !r.Focus(a) {
		t.Fatalf("expected focus to succeed")
	}
	top, _ = r.Focused()
	if top.ID != a {
		t.Fatalf("expected focused window on top, got %s", top.ID)
	}
	ws := r.Windows()
	if len(ws) != 2 || ws[0].ID != b || ws[1].ID != a {
		t.Fatalf("unexpected stacking order: %#v", ws)
	}
}

func TestRegistry_DestroyRemovesWindow(t *testing.T) {
	r, _ := newTestRegistry(t)
	a := r.Open("note-a")
	b := r.Open("note-b")

	if !r.Destroy(b) {
		t.Fatalf("expected destroy to succeed")
	}
	if r.Len() != 1 {
		t.Fatalf("expected one window left, got %d", r.Len())
	}
	top, _ := r.Focused()
	if top.ID != a {
		t.Fatalf("expected remaining window to be focused")
	}
	if _, ok := r.Get(b); ok {
		t.Fatalf("expected destroyed window to be gone")
	}
}

func TestRegistry_UnknownWindowIsNoopWithWarning(t *testing.T) {
	r, buf := newTestRegistry(t)
	a := r.Open("note-a")

	for name, op := range map[string]func(string) bool{
		"back":    r.NavigateBack,
		"next":    r.NavigateNext,
		"focus":   r.Focus,
		"destroy": r.Destroy,
	} {
		if op("win-missing") {
			t.Fatalf("%s: expected false for unknown window", name)
		}
	}
	if r.Navigate("win-missing", "note-x") {
		t.Fatalf("expected navigate on unknown window to be false")
	}
	if r.Len() != 1 {
		t.Fatalf("expected registry unchanged")
	}
	if w, _ := r.Get(a); w.NoteID() != "note-a" {
		t.Fatalf("expected existing window unchanged")
	}
	if got := strings.Count(buf.String(), "unknown window"); got != 5 {
		t.Fatalf("expected 5 warnings, got %d:\n%s", got, buf.String())
	}
}
