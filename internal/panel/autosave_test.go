package panel

import (
	"context"
	"testing"
	"time"

	"notewin/internal/model"
)

func TestTitleAutoSaver_CoalescesRapidEdits(t *testing.T) {
	st := newFakeStore(editableNote("note-a", model.AccessAdmin))
	saved := make(chan model.NoteView, 4)

	a := NewTitleAutoSaver(TitleAutoSaverOpts{
		Store:    st,
		ActorID:  "act-dm",
		NoteID:   "note-a",
		Debounce: 20 * time.Millisecond,
		OnSaved: func(v model.NoteView, err error) {
			if err != nil {
				t.Errorf("save: %v", err)
			}
			saved <- v
		},
	})
	a.Set("G")
	a.Set("Go")
	a.Set("Gob")

	select {
	case v := <-saved:
		if v.Title != "Gob" {
			t.Fatalf("expected latest title, got %q", v.Title)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for autosave")
	}

	// Give a second (wrong) timer a chance to fire.
	time.Sleep(60 * time.Millisecond)
	if got := st.savedTitles(); len(got) != 1 {
		t.Fatalf("expected one write, got %v", got)
	}
}

func TestTitleAutoSaver_FlushWritesImmediately(t *testing.T) {
	st := newFakeStore(editableNote("note-a", model.AccessAdmin))
	a := NewTitleAutoSaver(TitleAutoSaverOpts{Store: st, ActorID: "act-dm", NoteID: "note-a", Debounce: time.Hour})

	if wrote, _ := a.Flush(context.Background()); wrote {
		t.Fatalf("expected nothing to flush")
	}
	a.Set("Tavern")
	wrote, err := a.Flush(context.Background())
	if err != nil || !wrote {
		t.Fatalf("expected flush to write, wrote=%v err=%v", wrote, err)
	}
	if got := st.savedTitles(); len(got) != 1 || got[0] != "Tavern" {
		t.Fatalf("unexpected writes %v", got)
	}
}

func TestTitleAutoSaver_StopDiscardsPending(t *testing.T) {
	st := newFakeStore(editableNote("note-a", model.AccessAdmin))
	a := NewTitleAutoSaver(TitleAutoSaverOpts{Store: st, ActorID: "act-dm", NoteID: "note-a", Debounce: 10 * time.Millisecond})

	a.Set("Lost")
	a.Stop()
	a.Set("Also lost")
	time.Sleep(50 * time.Millisecond)
	if got := st.savedTitles(); len(got) != 0 {
		t.Fatalf("expected no writes after stop, got %v", got)
	}
}
