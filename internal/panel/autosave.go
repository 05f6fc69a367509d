package panel

import (
	"context"
	"sync"
	"time"

	"notewin/internal/model"
)

// TitleAutoSaver writes edited titles after a quiet period. Only the latest title is
// written; writes are serialized so an older title never lands after a newer one.
type TitleAutoSaver struct {
	store    NoteStore
	actorID  string
	noteID   string
	debounce time.Duration
	onSaved  func(model.NoteView, error)

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	title   string
	stopped bool

	saveMu sync.Mutex
}

type TitleAutoSaverOpts struct {
	Store    NoteStore
	ActorID  string
	NoteID   string
	Debounce time.Duration

	// OnSaved is called from the saving goroutine after every write.
	OnSaved func(model.NoteView, error)
}

func NewTitleAutoSaver(opts TitleAutoSaverOpts) *TitleAutoSaver {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &TitleAutoSaver{
		store:    opts.Store,
		actorID:  opts.ActorID,
		noteID:   opts.NoteID,
		debounce: debounce,
		onSaved:  opts.OnSaved,
	}
}

func (a *TitleAutoSaver) NoteID() string { return a.noteID }

// Set records a new title and (re)starts the quiet period.
func (a *TitleAutoSaver) Set(title string) {
	if a == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.pending = true
	a.title = title
	if a.timer == nil {
		a.timer = time.AfterFunc(a.debounce, a.onTimer)
		return
	}
	a.timer.Reset(a.debounce)
}

func (a *TitleAutoSaver) onTimer() {
	_, _ = a.save(context.Background())
}

// Flush writes a pending title now. It returns false when nothing was pending.
func (a *TitleAutoSaver) Flush(ctx context.Context) (bool, error) {
	if a == nil {
		return false, nil
	}
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
	return a.save(ctx)
}

// Stop discards pending changes and disables further saves.
func (a *TitleAutoSaver) Stop() {
	if a == nil {
		return
	}
	a.mu.Lock()
	a.stopped = true
	a.pending = false
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()
}

func (a *TitleAutoSaver) save(ctx context.Context) (bool, error) {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	if !a.pending {
		a.mu.Unlock()
		return false, nil
	}
	a.pending = false
	title := a.title
	a.mu.Unlock()

	v, err := a.store.UpdateNoteTitle(ctx, a.actorID, a.noteID, title)
	if a.onSaved != nil {
		a.onSaved(v, err)
	}
	return true, err
}
