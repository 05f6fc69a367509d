package panel

import (
	"context"
	"errors"
	"sync"

	"notewin/internal/model"
)

var errFakeNotFound = errors.New("not found")

type fakeStore struct {
	mu     sync.Mutex
	notes  map[string]model.NoteView
	titles []string
	shares []string
	access []AccessRequest
}

func newFakeStore(notes ...model.NoteView) *fakeStore {
	f := &fakeStore{notes: map[string]model.NoteView{}}
	for _, n := range notes {
		f.notes[n.ID] = n
	}
	return f
}

func (f *fakeStore) FetchNote(_ context.Context, _ string, noteID string) (model.NoteView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[noteID]
	if !ok {
		return model.NoteView{}, errFakeNotFound
	}
	return n, nil
}

func (f *fakeStore) ShareNote(_ context.Context, _ string, noteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shares = append(f.shares, noteID)
	return nil
}

func (f *fakeStore) UpdateNoteAccess(_ context.Context, _ string, noteID string, access model.Access) (model.NoteView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = append(f.access, AccessRequest{NoteID: noteID, Access: access})
	n, ok := f.notes[noteID]
	if !ok {
		return model.NoteView{}, errFakeNotFound
	}
	n.Access = access
	n.ViewerCanShare = access == model.AccessPublic
	f.notes[noteID] = n
	return n, nil
}

func (f *fakeStore) UpdateNoteTitle(_ context.Context, _ string, noteID, title string) (model.NoteView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.titles = append(f.titles, title)
	n, ok := f.notes[noteID]
	if !ok {
		return model.NoteView{}, errFakeNotFound
	}
	n.Title = title
	f.notes[noteID] = n
	return n, nil
}

func (f *fakeStore) UpdateNoteBody(_ context.Context, _ string, noteID, body string) (model.NoteView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[noteID]
	if !ok {
		return model.NoteView{}, errFakeNotFound
	}
	n.Body = body
	f.notes[noteID] = n
	return n, nil
}

func (f *fakeStore) savedTitles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.titles...)
}
