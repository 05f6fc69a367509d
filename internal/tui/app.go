package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"notewin/internal/model"
	"notewin/internal/panel"
	"notewin/internal/store"
	"notewin/internal/windows"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Store is what the TUI needs from the note store.
type Store interface {
	panel.NoteStore
	ListNotes(ctx context.Context, actorID string) ([]model.NoteView, error)
	CreateNote(ctx context.Context, actorID, title, body string, access model.Access) (model.NoteView, error)
}

type Options struct {
	Store         Store
	ActorID       string
	OpenNoteIDs   []string
	TitleAutosave time.Duration
	Theme         string
	Logger        *slog.Logger
}

type (
	noteFetchedMsg struct {
		windowID string
		token    uint64
		view     model.NoteView
		err      error
	}
	noteUpdatedMsg struct {
		op   string
		view model.NoteView
		err  error
	}
	noteSharedMsg struct {
		noteID string
		err    error
	}
	noteCreatedMsg struct {
		view model.NoteView
		err  error
	}
	titleSavedMsg struct {
		view model.NoteView
		err  error
	}
	notesLoadedMsg struct {
		notes []model.NoteView
		err   error
	}
	clipboardMsg struct {
		text string
		err  error
	}
)

type promptKind int

const (
	promptNone promptKind = iota
	promptGoTo
	promptOpen
	promptNewNote
)

type noteItem struct {
	v model.NoteView
}

func (i noteItem) Title() string {
	if strings.TrimSpace(i.v.Title) == "" {
		return "(untitled)"
	}
	return i.v.Title
}
func (i noteItem) Description() string { return i.v.ID + " · " + string(i.v.Access) }
func (i noteItem) FilterValue() string { return i.v.Title + " " + i.v.ID }

type appModel struct {
	store         Store
	actorID       string
	log           *slog.Logger
	keys          keyMap
	autosaveDelay time.Duration

	width  int
	height int

	registry *windows.Registry
	windows  map[string]*noteWindow
	nextSlot int

	home list.Model

	prompt      promptKind
	promptInput textinput.Model

	status    string
	statusErr bool

	saved    chan titleSavedMsg
	initCmds []tea.Cmd
}

func newAppModel(opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	home := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	home.Title = "Notes"
	home.SetShowHelp(false)
	home.KeyMap.Quit.SetEnabled(false)

	m := appModel{
		store:         opts.Store,
		actorID:       opts.ActorID,
		log:           log.With("component", "tui"),
		keys:          defaultKeyMap(),
		autosaveDelay: opts.TitleAutosave,
		registry:      windows.NewRegistry(log),
		windows:       map[string]*noteWindow{},
		home:          home,
		saved:         make(chan titleSavedMsg, 16),
	}
	for _, id := range opts.OpenNoteIDs {
		m.initCmds = append(m.initCmds, m.openWindow(id))
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := append([]tea.Cmd{m.loadNotesCmd(), waitForTitleSave(m.saved)}, m.initCmds...)
	return tea.Batch(cmds...)
}

func waitForTitleSave(ch <-chan titleSavedMsg) tea.Cmd {
	return func() tea.Msg { return <-ch }
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.home.SetSize(msg.Width, max(msg.Height-1, 1))
		return m, nil

	case notesLoadedMsg:
		if msg.err != nil {
			m.setError("load notes", msg.err)
			return m, nil
		}
		items := make([]list.Item, 0, len(msg.notes))
		for _, n := range msg.notes {
			items = append(items, noteItem{v: n})
		}
		cmd := m.home.SetItems(items)
		return m, cmd

	case noteFetchedMsg:
		w := m.windows[msg.windowID]
		if w == nil {
			// Window closed while the fetch was in flight.
			return m, nil
		}
		if msg.err != nil && !errors.Is(msg.err, store.ErrNotFound) {
			m.log.Warn("fetch note", "note", w.ctrl.NoteID(), "err", msg.err)
		}
		if !w.ctrl.Resolve(msg.token, msg.view, msg.err) {
			return m, nil
		}
		cmd := m.syncEditing(w)
		return m, cmd

	case noteUpdatedMsg:
		if msg.err != nil {
			m.setError(msg.op, msg.err)
			return m, nil
		}
		apply := m.applyNote(msg.view)
		return m, tea.Batch(apply, m.loadNotesCmd())

	case titleSavedMsg:
		var apply tea.Cmd
		if msg.err != nil {
			m.setError("save title", msg.err)
		} else {
			apply = m.applyNote(msg.view)
		}
		return m, tea.Batch(apply, waitForTitleSave(m.saved), m.loadNotesCmd())

	case noteSharedMsg:
		if msg.err != nil {
			m.setError("share", msg.err)
			return m, nil
		}
		m.setStatus("Shared " + msg.noteID)
		return m, nil

	case noteCreatedMsg:
		if msg.err != nil {
			m.setError("create note", msg.err)
			return m, nil
		}
		open := m.openWindow(msg.view.ID)
		return m, tea.Batch(open, m.loadNotesCmd())

	case clipboardMsg:
		if msg.err != nil {
			m.setError("copy", msg.err)
			return m, nil
		}
		m.setStatus("Copied " + msg.text)
		return m, nil

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd
	}

	// Cursor blinks and other widget ticks.
	if w, _, ok := m.focused(); ok && w.ctrl.TitleEditable() {
		var c1, c2 tea.Cmd
		w.title, c1 = w.title.Update(msg)
		w.body, c2 = w.body.Update(msg)
		return m, tea.Batch(c1, c2)
	}
	if m.prompt != promptNone {
		var cmd tea.Cmd
		m.promptInput, cmd = m.promptInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *appModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *appModel) setError(op string, err error) {
	m.log.Error(op, "err", err)
	m.status = op + ": " + err.Error()
	m.statusErr = true
}

// applyNote renders a store response in every window showing that note.
func (m *appModel) applyNote(v model.NoteView) tea.Cmd {
	var cmds []tea.Cmd
	for _, w := range m.windows {
		if w.ctrl.ApplyNote(v) {
			cmds = append(cmds, m.syncEditing(w))
		}
	}
	return tea.Batch(cmds...)
}

// syncEditing tears down the edit widgets of a window the controller took out of
// edit mode (for example after losing edit rights).
func (m *appModel) syncEditing(w *noteWindow) tea.Cmd {
	if w.autosave == nil || w.ctrl.TitleEditable() {
		return nil
	}
	return m.finishEditing(w)
}

func (m *appModel) focused() (*noteWindow, windows.Descriptor, bool) {
	d, ok := m.registry.Focused()
	if !ok {
		return nil, windows.Descriptor{}, false
	}
	w := m.windows[d.ID]
	return w, d, w != nil
}

// openWindow opens noteID in a new window on top and starts fetching it.
func (m *appModel) openWindow(noteID string) tea.Cmd {
	id := m.registry.Open(noteID)
	w := &noteWindow{
		id:   id,
		slot: m.nextSlot,
		ctrl: panel.NewController(id, noteID),
	}
	m.nextSlot++
	m.windows[id] = w
	return m.fetchCmd(id, w.ctrl.NoteID(), w.ctrl.Begin())
}

func (m *appModel) closeWindow(w *noteWindow) tea.Cmd {
	cmd := m.finishEditing(w)
	m.registry.Destroy(w.id)
	delete(m.windows, w.id)
	return cmd
}

// navigate moves the window through its history (dir < 0: back, dir > 0: next) or to
// noteID when set.
func (m *appModel) navigate(w *noteWindow, dir int, noteID string) tea.Cmd {
	var moved bool
	switch {
	case noteID != "":
		moved = m.registry.Navigate(w.id, noteID)
	case dir < 0:
		moved = m.registry.NavigateBack(w.id)
	case dir > 0:
		moved = m.registry.NavigateNext(w.id)
	}
	if !moved {
		return nil
	}
	d, _ := m.registry.Get(w.id)
	save := m.finishEditing(w)
	fetch := m.fetchCmd(w.id, d.NoteID(), w.ctrl.Retarget(d.NoteID()))
	return tea.Batch(save, fetch)
}

func (m *appModel) beginEditing(w *noteWindow) tea.Cmd {
	note, ok := w.ctrl.Note()
	if !ok {
		return nil
	}
	w.title = newTitleInput(note.Title)
	w.body = newBodyArea(note.Body)
	w.bodyFocused = false
	saved := m.saved
	log := m.log
	w.autosave = panel.NewTitleAutoSaver(panel.TitleAutoSaverOpts{
		Store:    m.store,
		ActorID:  m.actorID,
		NoteID:   note.ID,
		Debounce: m.autosaveDelay,
		OnSaved: func(v model.NoteView, err error) {
			select {
			case saved <- titleSavedMsg{view: v, err: err}:
			default:
				log.Warn("dropped title save result", "note", note.ID)
			}
		},
	})
	return textinput.Blink
}

// finishEditing flushes the pending title and writes the body when it changed.
func (m *appModel) finishEditing(w *noteWindow) tea.Cmd {
	if w.autosave == nil {
		return nil
	}
	a := w.autosave
	w.autosave = nil

	note, _ := w.ctrl.Note()
	noteID := a.NoteID()
	body := w.body.Value()
	bodyChanged := note.ID == noteID && body != note.Body
	st, actor := m.store, m.actorID

	return func() tea.Msg {
		ctx := context.Background()
		_, _ = a.Flush(ctx)
		a.Stop()
		if !bodyChanged {
			return nil
		}
		v, err := st.UpdateNoteBody(ctx, actor, noteID, body)
		return noteUpdatedMsg{op: "save", view: v, err: err}
	}
}

func (m *appModel) runEffect(w *noteWindow, eff panel.Effect) tea.Cmd {
	switch {
	case eff.Share != nil:
		req := *eff.Share
		st, actor := m.store, m.actorID
		return func() tea.Msg {
			return noteSharedMsg{noteID: req.NoteID, err: req.Run(context.Background(), st, actor)}
		}
	case eff.EditToggled && eff.Saved:
		return m.finishEditing(w)
	case eff.EditToggled:
		return m.beginEditing(w)
	case eff.PopupOpened:
		if p := w.ctrl.Popup(); p != nil {
			s, _ := renderPopup(p)
			p.SetSize(lipgloss.Width(s), lipgloss.Height(s))
		}
	}
	return nil
}

// invoke runs a header action, anchoring the popup under the action's button.
func (m *appModel) invoke(w *noteWindow, kind panel.ActionKind) tea.Cmd {
	g := m.geometry(w)
	anchor := panel.Point{X: g.x + 1, Y: g.headerRow() + 1}
	if h, ok := layoutHeader(w.ctrl, g.innerW()).action(kind); ok {
		anchor.X = g.x + 1 + h.x
	}
	if kind == panel.ActionEditPermissions {
		menu, _ := renderAccessMenu(model.AccessAdmin, model.AccessAdmin)
		anchor.X = clamp(anchor.X, 0, m.width-lipgloss.Width(menu))
	}
	return m.runEffect(w, w.ctrl.Invoke(kind, anchor))
}

func (m *appModel) selectAccess(req panel.AccessRequest) tea.Cmd {
	st, actor := m.store, m.actorID
	return func() tea.Msg {
		v, err := req.Run(context.Background(), st, actor)
		return noteUpdatedMsg{op: "update access", view: v, err: err}
	}
}

func (m appModel) fetchCmd(windowID, noteID string, token uint64) tea.Cmd {
	st, actor := m.store, m.actorID
	return func() tea.Msg {
		v, err := st.FetchNote(context.Background(), actor, noteID)
		return noteFetchedMsg{windowID: windowID, token: token, view: v, err: err}
	}
}

func (m appModel) loadNotesCmd() tea.Cmd {
	st, actor := m.store, m.actorID
	return func() tea.Msg {
		notes, err := st.ListNotes(context.Background(), actor)
		return notesLoadedMsg{notes: notes, err: err}
	}
}

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{text: text, err: copyToClipboard(text)}
	}
}

// quit saves every window still in edit mode (title and body) before quitting.
func (m *appModel) quit() tea.Cmd {
	var saves []tea.Cmd
	for _, w := range m.windows {
		if cmd := m.finishEditing(w); cmd != nil {
			saves = append(saves, cmd)
		}
	}
	log := m.log
	return func() tea.Msg {
		for _, save := range saves {
			if u, ok := save().(noteUpdatedMsg); ok && u.err != nil {
				log.Error("save on quit", "note", u.view.ID, "err", u.err)
			}
		}
		return tea.QuitMsg{}
	}
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	m.status = ""
	if m.prompt != promptNone {
		return m.handlePromptKey(msg)
	}

	w, d, ok := m.focused()
	if !ok {
		return m.handleHomeKey(msg)
	}

	if p := w.ctrl.Popup(); p != nil {
		return m.handlePopupKey(w, p, msg)
	}

	if w.ctrl.TitleEditable() {
		return m.handleEditKey(w, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Close):
		if w.ctrl.HandleEscape() {
			return m.closeWindow(w)
		}
		return nil
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Back):
		return m.navigate(w, -1, "")
	case key.Matches(msg, m.keys.Next):
		return m.navigate(w, 1, "")
	case key.Matches(msg, m.keys.CycleFocus):
		if ws := m.registry.Windows(); len(ws) > 1 {
			m.registry.Focus(ws[0].ID)
		}
		return nil
	case key.Matches(msg, m.keys.Edit):
		return m.invoke(w, panel.ActionToggleEdit)
	case key.Matches(msg, m.keys.Share):
		return m.invoke(w, panel.ActionShare)
	case key.Matches(msg, m.keys.Permissions):
		return m.invoke(w, panel.ActionEditPermissions)
	case key.Matches(msg, m.keys.CopyID):
		return copyCmd(d.NoteID())
	case key.Matches(msg, m.keys.GoTo):
		return m.openPrompt(promptGoTo)
	case key.Matches(msg, m.keys.OpenNew):
		return m.openPrompt(promptOpen)
	case key.Matches(msg, m.keys.NewNote):
		return m.openPrompt(promptNewNote)
	case key.Matches(msg, m.keys.Reload):
		return m.fetchCmd(w.id, w.ctrl.NoteID(), w.ctrl.Begin())
	}
	return nil
}

func (m *appModel) handleHomeKey(msg tea.KeyMsg) tea.Cmd {
	if m.home.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.home, cmd = m.home.Update(msg)
		return cmd
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Confirm):
		if it, ok := m.home.SelectedItem().(noteItem); ok {
			return m.openWindow(it.v.ID)
		}
		return nil
	case key.Matches(msg, m.keys.OpenNew):
		return m.openPrompt(promptOpen)
	case key.Matches(msg, m.keys.NewNote):
		return m.openPrompt(promptNewNote)
	case key.Matches(msg, m.keys.Reload):
		return m.loadNotesCmd()
	}
	var cmd tea.Cmd
	m.home, cmd = m.home.Update(msg)
	return cmd
}

func (m *appModel) handlePopupKey(w *noteWindow, p *panel.PermissionPopup, msg tea.KeyMsg) tea.Cmd {
	var (
		req panel.AccessRequest
		ok  bool
	)
	switch {
	case key.Matches(msg, m.keys.Close):
		w.ctrl.HandleEscape()
		return nil
	case key.Matches(msg, m.keys.PopupAdmin):
		req, ok = p.Select(model.AccessAdmin)
	case key.Matches(msg, m.keys.PopupPublic):
		req, ok = p.Select(model.AccessPublic)
	case key.Matches(msg, m.keys.PopupLeft):
		p.MoveCursor(-1)
	case key.Matches(msg, m.keys.PopupRight):
		p.MoveCursor(1)
	case key.Matches(msg, m.keys.Confirm):
		req, ok = p.SelectCursor()
	}
	if !ok {
		return nil
	}
	return m.selectAccess(req)
}

func (m *appModel) handleEditKey(w *noteWindow, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m.runEffect(w, w.ctrl.ToggleEditMode())
	case key.Matches(msg, m.keys.Close):
		// Escape never closes a window that is being edited.
		w.ctrl.HandleEscape()
		return nil
	case key.Matches(msg, m.keys.SwitchField):
		w.bodyFocused = !w.bodyFocused
		if w.bodyFocused {
			w.title.Blur()
			return w.body.Focus()
		}
		w.body.Blur()
		return w.title.Focus()
	}

	var cmd tea.Cmd
	if w.bodyFocused {
		w.body, cmd = w.body.Update(msg)
		return cmd
	}
	before := w.title.Value()
	w.title, cmd = w.title.Update(msg)
	if after := w.title.Value(); after != before {
		w.autosave.Set(after)
	}
	return cmd
}

func (m *appModel) openPrompt(kind promptKind) tea.Cmd {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200
	switch kind {
	case promptNewNote:
		ti.Placeholder = "Title"
	default:
		ti.Placeholder = "note-…"
	}
	m.prompt = kind
	m.promptInput = ti
	return m.promptInput.Focus()
}

func (m *appModel) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		return nil
	case "enter":
		kind := m.prompt
		val := strings.TrimSpace(m.promptInput.Value())
		m.prompt = promptNone
		if val == "" {
			return nil
		}
		switch kind {
		case promptGoTo:
			if w, _, ok := m.focused(); ok {
				return m.navigate(w, 0, val)
			}
			return m.openWindow(val)
		case promptOpen:
			return m.openWindow(val)
		case promptNewNote:
			st, actor := m.store, m.actorID
			return func() tea.Msg {
				v, err := st.CreateNote(context.Background(), actor, val, "", model.AccessAdmin)
				return noteCreatedMsg{view: v, err: err}
			}
		}
		return nil
	}
	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return cmd
}

func (m *appModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.prompt != promptNone {
		return nil
	}
	pt := panel.Point{X: msg.X, Y: msg.Y}

	if w, _, ok := m.focused(); ok {
		if p := w.ctrl.Popup(); p != nil {
			_, widths := renderPopup(p)
			if access, hit := p.OptionAt(pt, popupToggleRow, popupToggleLeft, widths); hit {
				if req, ok := p.Select(access); ok {
					return m.selectAccess(req)
				}
				return nil
			}
			if !p.HandleClick(pt) {
				return nil
			}
		}
	}

	ws := m.registry.Windows()
	for i := len(ws) - 1; i >= 0; i-- {
		w := m.windows[ws[i].ID]
		if w == nil {
			continue
		}
		g := m.geometry(w)
		if !g.contains(pt) {
			continue
		}
		m.registry.Focus(w.id)
		if pt.Y != g.headerRow() {
			return nil
		}
		h, ok := layoutHeader(w.ctrl, g.innerW()).hitAt(pt.X - g.x - 1)
		if !ok {
			return nil
		}
		switch h.kind {
		case hitBack:
			return m.navigate(w, -1, "")
		case hitNext:
			return m.navigate(w, 1, "")
		case hitClose:
			return m.closeWindow(w)
		case hitAction:
			return m.invoke(w, h.action.Kind)
		}
		return nil
	}
	return nil
}

func (m appModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	screenH := m.height - 1
	screen := normalizePane(m.home.View(), m.width, screenH)

	ws := m.registry.Windows()
	for i, d := range ws {
		w := m.windows[d.ID]
		if w == nil {
			continue
		}
		g := m.geometry(w)
		screen = overlay(screen, renderWindow(w, d, g, i == len(ws)-1, m.keys), g.x, g.y)
	}
	if w, _, ok := m.focused(); ok {
		if p := w.ctrl.Popup(); p != nil {
			s, _ := renderPopup(p)
			a := p.Anchor()
			screen = overlay(screen, s, a.X, a.Y)
		}
	}
	if m.prompt != promptNone {
		box := m.renderPrompt()
		screen = overlay(screen, box, (m.width-lipgloss.Width(box))/2, (screenH-lipgloss.Height(box))/2)
	}
	return screen + "\n" + m.statusLine()
}

func (m appModel) renderPrompt() string {
	title := map[promptKind]string{
		promptGoTo:    "Go to note",
		promptOpen:    "Open note in new window",
		promptNewNote: "New note",
	}[m.prompt]
	w := clamp(m.width/2, min(30, m.width), m.width)
	m.promptInput.Width = max(w-6, 1)
	body := lipgloss.NewStyle().Bold(true).Render(title) + "\n" + m.promptInput.View() + "\n" +
		styleMuted().Render("enter: ok   esc: cancel")
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorFocusBorder).
		Padding(0, 1).
		Width(max(w-2, 1)).
		Render(body)
}

func (m appModel) statusLine() string {
	if m.status != "" {
		st := styleMuted()
		if m.statusErr {
			st = styleError()
		}
		return st.Render(fitLine(m.status, m.width))
	}
	var help string
	if w, _, ok := m.focused(); ok {
		help = fmt.Sprintf("%d window(s)   %s", m.registry.Len(), helpLine(m.keys.CycleFocus, m.keys.OpenNew, m.keys.CopyID, m.keys.Quit))
		if w.ctrl.TitleEditable() {
			help = "editing " + w.ctrl.NoteID()
		}
	} else {
		help = helpLine(m.keys.Confirm, m.keys.NewNote, m.keys.OpenNew, m.keys.Reload, m.keys.Quit)
	}
	return styleMuted().Render(fitLine(help, m.width))
}
