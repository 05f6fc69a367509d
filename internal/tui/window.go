package tui

import (
	"strings"

	"notewin/internal/model"
	"notewin/internal/panel"
	"notewin/internal/windows"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

// noteWindow is the TUI side of one registry window: its panel controller plus the
// edit-mode widgets.
type noteWindow struct {
	id   string
	slot int
	ctrl *panel.Controller

	title       textinput.Model
	body        textarea.Model
	bodyFocused bool
	autosave    *panel.TitleAutoSaver
}

type windowGeom struct {
	x, y, w, h int
}

func (g windowGeom) contains(p panel.Point) bool {
	return panel.Rect{X: g.x, Y: g.y, W: g.w, H: g.h}.Contains(p)
}

func (g windowGeom) innerW() int { return max(g.w-2, 0) }
func (g windowGeom) innerH() int { return max(g.h-2, 0) }

// Rows inside the border: header, rule, body..., hint.
func (g windowGeom) bodyH() int { return max(g.innerH()-3, 1) }

// headerRow is the screen row of the window header.
func (g windowGeom) headerRow() int { return g.y + 1 }

// geometry places a window. Windows cascade by slot so stacked windows stay visible.
func (m appModel) geometry(w *noteWindow) windowGeom {
	usableH := max(m.height-1, 1)
	width := clamp(m.width*3/4, min(44, m.width), m.width)
	height := clamp(usableH*3/4, min(9, usableH), usableH)
	off := w.slot % 4
	x := clamp((m.width-width)/2+off*3-4, 0, m.width-width)
	y := clamp((usableH-height)/2+off-1, 0, usableH-height)
	return windowGeom{x: x, y: y, w: width, h: height}
}

type hitKind int

const (
	hitBack hitKind = iota
	hitNext
	hitAction
	hitClose
)

type headerHit struct {
	kind   hitKind
	action panel.Action
	x, w   int
}

type headerLayout struct {
	hits   []headerHit
	titleX int
	titleW int
}

const (
	glyphBack  = "‹"
	glyphNext  = "›"
	glyphClose = "×"
)

// layoutHeader computes header cell positions (relative to the inner left edge).
// Rendering and mouse hit-testing both use it.
func layoutHeader(ctrl *panel.Controller, innerW int) headerLayout {
	l := headerLayout{
		hits: []headerHit{
			{kind: hitBack, x: 0, w: 1},
			{kind: hitNext, x: 2, w: 1},
		},
		titleX: 5,
	}

	actions := ctrl.Actions()
	rightW := 1 // close glyph
	for _, a := range actions {
		rightW += lipgloss.Width(buttonLabel(a.Title)) + 1
	}
	x := max(innerW-rightW, l.titleX)
	l.titleW = max(x-1-l.titleX, 0)
	for _, a := range actions {
		w := lipgloss.Width(buttonLabel(a.Title))
		l.hits = append(l.hits, headerHit{kind: hitAction, action: a, x: x, w: w})
		x += w + 1
	}
	l.hits = append(l.hits, headerHit{kind: hitClose, x: x, w: 1})
	return l
}

func (l headerLayout) hitAt(relX int) (headerHit, bool) {
	for _, h := range l.hits {
		if relX >= h.x && relX < h.x+h.w {
			return h, true
		}
	}
	return headerHit{}, false
}

func (l headerLayout) action(kind panel.ActionKind) (headerHit, bool) {
	for _, h := range l.hits {
		if h.kind == hitAction && h.action.Kind == kind {
			return h, true
		}
	}
	return headerHit{}, false
}

func buttonLabel(title string) string { return " " + title + " " }

func renderHeader(w *noteWindow, desc windows.Descriptor, innerW int) string {
	l := layoutHeader(w.ctrl, innerW)

	nav := func(glyph string, enabled bool) string {
		if enabled {
			return lipgloss.NewStyle().Bold(true).Render(glyph)
		}
		return styleMuted().Render(glyph)
	}

	var title string
	if w.ctrl.TitleEditable() {
		w.title.Width = max(l.titleW-1, 1)
		title = w.title.View()
	} else {
		title = lipgloss.NewStyle().Bold(true).Render(w.ctrl.HeaderTitle())
		if w.ctrl.Stale() {
			title = styleMuted().Render(w.ctrl.HeaderTitle())
		}
	}

	var b strings.Builder
	b.WriteString(nav(glyphBack, desc.CanNavigateBack()))
	b.WriteString(" ")
	b.WriteString(nav(glyphNext, desc.CanNavigateNext()))
	b.WriteString("  ")
	b.WriteString(fitLine(title, l.titleW))
	cur := l.titleX + l.titleW
	for _, h := range l.hits[2:] {
		if h.x > cur {
			b.WriteString(strings.Repeat(" ", h.x-cur))
		}
		switch h.kind {
		case hitAction:
			b.WriteString(styleButton().Render(buttonLabel(h.action.Title)))
		case hitClose:
			b.WriteString(lipgloss.NewStyle().Bold(true).Render(glyphClose))
		}
		cur = h.x + h.w
	}
	return fitLine(b.String(), innerW)
}

func renderBody(w *noteWindow, g windowGeom) string {
	innerW, bodyH := g.innerW(), g.bodyH()
	if w.ctrl.TitleEditable() {
		w.body.SetWidth(innerW)
		w.body.SetHeight(bodyH)
		return w.body.View()
	}
	note, ok := w.ctrl.Note()
	if !ok {
		return lipgloss.Place(innerW, bodyH, lipgloss.Center, lipgloss.Center, w.ctrl.Placeholder())
	}
	if strings.TrimSpace(note.Body) == "" {
		return styleMuted().Render("(empty note)")
	}
	return renderMarkdown(note.Body, innerW)
}

func windowHint(w *noteWindow, keys keyMap) string {
	if w.ctrl.Popup() != nil {
		return helpLine(keys.PopupAdmin, keys.PopupPublic, keys.Close)
	}
	if w.ctrl.TitleEditable() {
		return helpLine(keys.SwitchField, keys.Save)
	}
	bindings := []key.Binding{keys.Back, keys.Next}
	for _, a := range w.ctrl.Actions() {
		switch a.Kind {
		case panel.ActionShare:
			bindings = append(bindings, keys.Share)
		case panel.ActionToggleEdit:
			bindings = append(bindings, keys.Edit)
		case panel.ActionEditPermissions:
			bindings = append(bindings, keys.Permissions)
		}
	}
	bindings = append(bindings, keys.GoTo, keys.Close)
	return helpLine(bindings...)
}

func renderWindow(w *noteWindow, desc windows.Descriptor, g windowGeom, focused bool, keys keyMap) string {
	innerW := g.innerW()
	rows := []string{
		renderHeader(w, desc, innerW),
		styleMuted().Render(strings.Repeat("─", innerW)),
		normalizePane(renderBody(w, g), innerW, g.bodyH()),
		styleMuted().Render(fitLine(windowHint(w, keys), innerW)),
	}
	content := normalizePane(strings.Join(rows, "\n"), innerW, g.innerH())

	border := colorUnfocusBorder
	if focused {
		border = colorFocusBorder
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(content)
}

// Popup layout: border + label row, then the toggles; border + padding on the left.
const (
	popupToggleRow  = 2
	popupToggleLeft = 2
)

func renderAccessMenu(active, cursor model.Access) (string, []int) {
	var (
		buttons []string
		widths  []int
	)
	for _, o := range []struct {
		access model.Access
		label  string
	}{{model.AccessAdmin, "Admin"}, {model.AccessPublic, "Public"}} {
		st := styleButton()
		switch {
		case o.access == active:
			st = styleButtonActive()
		case o.access == cursor:
			st = styleButtonCursor()
		}
		txt := buttonLabel(o.label)
		buttons = append(buttons, st.Render(txt))
		widths = append(widths, lipgloss.Width(txt))
	}
	label := lipgloss.NewStyle().Bold(true).Render("Access")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorFocusBorder).
		Padding(0, 1).
		Render(label + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	return box, widths
}

func renderPopup(p *panel.PermissionPopup) (string, []int) {
	return renderAccessMenu(p.Access(), p.Cursor())
}

func newTitleInput(title string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 200
	ti.SetValue(title)
	ti.Focus()
	return ti
}

func newBodyArea(body string) textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetValue(body)
	ta.Blur()
	return ta
}
