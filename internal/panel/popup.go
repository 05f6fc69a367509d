package panel

import "notewin/internal/model"

type Point struct {
	X, Y int
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Size used for hit-testing until the renderer reports the real one.
const (
	defaultPopupWidth  = 22
	defaultPopupHeight = 4
)

type AccessOption struct {
	Access model.Access
	Label  string
	Active bool
}

// PermissionPopup is a floating access-level menu bound to one note.
// It only ever goes Open -> Closed; a new popup is created for every invocation.
type PermissionPopup struct {
	noteID string
	access model.Access
	anchor Point
	width  int
	height int
	cursor int
	open   bool
}

func newPermissionPopup(noteID string, access model.Access, anchor Point) *PermissionPopup {
	p := &PermissionPopup{
		noteID: noteID,
		access: access,
		anchor: anchor,
		width:  defaultPopupWidth,
		height: defaultPopupHeight,
		open:   true,
	}
	if access == model.AccessPublic {
		p.cursor = 1
	}
	return p
}

var accessOrder = []struct {
	access model.Access
	label  string
}{
	{model.AccessAdmin, "Admin"},
	{model.AccessPublic, "Public"},
}

func (p *PermissionPopup) IsOpen() bool         { return p != nil && p.open }
func (p *PermissionPopup) NoteID() string       { return p.noteID }
func (p *PermissionPopup) Access() model.Access { return p.access }
func (p *PermissionPopup) Anchor() Point        { return p.anchor }

// Bounds is the popup's screen rectangle, top-left at the anchor.
func (p *PermissionPopup) Bounds() Rect {
	return Rect{X: p.anchor.X, Y: p.anchor.Y, W: p.width, H: p.height}
}

// SetSize records the rendered size so outside clicks are detected accurately.
func (p *PermissionPopup) SetSize(w, h int) {
	if w > 0 {
		p.width = w
	}
	if h > 0 {
		p.height = h
	}
}

// Options returns the two mutually exclusive toggles; the active one matches the note.
func (p *PermissionPopup) Options() []AccessOption {
	out := make([]AccessOption, 0, len(accessOrder))
	for _, o := range accessOrder {
		out = append(out, AccessOption{Access: o.access, Label: o.label, Active: p.access == o.access})
	}
	return out
}

// Cursor is the keyboard-highlighted option.
func (p *PermissionPopup) Cursor() model.Access {
	return accessOrder[p.cursor].access
}

func (p *PermissionPopup) MoveCursor(delta int) {
	n := len(accessOrder)
	p.cursor = ((p.cursor+delta)%n + n) % n
}

// Select returns the update request for access. It does not change the popup's state;
// the new level shows up only once the store's response is applied to the controller.
func (p *PermissionPopup) Select(access model.Access) (AccessRequest, bool) {
	if !p.IsOpen() {
		return AccessRequest{}, false
	}
	a, ok := model.ParseAccess(string(access))
	if !ok {
		return AccessRequest{}, false
	}
	return AccessRequest{NoteID: p.noteID, Access: a}, true
}

// SelectCursor selects the keyboard-highlighted option.
func (p *PermissionPopup) SelectCursor() (AccessRequest, bool) {
	return p.Select(p.Cursor())
}

// HandleClick closes the popup on a pointer press outside its bounds and reports
// whether it did.
func (p *PermissionPopup) HandleClick(pt Point) bool {
	if !p.IsOpen() || p.Bounds().Contains(pt) {
		return false
	}
	p.Close()
	return true
}

// OptionAt returns the option under pt. row and left locate the toggle row inside the
// popup; optionWidths are the rendered toggle widths, left to right.
func (p *PermissionPopup) OptionAt(pt Point, row, left int, optionWidths []int) (model.Access, bool) {
	if !p.IsOpen() || pt.Y != p.anchor.Y+row {
		return "", false
	}
	x := p.anchor.X + left
	for i, w := range optionWidths {
		if i >= len(accessOrder) {
			break
		}
		if pt.X >= x && pt.X < x+w {
			return accessOrder[i].access, true
		}
		x += w
	}
	return "", false
}

func (p *PermissionPopup) Close() {
	if p != nil {
		p.open = false
	}
}

func (p *PermissionPopup) rebind(access model.Access) {
	p.access = access
}
