package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Back        key.Binding
	Next        key.Binding
	CycleFocus  key.Binding
	Close       key.Binding
	Edit        key.Binding
	Save        key.Binding
	Share       key.Binding
	Permissions key.Binding
	CopyID      key.Binding
	GoTo        key.Binding
	OpenNew     key.Binding
	NewNote     key.Binding
	Reload      key.Binding
	Confirm     key.Binding
	SwitchField key.Binding

	PopupAdmin  key.Binding
	PopupPublic key.Binding
	PopupLeft   key.Binding
	PopupRight  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Back:        key.NewBinding(key.WithKeys("[", "alt+left"), key.WithHelp("[", "back")),
		Next:        key.NewBinding(key.WithKeys("]", "alt+right"), key.WithHelp("]", "next")),
		CycleFocus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next window")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Save:        key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Share:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		Permissions: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "permissions")),
		CopyID:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
		GoTo:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to note")),
		OpenNew:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open window")),
		NewNote:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Confirm:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		SwitchField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "title/body")),

		PopupAdmin:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "admin")),
		PopupPublic: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "public")),
		PopupLeft:   key.NewBinding(key.WithKeys("left", "h")),
		PopupRight:  key.NewBinding(key.WithKeys("right", "l")),
	}
}

func helpLine(bindings ...key.Binding) string {
	out := ""
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		if out != "" {
			out += "   "
		}
		out += h.Key + ": " + h.Desc
	}
	return out
}
