package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the window manager and blocks until the user quits.
func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
