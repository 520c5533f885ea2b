package tui

import tea "github.com/charmbracelet/bubbletea"

// Page represents a top-level screen in the TUI.
type Page interface {
	ID() string
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) (tea.Cmd, *PageNav)
	View(width, height int) string
}

// loader is implemented by pages that fetch data asynchronously.
type loader interface {
	Loading() bool
}

// PageNav is returned from Update to request a page switch.
type PageNav struct {
	PageID string
}
