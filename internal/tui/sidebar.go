package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 24

// renderSidebar lists the pages, marking the active one, above the About box.
func (a *App) renderSidebar(height int) string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Pages"),
		"",
	}
	for _, id := range a.order {
		title := a.pages[id].Title()
		label := fmt.Sprintf("  %s", title)
		if id == a.activePage {
			label = lipgloss.NewStyle().Foreground(ColorBlue).Bold(true).Render(fmt.Sprintf("> %s", title))
		}
		lines = append(lines, label)
	}

	if len(a.about) > 0 {
		about := lipgloss.NewStyle().
			Width(sidebarWidth - 4).
			Foreground(ColorGray).
			Render(strings.Join(a.about, "\n\n"))
		lines = append(lines, "", lipgloss.NewStyle().Bold(true).Render("About"), about)
	}

	return lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(max(height-2, 1)).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(ColorGray).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
