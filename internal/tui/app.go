package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
)

// App is the top-level Bubble Tea model that routes between pages.
type App struct {
	pages      map[string]Page
	order      []string
	activePage string
	width      int
	height     int
	keys       KeyMap
	about      []string
	ticking    bool
}

// NewApp creates a new App with the given pages. The first page is the default.
func NewApp(keys KeyMap, pages ...Page) *App {
	pageMap := make(map[string]Page, len(pages))
	order := make([]string, 0, len(pages))
	for _, p := range pages {
		pageMap[p.ID()] = p
		order = append(order, p.ID())
	}
	a := &App{
		pages: pageMap,
		order: order,
		keys:  keys,
	}
	if len(order) > 0 {
		a.activePage = order[0]
	}
	return a
}

// NewDashboard builds the four dashboard pages on top of r.
func NewDashboard(r dashboard.Reader) *App {
	keys := DefaultKeyMap()
	return NewApp(keys,
		NewHomePage(r, keys),
		NewAnalysisPage(r, keys),
		NewTopicsPage(r, keys),
		NewNetworkPage(r),
	)
}

// ActivePage returns the id of the page on screen.
func (a *App) ActivePage() string {
	return a.activePage
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if p, ok := a.pages[a.activePage]; ok {
		cmds = append(cmds, p.Init())
	}
	// The overview carries the topic count and the result cap every page
	// needs, so it is fetched whichever page starts.
	if a.activePage != "home" {
		if home, ok := a.pages["home"]; ok {
			cmds = append(cmds, home.Init())
		}
	}
	return tea.Batch(append(cmds, a.startSpinner())...)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case SpinnerTickMsg:
		a.ticking = false
		return a, a.startSpinner()

	case overviewMsg:
		if msg.err == nil {
			a.about = msg.view.About
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.ForceQuit), key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.NextPage):
			return a, a.switchPage(1)
		case key.Matches(msg, a.keys.PrevPage):
			return a, a.switchPage(-1)
		}
		p, ok := a.pages[a.activePage]
		if !ok {
			return a, nil
		}
		cmd, nav := p.Update(msg)
		return a, tea.Batch(cmd, a.navigate(nav), a.startSpinner())
	}

	// Fetch results go to every page; each keeps only its own.
	var cmds []tea.Cmd
	for _, id := range a.order {
		cmd, nav := a.pages[id].Update(msg)
		cmds = append(cmds, cmd)
		if id == a.activePage {
			cmds = append(cmds, a.navigate(nav))
		}
	}
	return a, tea.Batch(append(cmds, a.startSpinner())...)
}

// switchPage moves delta pages along the sidebar order, wrapping around.
func (a *App) switchPage(delta int) tea.Cmd {
	if len(a.order) == 0 {
		return nil
	}
	idx := 0
	for i, id := range a.order {
		if id == a.activePage {
			idx = i
		}
	}
	idx = (idx + delta + len(a.order)) % len(a.order)
	return a.navigate(&PageNav{PageID: a.order[idx]})
}

func (a *App) navigate(nav *PageNav) tea.Cmd {
	if nav == nil {
		return nil
	}
	p, exists := a.pages[nav.PageID]
	if !exists {
		return nil
	}
	a.activePage = nav.PageID
	return tea.Batch(p.Init(), a.startSpinner())
}

// startSpinner schedules a re-render tick while any page is loading.
func (a *App) startSpinner() tea.Cmd {
	if a.ticking {
		return nil
	}
	for _, p := range a.pages {
		if l, ok := p.(loader); ok && l.Loading() {
			a.ticking = true
			return spinnerTick()
		}
	}
	return nil
}

func (a *App) View() string {
	p, ok := a.pages[a.activePage]
	if !ok {
		return "No active page"
	}
	if a.width == 0 || a.height == 0 {
		return renderLoadingPlaceholder(80, 24)
	}

	bodyHeight := max(a.height-1, 1)
	pageWidth := max(a.width-sidebarWidth-3, 20)
	content := lipgloss.NewStyle().
		Width(pageWidth).
		MaxHeight(bodyHeight).
		PaddingLeft(1).
		Render(p.View(pageWidth-1, bodyHeight))

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, a.renderSidebar(bodyHeight), content),
		helpLine(a.keys.PrevPage, a.keys.NextPage, a.keys.Quit),
	)
}
