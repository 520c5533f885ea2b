package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
)

// NetworkPage describes the terms network and links to the embedded viewer.
// The graph itself is drawn by the browser viewer.
type NetworkPage struct {
	reader  dashboard.Reader
	view    *dashboard.NetworkView
	err     error
	loading bool
}

func NewNetworkPage(r dashboard.Reader) *NetworkPage {
	return &NetworkPage{reader: r}
}

func (p *NetworkPage) ID() string    { return "network" }
func (p *NetworkPage) Title() string { return "Terms Network" }
func (p *NetworkPage) Loading() bool { return p.loading }

func (p *NetworkPage) Init() tea.Cmd {
	if p.view != nil || p.loading {
		return nil
	}
	p.loading = true
	return fetchNetworkCmd(p.reader)
}

func (p *NetworkPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	if msg, ok := msg.(networkMsg); ok {
		p.loading = false
		p.err = msg.err
		if msg.err == nil {
			v := msg.view
			p.view = &v
		}
	}
	return nil, nil
}

func (p *NetworkPage) View(width, height int) string {
	switch {
	case p.err != nil:
		return renderError(p.err, width)
	case p.view == nil:
		return renderLoadingPlaceholder(width, height)
	}

	v := p.view
	text := lipgloss.NewStyle().Width(max(width-2, 20))
	bundle := helpStyle.Render("No local bundle loaded; the viewer fetches the published one.")
	if v.BundleLoaded {
		bundle = fmt.Sprintf("Local bundle: %d nodes, %d edges", v.Nodes, v.Edges)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(v.Title),
		"",
		text.Render(v.Description),
		"",
		chartTitleStyle.Render("Viewer"),
		sectionStyle.Width(max(width-4, 20)).Render(v.EmbedURL),
		helpStyle.Render(fmt.Sprintf("Open in a browser (%dx%d frame).", v.Width, v.Height)),
		"",
		bundle,
	)
}
