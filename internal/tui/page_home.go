package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// HomePage shows the project description and corpus summary.
type HomePage struct {
	reader   dashboard.Reader
	keys     KeyMap
	viewport viewport.Model
	overview *dashboard.Overview
	err      error
	loading  bool
}

func NewHomePage(r dashboard.Reader, keys KeyMap) *HomePage {
	return &HomePage{
		reader:   r,
		keys:     keys,
		viewport: viewport.New(80, 20),
	}
}

func (p *HomePage) ID() string    { return "home" }
func (p *HomePage) Title() string { return "Home" }
func (p *HomePage) Loading() bool { return p.loading }

func (p *HomePage) Init() tea.Cmd {
	if p.overview != nil || p.loading {
		return nil
	}
	p.loading = true
	return fetchOverviewCmd(p.reader)
}

func (p *HomePage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case overviewMsg:
		p.loading = false
		p.err = msg.err
		if msg.err == nil {
			ov := msg.view
			p.overview = &ov
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Enter):
			return nil, &PageNav{PageID: "analysis"}
		case key.Matches(msg, p.keys.Up):
			p.viewport.ScrollUp(1)
		case key.Matches(msg, p.keys.Down):
			p.viewport.ScrollDown(1)
		}
	}
	return nil, nil
}

func (p *HomePage) View(width, height int) string {
	switch {
	case p.err != nil:
		return renderError(p.err, width)
	case p.overview == nil:
		return renderLoadingPlaceholder(width, height)
	}

	p.viewport.Width = width
	p.viewport.Height = max(height-1, 1)
	p.viewport.SetContent(renderOverview(*p.overview, width))
	return lipgloss.JoinVertical(lipgloss.Left,
		p.viewport.View(),
		helpLine(p.keys.Up, p.keys.Down, p.keys.Enter),
	)
}

func renderOverview(ov dashboard.Overview, width int) string {
	text := lipgloss.NewStyle().Width(max(width-2, 20))
	info := infoStyle.Width(max(width-4, 20))

	parts := []string{
		titleStyle.Render(ov.Title),
		"",
		info.Render(ov.Project),
		"",
		renderSummary(ov.Summary, ov.NumTopics),
	}
	for _, s := range ov.Sections {
		parts = append(parts, "", chartTitleStyle.Render(s.Heading), text.Render(s.Body))
		if strings.Contains(s.Heading, "Database") {
			parts = append(parts, "", info.Render("Search queries: "+ov.SearchQuery))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderSummary(sum model.CorpusSummary, topics int) string {
	rows := []string{
		fmt.Sprintf("%-18s %d", "Articles", sum.TotalArticles),
		fmt.Sprintf("%-18s %d", "Journal records", sum.JournalRecords),
		fmt.Sprintf("%-18s %d", "Media", sum.DistinctMedia),
		fmt.Sprintf("%-18s %d", "Topics", topics),
	}
	if !sum.FirstDate.IsZero() {
		rows = append(rows, fmt.Sprintf("%-18s %s .. %s", "Period",
			sum.FirstDate.Format(model.DateLayout), sum.LastDate.Format(model.DateLayout)))
	}
	return sectionStyle.Render(strings.Join(rows, "\n"))
}
