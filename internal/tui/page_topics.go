package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
)

// TopicsPage shows the keywords and the yearly distribution of one topic.
type TopicsPage struct {
	reader dashboard.Reader
	keys   KeyMap

	selector  int
	numTopics int
	seq       int
	inFlight  bool
	view      *dashboard.TopicView
	err       error
}

func NewTopicsPage(r dashboard.Reader, keys KeyMap) *TopicsPage {
	return &TopicsPage{reader: r, keys: keys, selector: 1}
}

func (p *TopicsPage) ID() string    { return "topics" }
func (p *TopicsPage) Title() string { return "Topics" }
func (p *TopicsPage) Loading() bool { return p.inFlight }

func (p *TopicsPage) Init() tea.Cmd {
	if p.view != nil || p.inFlight {
		return nil
	}
	return p.fetch()
}

func (p *TopicsPage) fetch() tea.Cmd {
	p.seq++
	p.inFlight = true
	return fetchTopicCmd(p.reader, p.seq, p.selector)
}

// selectTopic moves to selector, clamped to 1..numTopics once the topic
// count is known.
func (p *TopicsPage) selectTopic(selector int) tea.Cmd {
	selector = max(selector, 1)
	if p.numTopics > 0 {
		selector = min(selector, p.numTopics)
	}
	if selector == p.selector {
		return nil
	}
	p.selector = selector
	return p.fetch()
}

// digitSelector maps the 1-9 keys to topics 1-9 and 0 to topic 10.
func digitSelector(s string) (int, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	if s[0] == '0' {
		return 10, true
	}
	return int(s[0] - '0'), true
}

func (p *TopicsPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case overviewMsg:
		if msg.err == nil && msg.view.NumTopics > 0 {
			p.numTopics = msg.view.NumTopics
		}
	case topicMsg:
		if msg.seq != p.seq {
			return nil, nil
		}
		p.inFlight = false
		p.err = msg.err
		if msg.err == nil {
			v := msg.view
			p.view = &v
			p.numTopics = v.NumTopics
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Left):
			return p.selectTopic(p.selector - 1), nil
		case key.Matches(msg, p.keys.Right):
			return p.selectTopic(p.selector + 1), nil
		case key.Matches(msg, p.keys.Digit):
			if n, ok := digitSelector(msg.String()); ok {
				return p.selectTopic(n), nil
			}
		}
	}
	return nil, nil
}

func (p *TopicsPage) View(width, height int) string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Topics"),
		p.renderSelector(),
	)
	footer := helpLine(p.keys.Left, p.keys.Right, p.keys.Digit)

	var body string
	switch {
	case p.err != nil:
		body = renderError(p.err, width)
	case p.view == nil:
		body = renderLoadingPlaceholder(width, max(height-4, 3))
	default:
		chartsHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer)-2, 10)
		keywordsRows := min(len(p.view.Keywords.Data.Rows), chartsHeight/2)
		body = lipgloss.JoinVertical(lipgloss.Left,
			helpStyle.Width(max(width-2, 20)).Render(p.view.Intro),
			renderSpec(p.view.Keywords, width, keywordsRows+1),
			"",
			renderSpec(p.view.Distribution, width, chartsHeight-keywordsRows-1),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (p *TopicsPage) renderSelector() string {
	n := p.numTopics
	if n == 0 {
		return fmt.Sprintf("Topic %d", p.selector)
	}
	line := fmt.Sprintf("Topic %s of %d  ", selectedStyle.Render(fmt.Sprintf("%d", p.selector)), n)
	for i := 1; i <= n; i++ {
		if i == p.selector {
			line += selectedStyle.Render("●")
		} else {
			line += helpStyle.Render("○")
		}
	}
	if p.inFlight && p.view != nil {
		line += helpStyle.Render("  updating...")
	}
	return line
}
