package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

const minResultLimit = 5

// AnalysisPage shows the article histogram and the ranked bigrams and media
// of a date range chosen with a month slider.
type AnalysisPage struct {
	reader dashboard.Reader
	keys   KeyMap

	months    []time.Time // first day of every month of the span
	span      model.DateRange
	startIdx  int
	endIdx    int
	movingEnd bool
	limit     int
	maxLimit  int
	ready     bool
	seq       int
	inFlight  bool
	view      *dashboard.AnalysisView
	err       error
}

func NewAnalysisPage(r dashboard.Reader, keys KeyMap) *AnalysisPage {
	return &AnalysisPage{
		reader:   r,
		keys:     keys,
		limit:    model.DefaultBigramLimit,
		maxLimit: model.DefaultMaxLimit,
	}
}

func (p *AnalysisPage) ID() string    { return "analysis" }
func (p *AnalysisPage) Title() string { return "Analysis" }
func (p *AnalysisPage) Loading() bool { return p.inFlight }

func (p *AnalysisPage) Init() tea.Cmd {
	if p.ready || p.inFlight {
		return nil
	}
	return p.fetch()
}

// fetch requests the current selection. Before the first answer the range
// is left zero so the service picks the full span.
func (p *AnalysisPage) fetch() tea.Cmd {
	p.seq++
	p.inFlight = true
	req := dashboard.AnalysisRequest{Limit: p.limit}
	if p.ready {
		r := p.selectedRange()
		req.Start, req.End = r.Start, r.End
	}
	return fetchAnalysisCmd(p.reader, p.seq, req)
}

// monthsOf lists the first day of every month touched by r.
func monthsOf(r model.DateRange) []time.Time {
	if r.Empty() {
		return nil
	}
	var out []time.Time
	end := time.Date(r.End.Year(), r.End.Month(), 1, 0, 0, 0, 0, time.UTC)
	for m := time.Date(r.Start.Year(), r.Start.Month(), 1, 0, 0, 0, 0, time.UTC); !m.After(end); m = m.AddDate(0, 1, 0) {
		out = append(out, m)
	}
	return out
}

// selectedRange converts the slider positions to a date range clipped to
// the span: the start bound snaps to the first day of its month and the end
// bound to the last day of its month.
func (p *AnalysisPage) selectedRange() model.DateRange {
	if len(p.months) == 0 {
		return p.span
	}
	start := p.months[p.startIdx]
	end := p.months[p.endIdx].AddDate(0, 1, -1)
	if start.Before(p.span.Start) {
		start = p.span.Start
	}
	if end.After(p.span.End) {
		end = p.span.End
	}
	return model.DateRange{Start: start, End: end}
}

func (p *AnalysisPage) initSlider(v dashboard.AnalysisView) {
	p.span = v.Span
	p.months = monthsOf(v.Span)
	p.startIdx, p.endIdx = 0, max(len(p.months)-1, 0)
	p.ready = true
}

// moveBound shifts the active bound by delta months. The start bound never
// passes the end bound.
func (p *AnalysisPage) moveBound(delta int) bool {
	if len(p.months) == 0 {
		return false
	}
	if p.movingEnd {
		next := min(max(p.endIdx+delta, p.startIdx), len(p.months)-1)
		changed := next != p.endIdx
		p.endIdx = next
		return changed
	}
	next := max(min(p.startIdx+delta, p.endIdx), 0)
	changed := next != p.startIdx
	p.startIdx = next
	return changed
}

func (p *AnalysisPage) setLimit(n int) bool {
	n = min(max(n, minResultLimit), p.maxLimit)
	changed := n != p.limit
	p.limit = n
	return changed
}

// SetMaxLimit bounds the result-count slider.
func (p *AnalysisPage) SetMaxLimit(n int) {
	if n < minResultLimit {
		return
	}
	p.maxLimit = n
	p.limit = min(p.limit, n)
}

func (p *AnalysisPage) Update(msg tea.Msg) (tea.Cmd, *PageNav) {
	switch msg := msg.(type) {
	case overviewMsg:
		if msg.err == nil {
			p.SetMaxLimit(msg.view.MaxLimit)
		}
	case analysisMsg:
		if msg.seq != p.seq {
			return nil, nil
		}
		p.inFlight = false
		p.err = msg.err
		if msg.err != nil {
			return nil, nil
		}
		if !p.ready {
			p.initSlider(msg.view)
		}
		v := msg.view
		p.view = &v
	case tea.KeyMsg:
		if !p.ready {
			return nil, nil
		}
		changed := false
		switch {
		case key.Matches(msg, p.keys.ToggleBound):
			p.movingEnd = !p.movingEnd
		case key.Matches(msg, p.keys.Left):
			changed = p.moveBound(-1)
		case key.Matches(msg, p.keys.Right):
			changed = p.moveBound(1)
		case key.Matches(msg, p.keys.More):
			changed = p.setLimit(p.limit + 1)
		case key.Matches(msg, p.keys.Fewer):
			changed = p.setLimit(p.limit - 1)
		}
		if changed {
			return p.fetch(), nil
		}
	}
	return nil, nil
}

func (p *AnalysisPage) View(width, height int) string {
	switch {
	case p.err != nil:
		return renderError(p.err, width)
	case p.view == nil:
		return renderLoadingPlaceholder(width, height)
	}

	controls := p.renderControls(width)
	footer := helpLine(p.keys.ToggleBound, p.keys.Left, p.keys.Right, p.keys.More, p.keys.Fewer)
	chartsHeight := max(height-lipgloss.Height(controls)-lipgloss.Height(footer), 10)

	histHeight := chartsHeight / 2
	colWidth := max((width-1)/2, 20)
	ranked := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(colWidth).Render(renderSpec(p.view.Bigrams, colWidth, p.limit+1)),
		" ",
		lipgloss.NewStyle().Width(colWidth).Render(renderSpec(p.view.Media, colWidth, model.DefaultMediaLimit+1)),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		controls,
		renderSpec(p.view.Articles, width, histHeight),
		"",
		ranked,
		footer,
	)
}

func (p *AnalysisPage) renderControls(width int) string {
	r := p.selectedRange()
	start := r.Start.Format(model.DateLayout)
	end := r.End.Format(model.DateLayout)
	if p.movingEnd {
		end = selectedStyle.Render("[" + end + "]")
	} else {
		start = selectedStyle.Render("[" + start + "]")
	}

	status := ""
	if p.inFlight {
		status = helpStyle.Render("  updating...")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Analysis"),
		helpStyle.Render(p.view.Intro),
		fmt.Sprintf("Period %s .. %s   %s", start, end, renderSlider(p.startIdx, p.endIdx, len(p.months), max(width-50, 10)))+status,
		fmt.Sprintf("Results %d (%d..%d)", p.limit, minResultLimit, p.maxLimit),
	)
}

// renderSlider draws a two-handle slider track.
func renderSlider(lo, hi, n, width int) string {
	if n <= 1 {
		return ""
	}
	pos := func(i int) int { return i * (width - 1) / (n - 1) }
	track := []rune(strings.Repeat("─", width))
	for i := pos(lo); i <= pos(hi); i++ {
		track[i] = '━'
	}
	track[pos(lo)], track[pos(hi)] = '●', '●'
	return string(track)
}
