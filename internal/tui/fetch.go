package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
)

// Fetch results. Each carries the sequence number of the request so pages
// can drop answers superseded by a newer widget change.

type overviewMsg struct {
	view dashboard.Overview
	err  error
}

type analysisMsg struct {
	seq  int
	view dashboard.AnalysisView
	err  error
}

type topicMsg struct {
	seq  int
	view dashboard.TopicView
	err  error
}

type networkMsg struct {
	view dashboard.NetworkView
	err  error
}

func fetchOverviewCmd(r dashboard.Reader) tea.Cmd {
	return func() tea.Msg {
		v, err := r.Overview()
		return overviewMsg{view: v, err: err}
	}
}

func fetchAnalysisCmd(r dashboard.Reader, seq int, req dashboard.AnalysisRequest) tea.Cmd {
	return func() tea.Msg {
		v, err := r.Analysis(req)
		return analysisMsg{seq: seq, view: v, err: err}
	}
}

func fetchTopicCmd(r dashboard.Reader, seq, selector int) tea.Cmd {
	return func() tea.Msg {
		v, err := r.Topic(selector)
		return topicMsg{seq: seq, view: v, err: err}
	}
}

func fetchNetworkCmd(r dashboard.Reader) tea.Cmd {
	return func() tea.Msg {
		v, err := r.Network()
		return networkMsg{view: v, err: err}
	}
}
