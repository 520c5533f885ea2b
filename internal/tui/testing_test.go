package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shapingai/shaping-ai-dashboard/internal/corpus"
	"github.com/shapingai/shaping-ai-dashboard/internal/dashboard"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) *dashboard.Service {
	t.Helper()
	c, err := corpus.New(
		[]model.ArticleRecord{
			{Date: day(2015, 1, 1), Count: 3},
			{Date: day(2015, 3, 20), Count: 5},
			{Date: day(2015, 6, 2), Count: 7},
		},
		[]model.BigramRecord{
			{Year: day(2015, 1, 1), Bigram: "intelligence artificielle", Count: 40},
			{Year: day(2015, 1, 1), Bigram: "big data", Count: 12},
		},
		[]model.JournalRecord{
			{Date: day(2015, 1, 10), Journal: "Le Monde"},
			{Date: day(2015, 3, 20), Journal: "Le Monde"},
			{Date: day(2015, 6, 2), Journal: "Les Echos"},
		},
		[]model.TopicPoint{
			{Year: day(2015, 1, 1), Topic: 0, Norm: 0.4},
			{Year: day(2015, 1, 1), Topic: 1, Norm: 0.6},
		},
		model.TopicModel{Components: [][]float64{{0.7, 0.1}, {0.2, 0.9}}},
		model.Vocabulary{"robot", "donnees"},
	)
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	return dashboard.NewService(c, nil, nil, dashboard.Config{})
}

// collect runs cmd synchronously and returns the messages it produces,
// expanding batches. Spinner ticks are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	case SpinnerTickMsg, nil:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

// settle feeds every message produced by cmd back into the app until no
// more commands are pending.
func settle(a *App, cmd tea.Cmd) {
	for pending := collect(cmd); len(pending) > 0; {
		msg := pending[0]
		pending = pending[1:]
		_, next := a.Update(msg)
		pending = append(pending, collect(next)...)
	}
}

// drive feeds the messages produced by cmd to a page, following any
// follow-up commands.
func drive(p Page, cmd tea.Cmd) {
	for pending := collect(cmd); len(pending) > 0; {
		msg := pending[0]
		pending = pending[1:]
		next, _ := p.Update(msg)
		pending = append(pending, collect(next)...)
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
