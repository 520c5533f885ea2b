// Package dashboard assembles the pages of the dashboard from the loaded
// corpus. Every call recomputes its result from the read-only tables; there
// is no cache and no shared mutable state, so a Service is safe for
// concurrent use.
package dashboard

import (
	"time"

	"github.com/shapingai/shaping-ai-dashboard/internal/chart"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// Reader is the page-level contract shared by the in-process service and
// the socket RPC client.
type Reader interface {
	Overview() (Overview, error)
	Analysis(req AnalysisRequest) (AnalysisView, error)
	Topic(selector int) (TopicView, error)
	Network() (NetworkView, error)
}

// Section is a titled block of text.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Overview is the Home page.
type Overview struct {
	Title       string              `json:"title"`
	Project     string              `json:"project"`
	Sections    []Section           `json:"sections"`
	SearchQuery string              `json:"search_query"`
	About       []string            `json:"about"`
	Summary     model.CorpusSummary `json:"summary"`
	Span        model.DateRange     `json:"span"`
	NumTopics   int                 `json:"num_topics"`
	MaxLimit    int                 `json:"max_limit"`
}

// AnalysisRequest selects a date range and the number of ranked bigrams.
// Zero dates default to the corpus span; a non-positive limit defaults to
// model.DefaultBigramLimit.
type AnalysisRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Limit int       `json:"limit"`
}

// AnalysisView is the Analysis page for one range.
type AnalysisView struct {
	Intro    string          `json:"intro"`
	Span     model.DateRange `json:"span"`
	Range    model.DateRange `json:"range"`
	Limit    int             `json:"limit"`
	Articles chart.Spec      `json:"articles"`
	Bigrams  chart.Spec      `json:"bigrams"`
	Media    chart.Spec      `json:"media"`
}

// TopicView is the Topics page for one selector.
type TopicView struct {
	Intro        string     `json:"intro"`
	Selector     int        `json:"selector"`
	NumTopics    int        `json:"num_topics"`
	Keywords     chart.Spec `json:"keywords"`
	Distribution chart.Spec `json:"distribution"`
}

// NetworkView is the Terms Network page.
type NetworkView struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	EmbedURL     string `json:"embed_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	BundleLoaded bool   `json:"bundle_loaded"`
	Nodes        int    `json:"nodes"`
	Edges        int    `json:"edges"`
}
