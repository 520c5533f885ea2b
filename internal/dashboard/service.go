package dashboard

import (
	"fmt"
	"time"

	"github.com/shapingai/shaping-ai-dashboard/internal/analysis"
	"github.com/shapingai/shaping-ai-dashboard/internal/chart"
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
	"github.com/shapingai/shaping-ai-dashboard/internal/network"
)

// Config tunes the service. Zero fields take the package defaults.
type Config struct {
	MaxLimit   int
	MediaLimit int
	TermLimit  int
	ViewerURL  string
	BundleURL  string
	View       network.View
}

func (c Config) withDefaults() Config {
	if c.MaxLimit <= 0 {
		c.MaxLimit = model.DefaultMaxLimit
	}
	if c.MediaLimit <= 0 {
		c.MediaLimit = model.DefaultMediaLimit
	}
	if c.TermLimit <= 0 {
		c.TermLimit = model.DefaultTermLimit
	}
	if c.ViewerURL == "" {
		c.ViewerURL = network.DefaultViewerURL
	}
	if c.BundleURL == "" {
		c.BundleURL = network.DefaultBundleURL
	}
	if c.View == (network.View{}) {
		c.View = network.DefaultView()
	}
	return c
}

// Service implements Reader over an in-memory corpus.
type Service struct {
	corpus  model.CorpusReader
	summary model.SummaryQuerier
	bundle  *network.Bundle
	cfg     Config
}

// NewService builds a service. summary and bundle may be nil: the summary is
// then computed from the corpus, and the network page reports no local
// bundle.
func NewService(c model.CorpusReader, summary model.SummaryQuerier, bundle *network.Bundle, cfg Config) *Service {
	return &Service{
		corpus:  c,
		summary: summary,
		bundle:  bundle,
		cfg:     cfg.withDefaults(),
	}
}

var _ Reader = (*Service)(nil)

// Span is the default date range of the corpus.
func (s *Service) Span() model.DateRange {
	return s.corpus.Span()
}

// MaxLimit is the upper bound applied to requested result counts.
func (s *Service) MaxLimit() int {
	return s.cfg.MaxLimit
}

// NumTopics is the number of topics of the loaded model.
func (s *Service) NumTopics() int {
	return s.corpus.TopicModel().NumTopics()
}

// Range builds a date range, filling zero bounds from the corpus span.
func (s *Service) Range(start, end time.Time) model.DateRange {
	r := s.corpus.Span()
	if !start.IsZero() {
		r.Start = model.Day(start)
	}
	if !end.IsZero() {
		r.End = model.Day(end)
	}
	return r
}

// clampLimit applies the default and the configured cap.
func (s *Service) clampLimit(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	return min(limit, s.cfg.MaxLimit)
}

// Articles returns the article table restricted to r.
func (s *Service) Articles(r model.DateRange) []model.ArticleRecord {
	return analysis.FilterArticles(s.corpus.Articles(), r)
}

// RankedBigrams returns the top bigrams of r. The limit is capped by the
// configured maximum; a non-positive limit yields no rows.
func (s *Service) RankedBigrams(r model.DateRange, limit int) []model.BigramRecord {
	return analysis.RankBigrams(s.corpus.Bigrams(), r, min(limit, s.cfg.MaxLimit))
}

// RankedMedia returns the media publishing the most articles in r.
func (s *Service) RankedMedia(r model.DateRange, limit int) []model.MediaCount {
	return analysis.RankMedia(s.corpus.Journals(), r, min(limit, s.cfg.MaxLimit))
}

// TopicTerms returns the heaviest terms of the topic shown as selector.
func (s *Service) TopicTerms(selector, limit int) ([]model.TermWeight, error) {
	tm := s.corpus.TopicModel()
	idx, err := analysis.TopicIndex(selector, tm.NumTopics())
	if err != nil {
		return nil, err
	}
	return analysis.TopTerms(tm, s.corpus.Vocabulary(), idx, min(limit, s.cfg.MaxLimit))
}

// TopicSeries returns the yearly prevalence of the topic shown as selector.
func (s *Service) TopicSeries(selector int) ([]model.TopicPoint, error) {
	idx, err := analysis.TopicIndex(selector, s.corpus.TopicModel().NumTopics())
	if err != nil {
		return nil, err
	}
	return analysis.SelectTopicSeries(s.corpus.TopicSeries(), idx), nil
}

// Bundle returns the local network bundle, if one was loaded.
func (s *Service) Bundle() (*network.Bundle, bool) {
	return s.bundle, s.bundle != nil
}

// Summary returns the corpus summary, from the SQL mirror when available.
func (s *Service) Summary() (model.CorpusSummary, error) {
	if s.summary != nil {
		return s.summary.CorpusSummary()
	}
	return Summarize(s.corpus), nil
}

// Summarize computes the corpus summary in memory.
func Summarize(c model.CorpusReader) model.CorpusSummary {
	var sum model.CorpusSummary
	for _, a := range c.Articles() {
		sum.TotalArticles += a.Count
	}
	if span := c.Span(); !span.Empty() {
		sum.FirstDate, sum.LastDate = span.Start, span.End
	}
	media := make(map[string]struct{})
	for _, j := range c.Journals() {
		media[j.Journal] = struct{}{}
	}
	sum.JournalRecords = int64(len(c.Journals()))
	sum.DistinctMedia = int64(len(media))
	return sum
}

// Overview builds the Home page.
func (s *Service) Overview() (Overview, error) {
	sum, err := s.Summary()
	if err != nil {
		return Overview{}, fmt.Errorf("corpus summary: %w", err)
	}
	body := corpusBody
	if sum.TotalArticles > 0 {
		body += fmt.Sprintf(" The total number of articles in the final corpus is %d.", sum.TotalArticles)
	}
	return Overview{
		Title:   homeTitle,
		Project: homeProject,
		Sections: []Section{
			{Heading: databaseHeading, Body: databaseBody},
			{Heading: corpusHeading, Body: body},
		},
		SearchQuery: searchQuery,
		About:       []string{aboutText, aboutRepo},
		Summary:     sum,
		Span:        s.corpus.Span(),
		NumTopics:   s.NumTopics(),
		MaxLimit:    s.cfg.MaxLimit,
	}, nil
}

// Analysis builds the Analysis page for a range. An inverted range yields
// empty charts.
func (s *Service) Analysis(req AnalysisRequest) (AnalysisView, error) {
	r := s.Range(req.Start, req.End)
	limit := s.clampLimit(req.Limit, model.DefaultBigramLimit)

	articles, err := chart.Articles(s.Articles(r))
	if err != nil {
		return AnalysisView{}, err
	}
	bigrams, err := chart.Bigrams(s.RankedBigrams(r, limit))
	if err != nil {
		return AnalysisView{}, err
	}
	media, err := chart.Media(s.RankedMedia(r, s.cfg.MediaLimit))
	if err != nil {
		return AnalysisView{}, err
	}

	return AnalysisView{
		Intro:    analysisIntro,
		Span:     s.corpus.Span(),
		Range:    r,
		Limit:    limit,
		Articles: articles,
		Bigrams:  bigrams,
		Media:    media,
	}, nil
}

// Topic builds the Topics page for a 1-based selector. An out-of-range
// selector returns an error wrapping analysis.ErrTopicIndex.
func (s *Service) Topic(selector int) (TopicView, error) {
	terms, err := s.TopicTerms(selector, s.cfg.TermLimit)
	if err != nil {
		return TopicView{}, err
	}
	series, err := s.TopicSeries(selector)
	if err != nil {
		return TopicView{}, err
	}

	keywords, err := chart.TopicTerms(terms)
	if err != nil {
		return TopicView{}, err
	}
	distribution, err := chart.TopicSeries(series)
	if err != nil {
		return TopicView{}, err
	}

	return TopicView{
		Intro:        topicsIntro,
		Selector:     selector,
		NumTopics:    s.NumTopics(),
		Keywords:     keywords,
		Distribution: distribution,
	}, nil
}

// Network builds the Terms Network page.
func (s *Service) Network() (NetworkView, error) {
	v := NetworkView{
		Title:       network.Title,
		Description: network.Description,
		EmbedURL:    network.EmbedURL(s.cfg.ViewerURL, s.cfg.BundleURL, s.cfg.View),
		Width:       s.cfg.View.Width,
		Height:      s.cfg.View.Height,
	}
	if s.bundle != nil {
		v.BundleLoaded = true
		v.Nodes, v.Edges = s.bundle.Nodes, s.bundle.Edges
	}
	return v, nil
}
