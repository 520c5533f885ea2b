package chart

import (
	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

const (
	plotlyWhite = "plotly_white"
	monthBins   = "M1"
)

// ArticlesTable lays out the article table as {date, count}.
func ArticlesTable(rows []model.ArticleRecord) Table {
	t := Table{Columns: []string{"date", "count"}, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Date.Format(model.DateLayout), r.Count})
	}
	return t
}

// BigramsTable lays out ranked bigrams as {year, bigram, count}.
func BigramsTable(rows []model.BigramRecord) Table {
	t := Table{Columns: []string{"year", "bigram", "count"}, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Year.Format(model.DateLayout), r.Bigram, r.Count})
	}
	return t
}

// MediaTable lays out ranked media as {media, count}.
func MediaTable(rows []model.MediaCount) Table {
	t := Table{Columns: []string{"media", "count"}, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Media, r.Count})
	}
	return t
}

// TermsTable lays out topic keywords as {words, weight}.
func TermsTable(rows []model.TermWeight) Table {
	t := Table{Columns: []string{"words", "weight"}, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Term, r.Weight})
	}
	return t
}

// TopicSeriesTable lays out topic prevalence as {year, topic, norm}.
func TopicSeriesTable(rows []model.TopicPoint) Table {
	t := Table{Columns: []string{"year", "topic", "norm"}, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Year.Format(model.DateLayout), int64(r.Topic), r.Norm})
	}
	return t
}

// Articles is the monthly article distribution histogram.
func Articles(rows []model.ArticleRecord) (Spec, error) {
	return Build(KindTimeHistogram, ArticlesTable(rows), Layout{
		Title:       "Articles distribution over time",
		X:           Axis{Field: "date", Title: "Year"},
		Y:           Axis{Field: "count", Title: "Articles Count"},
		Orientation: Vertical,
		BinSize:     monthBins,
		Template:    plotlyWhite,
		Width:       800,
		Height:      500,
	})
}

// Bigrams is the most frequent words bar chart, rank 1 on top.
func Bigrams(rows []model.BigramRecord) (Spec, error) {
	return Build(KindHorizontalBar, BigramsTable(rows), Layout{
		Title:       "Most frequent words",
		X:           Axis{Field: "count", Title: "Count"},
		Y:           Axis{Field: "bigram", Title: "", Reversed: true},
		Orientation: Horizontal,
		Width:       500,
		Height:      400,
	})
}

// Media is the main media actors bar chart, rank 1 on top.
func Media(rows []model.MediaCount) (Spec, error) {
	return Build(KindHorizontalBar, MediaTable(rows), Layout{
		Title:       "Main Media actors",
		X:           Axis{Field: "count", Title: "Count of articles published"},
		Y:           Axis{Field: "media", Title: "", Reversed: true},
		Orientation: Horizontal,
		Width:       500,
		Height:      400,
	})
}

// TopicTerms is the topic keywords bar chart, heaviest term on top.
func TopicTerms(rows []model.TermWeight) (Spec, error) {
	return Build(KindHorizontalBar, TermsTable(rows), Layout{
		Title:       "Topic keywords",
		X:           Axis{Field: "weight", Title: "Term frequency"},
		Y:           Axis{Field: "words", Title: "Topic Keywords", Reversed: true},
		Orientation: Horizontal,
		Template:    plotlyWhite,
		Width:       500,
		Height:      400,
	})
}

// TopicSeries is the topic distribution over time, one line per topic.
func TopicSeries(rows []model.TopicPoint) (Spec, error) {
	return Build(KindLineByCategory, TopicSeriesTable(rows), Layout{
		Title:       "Topic distribution over time",
		X:           Axis{Field: "year", Title: "Year"},
		Y:           Axis{Field: "norm", Title: "Topic count (normalized)"},
		Color:       "topic",
		Orientation: Vertical,
		RangeX:      []string{"2010", "2021"},
		Mode:        "markers+lines",
		ShowLegend:  false,
		Width:       500,
		Height:      400,
	})
}
