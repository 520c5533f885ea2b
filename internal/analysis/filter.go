// Package analysis turns a date-range or topic selection into the derived
// tables behind each dashboard chart. Every function is pure: inputs are
// never modified and results are freshly allocated.
package analysis

import (
	"time"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// Filter returns the rows whose date falls in r, bounds included, in their
// original order. A range with Start after End matches nothing.
func Filter[T any](rows []T, r model.DateRange, dateOf func(T) time.Time) []T {
	out := make([]T, 0)
	if r.Empty() {
		return out
	}
	for _, row := range rows {
		if r.Contains(dateOf(row)) {
			out = append(out, row)
		}
	}
	return out
}

// FilterArticles restricts the article table to r.
func FilterArticles(rows []model.ArticleRecord, r model.DateRange) []model.ArticleRecord {
	return Filter(rows, r, func(a model.ArticleRecord) time.Time { return a.Date })
}

// FilterBigrams restricts the bigram table to r by year.
func FilterBigrams(rows []model.BigramRecord, r model.DateRange) []model.BigramRecord {
	return Filter(rows, r, func(b model.BigramRecord) time.Time { return b.Year })
}

// FilterJournals restricts the journal table to r.
func FilterJournals(rows []model.JournalRecord, r model.DateRange) []model.JournalRecord {
	return Filter(rows, r, func(j model.JournalRecord) time.Time { return j.Date })
}
