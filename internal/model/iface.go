package model

import "time"

// CorpusReader provides read-only access to the loaded corpus tables.
// Returned slices are shared and must not be modified.
type CorpusReader interface {
	Articles() []ArticleRecord
	Bigrams() []BigramRecord
	Journals() []JournalRecord
	TopicSeries() []TopicPoint
	TopicModel() TopicModel
	Vocabulary() Vocabulary
	Span() DateRange
}

// CorpusSummary aggregates headline figures about the corpus.
type CorpusSummary struct {
	TotalArticles  int64     `json:"total_articles"`
	JournalRecords int64     `json:"journal_records"`
	DistinctMedia  int64     `json:"distinct_media"`
	FirstDate      time.Time `json:"first_date"`
	LastDate       time.Time `json:"last_date"`
}

// SummaryQuerier computes corpus-wide summary figures.
type SummaryQuerier interface {
	CorpusSummary() (CorpusSummary, error)
}

// SchemaQuerier provides schema introspection and arbitrary read-only queries.
type SchemaQuerier interface {
	ExecuteQuery(query string) ([]map[string]interface{}, error)
	GetSchemaDescription() string
	TableRowCounts() (map[string]int64, error)
}

// SQLMirror is the read contract of the SQL copy of the corpus.
type SQLMirror interface {
	SummaryQuerier
	SchemaQuerier
}
