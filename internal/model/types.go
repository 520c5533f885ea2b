package model

import "time"

// ArticleRecord is one time-bucketed observation of the article table.
type ArticleRecord struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// BigramRecord is a bigram frequency for one year. Year is stored as
// January 1st of that year.
type BigramRecord struct {
	Year   time.Time `json:"year"`
	Bigram string    `json:"bigram"`
	Count  int64     `json:"count"`
}

// JournalRecord records the publishing media of a single article.
type JournalRecord struct {
	Date    time.Time `json:"date"`
	Journal string    `json:"journal"`
}

// TopicPoint is one row of the pre-aggregated topic-by-year series.
type TopicPoint struct {
	Year  time.Time `json:"year"`
	Topic int       `json:"topic"`
	Norm  float64   `json:"norm"`
}

// MediaCount is the number of articles published by one media.
type MediaCount struct {
	Media string `json:"media"`
	Count int64  `json:"count"`
}

// TermWeight pairs a vocabulary term with its weight in one topic.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// TopicModel holds the topic-term weight matrix of the offline LDA model.
// Components[i][j] is the weight of vocabulary term j in topic i.
type TopicModel struct {
	Components [][]float64
}

// NumTopics returns the number of topics in the model.
func (m TopicModel) NumTopics() int {
	return len(m.Components)
}

// Vocabulary is the ordered term list aligned with TopicModel columns.
type Vocabulary []string
