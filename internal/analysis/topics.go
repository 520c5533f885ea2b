package analysis

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// ErrTopicIndex is returned when a topic index or selector is outside the
// bounds of the topic model.
var ErrTopicIndex = errors.New("topic index out of range")

// TopicIndex maps a 1-based topic selector, as shown in the UI, to the
// 0-based index of the topic model.
func TopicIndex(selector, numTopics int) (int, error) {
	idx := selector - 1
	if idx < 0 || idx >= numTopics {
		return 0, fmt.Errorf("%w: selector %d, want 1..%d", ErrTopicIndex, selector, numTopics)
	}
	return idx, nil
}

// TopTerms returns the limit highest-weighted vocabulary terms of a topic.
// Equal weights keep vocabulary order.
func TopTerms(tm model.TopicModel, vocab model.Vocabulary, topicIndex, limit int) ([]model.TermWeight, error) {
	if topicIndex < 0 || topicIndex >= tm.NumTopics() {
		return nil, fmt.Errorf("%w: %d, model has %d topics", ErrTopicIndex, topicIndex, tm.NumTopics())
	}

	weights := tm.Components[topicIndex]
	terms := make([]model.TermWeight, 0, len(vocab))
	for i, term := range vocab {
		if i >= len(weights) {
			break
		}
		terms = append(terms, model.TermWeight{Term: term, Weight: weights[i]})
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Weight > terms[j].Weight
	})
	return terms[:truncate(len(terms), limit)], nil
}

// SelectTopicSeries returns the series rows of one topic in stored order.
func SelectTopicSeries(rows []model.TopicPoint, topicIndex int) []model.TopicPoint {
	out := make([]model.TopicPoint, 0)
	for _, p := range rows {
		if p.Topic == topicIndex {
			out = append(out, p)
		}
	}
	return out
}
