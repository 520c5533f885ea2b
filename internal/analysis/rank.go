package analysis

import (
	"sort"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// truncate caps n at limit, treating a negative limit as zero.
func truncate(n, limit int) int {
	if limit < 0 {
		limit = 0
	}
	return min(n, limit)
}

// RankBigrams returns the bigrams of r ordered by count, highest first.
// Equal counts keep their table order. At most limit rows are returned.
func RankBigrams(rows []model.BigramRecord, r model.DateRange, limit int) []model.BigramRecord {
	ranked := FilterBigrams(rows, r)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked[:truncate(len(ranked), limit)]
}

// RankMedia counts the articles of each media within r and returns the
// media ordered by count, highest first. Equal counts keep the order in
// which each media first appears in the table.
func RankMedia(rows []model.JournalRecord, r model.DateRange, limit int) []model.MediaCount {
	filtered := FilterJournals(rows, r)

	pos := make(map[string]int)
	ranked := make([]model.MediaCount, 0)
	for _, row := range filtered {
		i, ok := pos[row.Journal]
		if !ok {
			i = len(ranked)
			pos[row.Journal] = i
			ranked = append(ranked, model.MediaCount{Media: row.Journal})
		}
		ranked[i].Count++
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked[:truncate(len(ranked), limit)]
}
