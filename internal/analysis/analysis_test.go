package analysis

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func year(y int) time.Time { return day(y, time.January, 1) }

// randomBigrams builds a table with many repeated counts so stability is
// exercised.
func randomBigrams(rng *rand.Rand, n int) []model.BigramRecord {
	rows := make([]model.BigramRecord, n)
	for i := range rows {
		rows[i] = model.BigramRecord{
			Year:   year(2011 + rng.Intn(10)),
			Bigram: fmt.Sprintf("b%d", i),
			Count:  int64(rng.Intn(5)),
		}
	}
	return rows
}

func randomJournals(rng *rand.Rand, n int) []model.JournalRecord {
	names := []string{"Le Monde", "Le Figaro", "Les Echos", "Libération", "La Croix", "Ouest-France"}
	rows := make([]model.JournalRecord, n)
	for i := range rows {
		rows[i] = model.JournalRecord{
			Date:    day(2011+rng.Intn(10), time.Month(1+rng.Intn(12)), 1+rng.Intn(28)),
			Journal: names[rng.Intn(len(names))],
		}
	}
	return rows
}

func TestFilter_InvertedRangeIsEmpty(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	rows := randomBigrams(rng, 200)

	for i := 0; i < 50; i++ {
		s := year(2011 + rng.Intn(10)).AddDate(0, 0, 1+rng.Intn(300))
		e := s.AddDate(0, 0, -1-rng.Intn(400))
		got := FilterBigrams(rows, model.DateRange{Start: s, End: e})
		if len(got) != 0 {
			t.Fatalf("FilterBigrams(%s..%s) returned %d rows, want 0", s.Format(model.DateLayout), e.Format(model.DateLayout), len(got))
		}
	}
}

func TestFilter_FullSpanIsIdentity(t *testing.T) {
	t.Parallel()
	rows := randomJournals(rand.New(rand.NewSource(2)), 300)

	lo, hi := rows[0].Date, rows[0].Date
	for _, r := range rows {
		if r.Date.Before(lo) {
			lo = r.Date
		}
		if r.Date.After(hi) {
			hi = r.Date
		}
	}

	got := FilterJournals(rows, model.DateRange{Start: lo, End: hi})
	if !reflect.DeepEqual(got, rows) {
		t.Error("filtering with the full span should return the table unchanged")
	}
}

func TestFilter_InclusiveBoundsAndOrder(t *testing.T) {
	t.Parallel()
	rows := []model.ArticleRecord{
		{Date: day(2011, 3, 1), Count: 1},
		{Date: day(2011, 1, 1), Count: 2},
		{Date: day(2011, 2, 1), Count: 3},
		{Date: day(2011, 4, 1), Count: 4},
	}
	got := FilterArticles(rows, model.DateRange{Start: day(2011, 1, 1), End: day(2011, 3, 1)})
	want := rows[:3]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FilterArticles = %+v, want %+v", got, want)
	}
}

func TestFilter_NoMatchIsEmptyNotNil(t *testing.T) {
	t.Parallel()
	rows := []model.ArticleRecord{{Date: day(2011, 1, 1), Count: 1}}
	got := FilterArticles(rows, model.DateRange{Start: day(2015, 1, 1), End: day(2016, 1, 1)})
	if got == nil || len(got) != 0 {
		t.Errorf("FilterArticles = %#v, want empty slice", got)
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	t.Parallel()
	rows := randomBigrams(rand.New(rand.NewSource(3)), 50)
	snapshot := append([]model.BigramRecord(nil), rows...)

	RankBigrams(rows, model.DateRange{Start: year(2011), End: year(2020)}, 10)

	if !reflect.DeepEqual(rows, snapshot) {
		t.Error("RankBigrams modified its input table")
	}
}

func TestRankBigrams_Scenario(t *testing.T) {
	t.Parallel()
	rows := []model.BigramRecord{
		{Year: year(2011), Bigram: "a b", Count: 5},
		{Year: year(2011), Bigram: "c d", Count: 5},
		{Year: year(2012), Bigram: "e f", Count: 3},
	}

	got := RankBigrams(rows, model.DateRange{Start: year(2011), End: year(2011)}, 2)
	want := []model.BigramRecord{
		{Year: year(2011), Bigram: "a b", Count: 5},
		{Year: year(2011), Bigram: "c d", Count: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankBigrams = %+v, want %+v", got, want)
	}
}

func TestRankBigrams_OrderedBoundedStable(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(4))
	rows := randomBigrams(rng, 500)
	r := model.DateRange{Start: year(2013), End: year(2017)}

	filtered := FilterBigrams(rows, r)
	inputPos := make(map[string]int, len(filtered))
	for i, b := range filtered {
		inputPos[b.Bigram] = i
	}

	for _, limit := range []int{0, 1, 5, 20, 1000} {
		got := RankBigrams(rows, r, limit)
		if len(got) > limit {
			t.Fatalf("limit %d: got %d rows", limit, len(got))
		}
		if limit >= len(filtered) && len(got) != len(filtered) {
			t.Fatalf("limit %d: got %d rows, want all %d", limit, len(got), len(filtered))
		}
		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1], got[i]
			if cur.Count > prev.Count {
				t.Fatalf("limit %d: count increases at %d (%d > %d)", limit, i, cur.Count, prev.Count)
			}
			if cur.Count == prev.Count && inputPos[cur.Bigram] < inputPos[prev.Bigram] {
				t.Fatalf("limit %d: tie at %d breaks input order (%s before %s)", limit, i, prev.Bigram, cur.Bigram)
			}
		}
	}
}

func TestRankBigrams_NegativeLimit(t *testing.T) {
	t.Parallel()
	rows := []model.BigramRecord{{Year: year(2011), Bigram: "a b", Count: 1}}
	if got := RankBigrams(rows, model.DateRange{Start: year(2011), End: year(2011)}, -3); len(got) != 0 {
		t.Errorf("RankBigrams(limit=-3) = %+v, want empty", got)
	}
}

// Bigram rows are dated January 1st of their year, so a range starting
// later in that year leaves them out.
func TestRankBigrams_MidYearStartExcludesYearRows(t *testing.T) {
	t.Parallel()
	rows := []model.BigramRecord{
		{Year: year(2015), Bigram: "intelligence artificielle", Count: 40},
		{Year: year(2016), Bigram: "big data", Count: 12},
	}

	got := RankBigrams(rows, model.DateRange{Start: day(2015, time.January, 10), End: day(2016, time.June, 2)}, 10)
	if len(got) != 1 || got[0].Bigram != "big data" {
		t.Errorf("mid-year start = %+v, want only the 2016 row", got)
	}

	got = RankBigrams(rows, model.DateRange{Start: day(2015, time.January, 10), End: day(2015, time.June, 2)}, 10)
	if len(got) != 0 {
		t.Errorf("range inside 2015 after Jan 1 = %+v, want empty", got)
	}

	got = RankBigrams(rows, model.DateRange{Start: year(2015), End: day(2015, time.June, 2)}, 10)
	if len(got) != 1 || got[0].Bigram != "intelligence artificielle" {
		t.Errorf("range from Jan 1 = %+v, want the 2015 row", got)
	}
}

func TestRankMedia_CountsAndTies(t *testing.T) {
	t.Parallel()
	rows := []model.JournalRecord{
		{Date: day(2011, 1, 1), Journal: "Les Echos"},
		{Date: day(2011, 1, 2), Journal: "Le Monde"},
		{Date: day(2011, 1, 3), Journal: "Le Figaro"},
		{Date: day(2011, 1, 4), Journal: "Le Monde"},
		{Date: day(2011, 1, 5), Journal: "Le Figaro"},
		{Date: day(2012, 1, 1), Journal: "Les Echos"},
		{Date: day(2012, 1, 2), Journal: "Les Echos"},
	}

	got := RankMedia(rows, model.DateRange{Start: day(2011, 1, 1), End: day(2011, 12, 31)}, 20)
	want := []model.MediaCount{
		{Media: "Le Monde", Count: 2},
		{Media: "Le Figaro", Count: 2},
		{Media: "Les Echos", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankMedia = %+v, want %+v", got, want)
	}
}

func TestRankMedia_Properties(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(5))
	rows := randomJournals(rng, 1000)

	for i := 0; i < 20; i++ {
		s := day(2011+rng.Intn(10), time.Month(1+rng.Intn(12)), 1)
		e := s.AddDate(0, rng.Intn(36), 0)
		r := model.DateRange{Start: s, End: e}
		limit := 1 + rng.Intn(8)

		got := RankMedia(rows, r, limit)
		total := int64(len(FilterJournals(rows, r)))

		if len(got) > limit {
			t.Fatalf("%s: %d rows, limit %d", r, len(got), limit)
		}
		var sum int64
		seen := make(map[string]bool)
		for j, mc := range got {
			if seen[mc.Media] {
				t.Fatalf("%s: media %q listed twice", r, mc.Media)
			}
			seen[mc.Media] = true
			sum += mc.Count
			if j > 0 && mc.Count > got[j-1].Count {
				t.Fatalf("%s: count increases at %d", r, j)
			}
		}
		if sum > total {
			t.Fatalf("%s: sum of counts %d exceeds filtered rows %d", r, sum, total)
		}
	}
}

func TestTopTerms_Scenario(t *testing.T) {
	t.Parallel()
	tm := model.TopicModel{Components: [][]float64{{0.1, 0.9, 0.5}}}
	vocab := model.Vocabulary{"x", "y", "z"}

	got, err := TopTerms(tm, vocab, 0, 2)
	if err != nil {
		t.Fatalf("TopTerms: %v", err)
	}
	want := []model.TermWeight{{Term: "y", Weight: 0.9}, {Term: "z", Weight: 0.5}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopTerms = %+v, want %+v", got, want)
	}
}

func TestTopTerms_LengthAndOrder(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(6))
	vocab := make(model.Vocabulary, 40)
	for i := range vocab {
		vocab[i] = fmt.Sprintf("t%d", i)
	}
	tm := model.TopicModel{Components: make([][]float64, 10)}
	for i := range tm.Components {
		tm.Components[i] = make([]float64, len(vocab))
		for j := range tm.Components[i] {
			tm.Components[i][j] = float64(rng.Intn(6)) / 10
		}
	}

	for topic := 0; topic < tm.NumTopics(); topic++ {
		for _, limit := range []int{1, 10, 40, 100} {
			got, err := TopTerms(tm, vocab, topic, limit)
			if err != nil {
				t.Fatalf("TopTerms(%d, %d): %v", topic, limit, err)
			}
			if want := min(limit, len(vocab)); len(got) != want {
				t.Fatalf("TopTerms(%d, %d) returned %d terms, want %d", topic, limit, len(got), want)
			}
			for i := 1; i < len(got); i++ {
				if got[i].Weight > got[i-1].Weight {
					t.Fatalf("TopTerms(%d, %d): weight increases at %d", topic, limit, i)
				}
			}
		}
	}
}

func TestTopTerms_OutOfBounds(t *testing.T) {
	t.Parallel()
	tm := model.TopicModel{Components: [][]float64{{1}, {2}}}
	vocab := model.Vocabulary{"a"}

	for _, idx := range []int{-1, 2, 10} {
		if _, err := TopTerms(tm, vocab, idx, 10); !errors.Is(err, ErrTopicIndex) {
			t.Errorf("TopTerms(%d) error = %v, want ErrTopicIndex", idx, err)
		}
	}
}

func TestTopicIndex(t *testing.T) {
	t.Parallel()
	tests := []struct {
		selector int
		want     int
		wantErr  bool
	}{
		{1, 0, false},
		{8, 7, false},
		{9, 8, false},
		{10, 9, false},
		{0, 0, true},
		{11, 0, true},
		{-2, 0, true},
	}
	for _, tt := range tests {
		got, err := TopicIndex(tt.selector, 10)
		if tt.wantErr {
			if !errors.Is(err, ErrTopicIndex) {
				t.Errorf("TopicIndex(%d) error = %v, want ErrTopicIndex", tt.selector, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("TopicIndex(%d) = %d, %v, want %d", tt.selector, got, err, tt.want)
		}
	}
}

func TestSelectTopicSeries(t *testing.T) {
	t.Parallel()
	rows := []model.TopicPoint{
		{Year: year(2012), Topic: 1, Norm: 0.2},
		{Year: year(2011), Topic: 0, Norm: 0.4},
		{Year: year(2011), Topic: 1, Norm: 0.6},
	}
	got := SelectTopicSeries(rows, 1)
	want := []model.TopicPoint{rows[0], rows[2]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectTopicSeries = %+v, want %+v", got, want)
	}
	if got := SelectTopicSeries(rows, 7); len(got) != 0 {
		t.Errorf("SelectTopicSeries(7) = %+v, want empty", got)
	}
}

func TestAggregators_Idempotent(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	bigrams := randomBigrams(rng, 200)
	journals := randomJournals(rng, 200)
	r := model.DateRange{Start: year(2012), End: year(2018)}
	tm := model.TopicModel{Components: [][]float64{{0.3, 0.3, 0.1, 0.3}}}
	vocab := model.Vocabulary{"a", "b", "c", "d"}

	if a, b := RankBigrams(bigrams, r, 20), RankBigrams(bigrams, r, 20); !reflect.DeepEqual(a, b) {
		t.Error("RankBigrams is not idempotent")
	}
	if a, b := RankMedia(journals, r, 20), RankMedia(journals, r, 20); !reflect.DeepEqual(a, b) {
		t.Error("RankMedia is not idempotent")
	}
	a, _ := TopTerms(tm, vocab, 0, 3)
	b, _ := TopTerms(tm, vocab, 0, 3)
	if !reflect.DeepEqual(a, b) {
		t.Error("TopTerms is not idempotent")
	}
	if want := []string{"a", "b", "d"}; a[0].Term != want[0] || a[1].Term != want[1] || a[2].Term != want[2] {
		t.Errorf("TopTerms tie order = %+v, want %v", a, want)
	}
}
