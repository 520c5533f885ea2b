package corpus

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// ErrShapeMismatch is returned when the topic model and vocabulary disagree
// on the number of terms.
var ErrShapeMismatch = errors.New("corpus: topic model and vocabulary shapes differ")

// Paths locates the input files of the corpus.
type Paths struct {
	Articles    string
	Bigrams     string
	Journals    string
	TopicSeries string
	TopicModel  string
	Vocabulary  string
}

// DefaultPaths returns the conventional file layout under dataDir.
func DefaultPaths(dataDir string) Paths {
	return Paths{
		Articles:    filepath.Join(dataDir, "data", "dist_articles.csv"),
		Bigrams:     filepath.Join(dataDir, "data", "df_bigrams.csv"),
		Journals:    filepath.Join(dataDir, "data", "df_journals.csv"),
		TopicSeries: filepath.Join(dataDir, "data", "dist_topic.csv"),
		TopicModel:  filepath.Join(dataDir, "lda", "lda_model.yml"),
		Vocabulary:  filepath.Join(dataDir, "lda", "vocab.yml"),
	}
}

// Corpus is the process-wide, read-only set of loaded tables.
// It implements model.CorpusReader.
type Corpus struct {
	articles    []model.ArticleRecord
	bigrams     []model.BigramRecord
	journals    []model.JournalRecord
	topicSeries []model.TopicPoint
	topicModel  model.TopicModel
	vocabulary  model.Vocabulary
	span        model.DateRange
}

// Load reads every table and artifact. Any missing or corrupt input is an
// error; there is no partial corpus.
func Load(p Paths) (*Corpus, error) {
	start := time.Now()

	articles, err := readArticles(p.Articles)
	if err != nil {
		return nil, err
	}
	bigrams, err := readBigrams(p.Bigrams)
	if err != nil {
		return nil, err
	}
	journals, err := readJournals(p.Journals)
	if err != nil {
		return nil, err
	}
	series, err := readTopicSeries(p.TopicSeries)
	if err != nil {
		return nil, err
	}
	tm, err := readTopicModel(p.TopicModel)
	if err != nil {
		return nil, err
	}
	vocab, err := readVocabulary(p.Vocabulary)
	if err != nil {
		return nil, err
	}

	c, err := New(articles, bigrams, journals, series, tm, vocab)
	if err != nil {
		return nil, err
	}

	log.Printf("corpus: loaded %d articles rows, %d bigrams, %d journal records, %d topic points, %d topics x %d terms in %s",
		len(articles), len(bigrams), len(journals), len(series), tm.NumTopics(), len(vocab), time.Since(start).Round(time.Millisecond))
	return c, nil
}

// New assembles a corpus from already parsed tables. It validates that
// every topic vector is aligned with the vocabulary.
func New(
	articles []model.ArticleRecord,
	bigrams []model.BigramRecord,
	journals []model.JournalRecord,
	series []model.TopicPoint,
	tm model.TopicModel,
	vocab model.Vocabulary,
) (*Corpus, error) {
	for i, row := range tm.Components {
		if len(row) != len(vocab) {
			return nil, fmt.Errorf("%w: topic %d has %d weights, vocabulary has %d terms", ErrShapeMismatch, i, len(row), len(vocab))
		}
	}
	for _, p := range series {
		if p.Topic < 0 || (tm.NumTopics() > 0 && p.Topic >= tm.NumTopics()) {
			return nil, fmt.Errorf("%w: topic series references topic %d, model has %d", ErrShapeMismatch, p.Topic, tm.NumTopics())
		}
	}

	return &Corpus{
		articles:    articles,
		bigrams:     bigrams,
		journals:    journals,
		topicSeries: series,
		topicModel:  tm,
		vocabulary:  vocab,
		span:        articleSpan(articles),
	}, nil
}

// articleSpan returns the min/max date of the article table. An empty table
// yields an empty range.
func articleSpan(rows []model.ArticleRecord) model.DateRange {
	if len(rows) == 0 {
		return model.DateRange{Start: time.Unix(1, 0).UTC(), End: time.Unix(0, 0).UTC()}
	}
	lo, hi := rows[0].Date, rows[0].Date
	for _, r := range rows[1:] {
		if r.Date.Before(lo) {
			lo = r.Date
		}
		if r.Date.After(hi) {
			hi = r.Date
		}
	}
	return model.DateRange{Start: lo, End: hi}
}

func (c *Corpus) Articles() []model.ArticleRecord { return c.articles }
func (c *Corpus) Bigrams() []model.BigramRecord   { return c.bigrams }
func (c *Corpus) Journals() []model.JournalRecord { return c.journals }
func (c *Corpus) TopicSeries() []model.TopicPoint { return c.topicSeries }
func (c *Corpus) TopicModel() model.TopicModel    { return c.topicModel }
func (c *Corpus) Vocabulary() model.Vocabulary    { return c.vocabulary }

// Span is the default date range, derived from the article table.
func (c *Corpus) Span() model.DateRange { return c.span }
