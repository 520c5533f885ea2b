package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// corpusTables lists the mirrored tables in load order.
var corpusTables = []string{"articles", "bigrams", "journals", "topic_series", "topic_terms"}

// LoadCorpus replaces the mirrored tables with the contents of c in a single
// transaction. Row order is kept in each table's seq column.
func (s *Store) LoadCorpus(ctx context.Context, c model.CorpusReader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	for _, table := range corpusTables {
		// Table names are hardcoded constants, not user input.
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	steps := []struct {
		table string
		fn    func(context.Context, *sql.Tx, model.CorpusReader) error
	}{
		{"articles", insertArticles},
		{"bigrams", insertBigrams},
		{"journals", insertJournals},
		{"topic_series", insertTopicSeries},
		{"topic_terms", insertTopicTerms},
	}
	for _, step := range steps {
		if err := step.fn(ctx, tx, c); err != nil {
			return fmt.Errorf("load %s: %w", step.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	log.Printf("duckdb: mirrored corpus in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

// insertRows prepares query once and executes it for each of n rows.
func insertRows(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

func insertArticles(ctx context.Context, tx *sql.Tx, c model.CorpusReader) error {
	rows := c.Articles()
	return insertRows(ctx, tx, `INSERT INTO articles (seq, date, count) VALUES (?, CAST(? AS DATE), ?)`,
		len(rows), func(i int) []any {
			return []any{i, rows[i].Date, rows[i].Count}
		})
}

func insertBigrams(ctx context.Context, tx *sql.Tx, c model.CorpusReader) error {
	rows := c.Bigrams()
	return insertRows(ctx, tx, `INSERT INTO bigrams (seq, year, bigram, count) VALUES (?, CAST(? AS DATE), ?, ?)`,
		len(rows), func(i int) []any {
			return []any{i, rows[i].Year, rows[i].Bigram, rows[i].Count}
		})
}

func insertJournals(ctx context.Context, tx *sql.Tx, c model.CorpusReader) error {
	rows := c.Journals()
	return insertRows(ctx, tx, `INSERT INTO journals (seq, date, journal) VALUES (?, CAST(? AS DATE), ?)`,
		len(rows), func(i int) []any {
			return []any{i, rows[i].Date, rows[i].Journal}
		})
}

func insertTopicSeries(ctx context.Context, tx *sql.Tx, c model.CorpusReader) error {
	rows := c.TopicSeries()
	return insertRows(ctx, tx, `INSERT INTO topic_series (seq, year, topic, norm) VALUES (?, CAST(? AS DATE), ?, ?)`,
		len(rows), func(i int) []any {
			return []any{i, rows[i].Year, rows[i].Topic, rows[i].Norm}
		})
}

func insertTopicTerms(ctx context.Context, tx *sql.Tx, c model.CorpusReader) error {
	tm, vocab := c.TopicModel(), c.Vocabulary()
	if len(vocab) == 0 {
		return nil
	}
	n := tm.NumTopics() * len(vocab)
	return insertRows(ctx, tx, `INSERT INTO topic_terms (topic, term_index, term, weight) VALUES (?, ?, ?, ?)`,
		n, func(i int) []any {
			topic, term := i/len(vocab), i%len(vocab)
			return []any{topic, term, vocab[term], tm.Components[topic][term]}
		})
}
