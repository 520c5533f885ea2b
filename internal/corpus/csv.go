package corpus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// ErrMissingColumn is returned when a table header lacks a required column.
var ErrMissingColumn = errors.New("corpus: missing column")

// csvRow gives named access to the fields of one record.
type csvRow struct {
	fields []string
	index  map[string]int
}

func (r csvRow) get(col string) string {
	i := r.index[col]
	if i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// readTable streams a CSV file with a header row, calling fn for every data
// row. Columns are located by name; extra columns are ignored.
func readTable(path string, required []string, fn func(row csvRow) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header of %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[name] = i
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("%s: %w %q", path, ErrMissingColumn, col)
		}
	}

	for {
		fields, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		line, _ := r.FieldPos(0)
		if err := fn(csvRow{fields: fields, index: index}); err != nil {
			return fmt.Errorf("%s line %d: %w", path, line, err)
		}
	}
}

func parseCount(s string) (int64, error) {
	// pandas writes integer columns containing NaN as floats ("12.0").
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative count %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	return int64(f), nil
}

func readArticles(path string) ([]model.ArticleRecord, error) {
	var rows []model.ArticleRecord
	err := readTable(path, []string{"date", "count"}, func(row csvRow) error {
		d, err := model.ParseDate(row.get("date"))
		if err != nil {
			return err
		}
		n, err := parseCount(row.get("count"))
		if err != nil {
			return err
		}
		rows = append(rows, model.ArticleRecord{Date: d, Count: n})
		return nil
	})
	return rows, err
}

func readBigrams(path string) ([]model.BigramRecord, error) {
	var rows []model.BigramRecord
	err := readTable(path, []string{"year", "bigram", "count"}, func(row csvRow) error {
		y, err := model.ParseDate(row.get("year"))
		if err != nil {
			return err
		}
		n, err := parseCount(row.get("count"))
		if err != nil {
			return err
		}
		rows = append(rows, model.BigramRecord{Year: y, Bigram: row.get("bigram"), Count: n})
		return nil
	})
	return rows, err
}

func readJournals(path string) ([]model.JournalRecord, error) {
	var rows []model.JournalRecord
	err := readTable(path, []string{"date", "journal_clean"}, func(row csvRow) error {
		d, err := model.ParseDate(row.get("date"))
		if err != nil {
			return err
		}
		rows = append(rows, model.JournalRecord{Date: d, Journal: row.get("journal_clean")})
		return nil
	})
	return rows, err
}

func readTopicSeries(path string) ([]model.TopicPoint, error) {
	var rows []model.TopicPoint
	err := readTable(path, []string{"year", "topic", "norm"}, func(row csvRow) error {
		y, err := model.ParseDate(row.get("year"))
		if err != nil {
			return err
		}
		topic, err := strconv.Atoi(row.get("topic"))
		if err != nil {
			return fmt.Errorf("invalid topic %q", row.get("topic"))
		}
		norm, err := strconv.ParseFloat(row.get("norm"), 64)
		if err != nil {
			return fmt.Errorf("invalid norm %q", row.get("norm"))
		}
		rows = append(rows, model.TopicPoint{Year: y, Topic: topic, Norm: norm})
		return nil
	})
	return rows, err
}
