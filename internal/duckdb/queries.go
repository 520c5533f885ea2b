package duckdb

import (
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/shapingai/shaping-ai-dashboard/internal/model"
)

// maxQueryRows caps the result of ExecuteQuery.
const maxQueryRows = 1000

// dangerousKeywordPattern matches dangerous SQL keywords at word boundaries.
// This avoids false positives like "RESET" matching "SET".
var dangerousKeywordPattern = regexp.MustCompile(
	`(?i)\b(INSERT|UPDATE|DELETE|DROP|CREATE|ALTER|TRUNCATE|COPY|ATTACH|DETACH|LOAD|EXPORT|IMPORT|INSTALL|CALL|EXECUTE|PRAGMA|SET|CHECKPOINT)\b`,
)

// blockCommentPattern matches C-style block comments (/* ... */).
var blockCommentPattern = regexp.MustCompile(`/\*[\s\S]*?\*/`)

// stripSQLComments removes -- line comments and /* */ block comments from a query.
func stripSQLComments(query string) string {
	cleaned := blockCommentPattern.ReplaceAllString(query, " ")
	var result strings.Builder
	for _, line := range strings.Split(cleaned, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		result.WriteString(line)
		result.WriteByte('\n')
	}
	return result.String()
}

// validateReadOnly rejects anything but a single SELECT or WITH statement.
func validateReadOnly(query string) error {
	if strings.Contains(query, ";") {
		return fmt.Errorf("query must not contain semicolons")
	}

	stripped := strings.TrimSpace(stripSQLComments(query))
	upper := strings.ToUpper(stripped)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("only SELECT/WITH queries are allowed")
	}

	// Keywords are checked after comment stripping so none hide in comments.
	if match := dangerousKeywordPattern.FindString(stripped); match != "" {
		return fmt.Errorf("query contains disallowed keyword: %s", strings.ToUpper(match))
	}
	return nil
}

// CorpusSummary returns headline figures computed over the mirrored tables.
// Dates are zero when the article table is empty.
func (s *Store) CorpusSummary() (model.CorpusSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var (
		sum         model.CorpusSummary
		first, last sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT CAST(COALESCE(SUM(count), 0) AS BIGINT), MIN(date), MAX(date) FROM articles`,
	).Scan(&sum.TotalArticles, &first, &last)
	if err != nil {
		return model.CorpusSummary{}, fmt.Errorf("article summary: %w", err)
	}
	if first.Valid {
		sum.FirstDate = model.Day(first.Time)
	}
	if last.Valid {
		sum.LastDate = model.Day(last.Time)
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT journal) FROM journals`,
	).Scan(&sum.JournalRecords, &sum.DistinctMedia)
	if err != nil {
		return model.CorpusSummary{}, fmt.Errorf("journal summary: %w", err)
	}
	return sum, nil
}

// ExecuteQuery runs a read-only SQL query and returns results as maps.
// Only SELECT/WITH read queries are allowed; DDL/DML is rejected.
func (s *Store) ExecuteQuery(query string) ([]map[string]interface{}, error) {
	trimmed := strings.TrimSpace(query)
	if err := validateReadOnly(trimmed); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()
	rows, err := s.db.QueryContext(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0)
	for rows.Next() && len(results) < maxQueryRows {
		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			log.Printf("duckdb scan error (ExecuteQuery): %v", err)
			continue
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// GetSchemaDescription returns a human-readable description of the mirrored tables.
func (s *Store) GetSchemaDescription() string {
	return `Table 'articles': seq (INTEGER, load order), date (DATE), count (BIGINT, articles published that day). ` +
		`Table 'bigrams': seq (INTEGER), year (DATE), bigram (VARCHAR), count (BIGINT). ` +
		`Table 'journals': seq (INTEGER), date (DATE), journal (VARCHAR, one row per article). ` +
		`Table 'topic_series': seq (INTEGER), year (DATE), topic (INTEGER, 0-based), norm (DOUBLE, normalized prevalence). ` +
		`Table 'topic_terms': topic (INTEGER, 0-based), term_index (INTEGER), term (VARCHAR), weight (DOUBLE).`
}

// TableRowCounts returns the row count for each mirrored table.
func (s *Store) TableRowCounts() (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	counts := make(map[string]int64, len(corpusTables))
	for _, table := range corpusTables {
		var count int64
		// Table names are hardcoded constants, not user input.
		err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
