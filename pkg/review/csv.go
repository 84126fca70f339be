package review

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	ColumnID         = "review_id"
	ColumnOrderID    = "order_id"
	ColumnScore      = "review_score"
	ColumnTitle      = "review_comment_title"
	ColumnMessage    = "review_comment_message"
	ColumnCreatedAt  = "review_creation_date"
	ColumnAnsweredAt = "review_answer_timestamp"

	utf8BOM = "\ufeff"
)

// Columns names the CSV header columns holding the score and the free text.
// Empty values fall back to the Olist review column names.
type Columns struct {
	Score string
	Text  string
}

func (c Columns) withDefaults() Columns {
	if c.Score == "" {
		c.Score = ColumnScore
	}
	if c.Text == "" {
		c.Text = ColumnMessage
	}
	return c
}

// ParseCSV reads a header-prefixed CSV of reviews. Only the score column is
// required; any other known column is picked up when present.
func ParseCSV(r io.Reader, cols Columns) ([]*Record, error) {
	if r == nil {
		return nil, errors.New("reader required")
	}
	cols = cols.withDefaults()

	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty CSV, header row expected")
		}
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		idx[strings.TrimSpace(h)] = i
	}

	scoreCol, ok := idx[cols.Score]
	if !ok {
		return nil, fmt.Errorf("score column %q not found in header: %v", cols.Score, header)
	}

	col := func(name string) int {
		if i, ok := idx[name]; ok {
			return i
		}
		return -1
	}
	textCol := col(cols.Text)
	idCol := col(ColumnID)
	orderCol := col(ColumnOrderID)
	titleCol := col(ColumnTitle)
	createdCol := col(ColumnCreatedAt)
	answeredCol := col(ColumnAnsweredAt)

	list := make([]*Record, 0)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		line, _ := reader.FieldPos(scoreCol)
		raw := strings.TrimSpace(row[scoreCol])
		score, err := parseScore(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid score %q: %w", line, raw, err)
		}

		list = append(list, &Record{
			ID:         field(row, idCol),
			OrderID:    field(row, orderCol),
			Score:      score,
			Title:      field(row, titleCol),
			Message:    field(row, textCol),
			CreatedAt:  field(row, createdCol),
			AnsweredAt: field(row, answeredCol),
		})
	}

	return list, nil
}

func parseScore(v string) (int, error) {
	s, err := strconv.Atoi(v)
	if err != nil {
		// some exports write integer columns as floats (e.g. "5.0")
		f, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || f != float64(int(f)) {
			return 0, errors.New("not an integer")
		}
		s = int(f)
	}
	if !ValidScore(s) {
		return 0, fmt.Errorf("out of range [%d-%d]", MinScore, MaxScore)
	}
	return s, nil
}

// field clones the value so records don't pin the reader's line buffer.
func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.Clone(strings.TrimSpace(row[i]))
}
