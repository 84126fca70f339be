package review

import (
	"errors"
	"sort"
)

// DefaultPositiveScore is the lowest score counted as a positive review.
const DefaultPositiveScore = 4

// ErrEmptyTable is returned when summarizing a table without records; the
// mean score is undefined in that case.
var ErrEmptyTable = errors.New("no review records")

// ScoreCount is the number of reviews with a given score.
type ScoreCount struct {
	Score int `json:"score" yaml:"score"`
	Count int `json:"count" yaml:"count"`
}

// Summary holds descriptive statistics over a review table.
type Summary struct {
	Total           int           `json:"total" yaml:"total"`
	MeanScore       float64       `json:"mean_score" yaml:"meanScore"`
	PositiveScore   int           `json:"positive_score" yaml:"positiveScore"`
	Positive        int           `json:"positive" yaml:"positive"`
	PositivePercent float64       `json:"positive_percent" yaml:"positivePercent"`
	Scores          []*ScoreCount `json:"scores" yaml:"scores"`
}

// Summarize computes the summary using DefaultPositiveScore.
func Summarize(records []*Record) (*Summary, error) {
	return SummarizeAt(records, DefaultPositiveScore)
}

// SummarizeAt computes the total, mean score, share of reviews scored at or
// above positiveScore, and per-score counts sorted by score ascending.
// Nil records are ignored.
func SummarizeAt(records []*Record, positiveScore int) (*Summary, error) {
	counts := make(map[int]int)
	sum, total, positive := 0, 0, 0

	for _, r := range records {
		if r == nil {
			continue
		}
		total++
		sum += r.Score
		counts[r.Score]++
		if r.Score >= positiveScore {
			positive++
		}
	}

	if total == 0 {
		return nil, ErrEmptyTable
	}

	s := &Summary{
		Total:           total,
		MeanScore:       float64(sum) / float64(total),
		PositiveScore:   positiveScore,
		Positive:        positive,
		PositivePercent: float64(positive) / float64(total) * 100,
		Scores:          make([]*ScoreCount, 0, len(counts)),
	}

	for score, n := range counts {
		s.Scores = append(s.Scores, &ScoreCount{Score: score, Count: n})
	}
	sort.Slice(s.Scores, func(i, j int) bool {
		return s.Scores[i].Score < s.Scores[j].Score
	})

	return s, nil
}
