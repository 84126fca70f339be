// Package review loads customer review datasets and computes descriptive
// statistics over them.
package review

// Record is a single customer review: free text and a 1-5 score.
type Record struct {
	ID         string `json:"id,omitempty" yaml:"id,omitempty"`
	OrderID    string `json:"order_id,omitempty" yaml:"orderId,omitempty"`
	Score      int    `json:"score" yaml:"score"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	CreatedAt  string `json:"created_at,omitempty" yaml:"createdAt,omitempty"`
	AnsweredAt string `json:"answered_at,omitempty" yaml:"answeredAt,omitempty"`
}

const (
	MinScore = 1
	MaxScore = 5
)

// ValidScore reports whether s is within the review score range.
func ValidScore(s int) bool {
	return s >= MinScore && s <= MaxScore
}
