package sentiment

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyText is returned for blank input; the classifier is not invoked.
	ErrEmptyText = errors.New("text to classify is empty")

	// ErrModelUnavailable is returned when the classifier artifact could not
	// be loaded.
	ErrModelUnavailable = errors.New("sentiment model unavailable")
)

// Result is the outcome of a single classification.
type Result struct {
	Label     Label  `json:"label" yaml:"label"`
	Sentiment string `json:"sentiment" yaml:"sentiment"`
	// Confidence is the max class probability in percent; nil when the
	// classifier has no probability estimates.
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// Positive reports whether the result carries the positive label.
func (r *Result) Positive() bool {
	return r != nil && r.Label == Positive
}

// Classify runs p on text. Blank text returns ErrEmptyText and a nil p
// returns ErrModelUnavailable; in both cases nothing is invoked.
func Classify(p Predictor, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if p == nil {
		return nil, ErrModelUnavailable
	}

	label := p.Predict(text)
	r := &Result{
		Label:     label,
		Sentiment: label.String(),
	}

	pp, ok := p.(ProbabilityPredictor)
	if !ok {
		return r, nil
	}

	probs := pp.PredictProba(text)
	if len(probs) == 0 {
		return r, nil
	}
	top := probs[0]
	for _, v := range probs[1:] {
		if v > top {
			top = v
		}
	}
	if c := min(top*100, 100); c > 0 {
		r.Confidence = &c
	}
	return r, nil
}
