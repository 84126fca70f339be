package sentiment

import (
	"errors"
	"strings"
)

// Lexicon scores text by summing signed token weights. It has no
// probability estimates.
type Lexicon struct {
	Weights map[string]float64 `json:"weights"`
	Bias    float64            `json:"bias,omitempty"`
}

func (m *Lexicon) validate() error {
	if m == nil {
		return errors.New("lexicon parameters missing")
	}
	if len(m.Weights) == 0 {
		return errors.New("lexicon has no weights")
	}
	return nil
}

// normalize folds the weight keys the same way Tokenize folds text so
// hand-written lexicons may use accents and capitals.
func (m *Lexicon) normalize() {
	w := make(map[string]float64, len(m.Weights))
	for k, v := range m.Weights {
		w[fold(strings.TrimSpace(k))] += v
	}
	m.Weights = w
}

func (m *Lexicon) Score(text string) float64 {
	s := m.Bias
	for _, tok := range Tokenize(text) {
		s += m.Weights[tok]
	}
	return s
}

func (m *Lexicon) Predict(text string) Label {
	if m.Score(text) > 0 {
		return Positive
	}
	return Negative
}
