package sentiment

import (
	"errors"
	"fmt"
	"math"
)

// NaiveBayes is a multinomial Naive Bayes model over Tokenize output.
// Tokens missing from the vocabulary are ignored.
type NaiveBayes struct {
	// ClassLogPrior is indexed by Label.
	ClassLogPrior [2]float64 `json:"class_log_prior"`
	// TokenLogProb holds log P(token|class) indexed by Label.
	TokenLogProb map[string][2]float64 `json:"token_log_prob"`
}

func (m *NaiveBayes) validate() error {
	if m == nil {
		return errors.New("naive bayes parameters missing")
	}
	for i, p := range m.ClassLogPrior {
		if !finite(p) || p > 0 {
			return fmt.Errorf("invalid log prior for %s: %v", Label(i), p)
		}
	}
	if len(m.TokenLogProb) == 0 {
		return errors.New("naive bayes vocabulary is empty")
	}
	for tok, lp := range m.TokenLogProb {
		if !finite(lp[0]) || !finite(lp[1]) {
			return fmt.Errorf("invalid log probability for token %q", tok)
		}
	}
	return nil
}

func (m *NaiveBayes) jointLogLikelihood(text string) [2]float64 {
	jll := m.ClassLogPrior
	for _, tok := range Tokenize(text) {
		lp, ok := m.TokenLogProb[tok]
		if !ok {
			continue
		}
		jll[0] += lp[0]
		jll[1] += lp[1]
	}
	return jll
}

func (m *NaiveBayes) Predict(text string) Label {
	return argmax(m.PredictProba(text))
}

// PredictProba normalizes the joint log likelihoods with log-sum-exp.
func (m *NaiveBayes) PredictProba(text string) []float64 {
	jll := m.jointLogLikelihood(text)
	hi := math.Max(jll[0], jll[1])
	e0 := math.Exp(jll[0] - hi)
	e1 := math.Exp(jll[1] - hi)
	sum := e0 + e1
	return []float64{e0 / sum, e1 / sum}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
