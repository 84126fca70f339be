package sentiment

import (
	"errors"
	"fmt"
	"math"
)

// Logistic is a TF-IDF bag of words fed into a logistic regression, the
// parameters of a TfidfVectorizer + LogisticRegression pipeline.
type Logistic struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Coef       []float64      `json:"coef"`
	Intercept  float64        `json:"intercept"`
	// SublinearTF replaces term frequency tf with 1 + ln(tf).
	SublinearTF bool `json:"sublinear_tf,omitempty"`
}

func (m *Logistic) validate() error {
	if m == nil {
		return errors.New("logistic parameters missing")
	}
	n := len(m.Vocabulary)
	if n == 0 {
		return errors.New("logistic vocabulary is empty")
	}
	if len(m.IDF) != n || len(m.Coef) != n {
		return fmt.Errorf("logistic dimensions mismatch: vocabulary=%d idf=%d coef=%d", n, len(m.IDF), len(m.Coef))
	}
	for tok, i := range m.Vocabulary {
		if i < 0 || i >= n {
			return fmt.Errorf("vocabulary index out of range for token %q: %d", tok, i)
		}
	}
	if !finite(m.Intercept) {
		return errors.New("invalid intercept")
	}
	return nil
}

// decision returns w·x + b for the L2 normalized TF-IDF vector x of text.
func (m *Logistic) decision(text string) float64 {
	tf := make(map[int]float64)
	for _, tok := range Tokenize(text) {
		if i, ok := m.Vocabulary[tok]; ok {
			tf[i]++
		}
	}

	var norm float64
	for i, v := range tf {
		if m.SublinearTF {
			v = 1 + math.Log(v)
		}
		v *= m.IDF[i]
		tf[i] = v
		norm += v * v
	}
	if norm == 0 {
		return m.Intercept
	}
	norm = math.Sqrt(norm)

	d := m.Intercept
	for i, v := range tf {
		d += m.Coef[i] * v / norm
	}
	return d
}

func (m *Logistic) Predict(text string) Label {
	if m.decision(text) > 0 {
		return Positive
	}
	return Negative
}

func (m *Logistic) PredictProba(text string) []float64 {
	p := 1 / (1 + math.Exp(-m.decision(text)))
	return []float64{1 - p, p}
}
