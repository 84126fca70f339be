// Package sentiment loads pre-trained binary sentiment classifiers and
// invokes them on free text.
package sentiment

import "fmt"

// Label is the binary class a classifier assigns to a text.
type Label int

const (
	Negative Label = 0
	Positive Label = 1
)

func (l Label) String() string {
	switch l {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return fmt.Sprintf("label(%d)", int(l))
	}
}

// Predictor assigns a label to a text.
type Predictor interface {
	Predict(text string) Label
}

// ProbabilityPredictor is a Predictor that can also estimate class
// probabilities. The returned slice is indexed by Label.
type ProbabilityPredictor interface {
	Predictor
	PredictProba(text string) []float64
}

func argmax(p []float64) Label {
	best := 0
	for i := 1; i < len(p); i++ {
		if p[i] > p[best] {
			best = i
		}
	}
	return Label(best)
}
