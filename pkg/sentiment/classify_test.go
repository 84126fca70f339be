package sentiment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPredictor struct {
	label Label
	calls int
}

func (p *countingPredictor) Predict(string) Label {
	p.calls++
	return p.label
}

type probaPredictor struct {
	countingPredictor
	probs []float64
}

func (p *probaPredictor) PredictProba(string) []float64 {
	return p.probs
}

func TestClassify_EmptyTextNeverInvokes(t *testing.T) {
	p := &countingPredictor{label: Positive}
	for _, text := range []string{"", " ", "\n\t  "} {
		_, err := Classify(p, text)
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	assert.Zero(t, p.calls)
}

func TestClassify_NilPredictor(t *testing.T) {
	_, err := Classify(nil, "bom produto")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestClassify_WithoutProbabilities(t *testing.T) {
	p := &countingPredictor{label: Negative}
	r, err := Classify(p, "ruim")
	require.NoError(t, err)
	assert.Equal(t, Negative, r.Label)
	assert.Equal(t, "negative", r.Sentiment)
	assert.False(t, r.Positive())
	assert.Nil(t, r.Confidence)
	assert.Equal(t, 1, p.calls)
}

func TestClassify_Confidence(t *testing.T) {
	p := &probaPredictor{countingPredictor: countingPredictor{label: Positive}, probs: []float64{0.125, 0.875}}
	r, err := Classify(p, "otimo")
	require.NoError(t, err)
	assert.True(t, r.Positive())
	require.NotNil(t, r.Confidence)
	assert.InDelta(t, 87.5, *r.Confidence, 1e-9)
}

func TestClassify_ZeroProbabilityOmitted(t *testing.T) {
	p := &probaPredictor{probs: []float64{0, 0}}
	r, err := Classify(p, "texto")
	require.NoError(t, err)
	assert.Nil(t, r.Confidence)

	p.probs = nil
	r, err = Classify(p, "texto")
	require.NoError(t, err)
	assert.Nil(t, r.Confidence)
}

func TestClassify_Deterministic(t *testing.T) {
	p, err := Load("testdata/logistic.json")
	require.NoError(t, err)

	texts := []string{"ótimo produto", "ruim demais", "entrega", strings.Repeat("ótimo ruim ", 20)}
	for _, text := range texts {
		first, err := Classify(p, text)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := Classify(p, text)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
		require.NotNil(t, first.Confidence)
		assert.Greater(t, *first.Confidence, 0.0)
		assert.LessOrEqual(t, *first.Confidence, 100.0)
	}
}

func TestLabelString(t *testing.T) {
	assert.Equal(t, "positive", Positive.String())
	assert.Equal(t, "negative", Negative.String())
	assert.Equal(t, "label(7)", Label(7).String())
}
