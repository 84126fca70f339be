package sentiment

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mchmarny/revpulse/pkg/review"
)

const (
	DefaultAlpha         = 1.0
	DefaultPositiveScore = 4
	DefaultNegativeScore = 2
)

// TrainOptions controls how review scores map to labels and the smoothing
// applied to token counts.
type TrainOptions struct {
	// Alpha is the additive (Laplace) smoothing parameter.
	Alpha float64
	// PositiveScore is the lowest score labeled Positive.
	PositiveScore int
	// NegativeScore is the highest score labeled Negative.
	NegativeScore int
	Name          string
}

func (o *TrainOptions) withDefaults() TrainOptions {
	opt := TrainOptions{}
	if o != nil {
		opt = *o
	}
	if opt.Alpha <= 0 {
		opt.Alpha = DefaultAlpha
	}
	if opt.PositiveScore == 0 {
		opt.PositiveScore = DefaultPositiveScore
	}
	if opt.NegativeScore == 0 {
		opt.NegativeScore = DefaultNegativeScore
	}
	return opt
}

// LabelFor maps a review score to a training label. Scores between the
// negative and positive bounds are not labeled.
func (o TrainOptions) LabelFor(score int) (Label, bool) {
	switch {
	case score >= o.PositiveScore:
		return Positive, true
	case score <= o.NegativeScore:
		return Negative, true
	default:
		return 0, false
	}
}

// TrainNaiveBayes fits a multinomial Naive Bayes artifact on the messages
// of the given reviews. Records without text or with a neutral score are
// skipped.
func TrainNaiveBayes(records []*review.Record, opts *TrainOptions) (*Artifact, error) {
	opt := opts.withDefaults()
	if opt.NegativeScore >= opt.PositiveScore {
		return nil, fmt.Errorf("negative score bound (%d) must be below positive score bound (%d)",
			opt.NegativeScore, opt.PositiveScore)
	}

	var (
		docs        [2]int
		tokenTotals [2]float64
		counts      = make(map[string]*[2]float64)
	)

	for _, r := range records {
		if r == nil || strings.TrimSpace(r.Message) == "" {
			continue
		}
		label, ok := opt.LabelFor(r.Score)
		if !ok {
			continue
		}
		tokens := Tokenize(r.Message)
		if len(tokens) == 0 {
			continue
		}
		docs[label]++
		for _, tok := range tokens {
			c, ok := counts[tok]
			if !ok {
				c = &[2]float64{}
				counts[tok] = c
			}
			c[label]++
			tokenTotals[label]++
		}
	}

	if docs[Negative] == 0 || docs[Positive] == 0 {
		return nil, errors.New("training requires both positive and negative examples with text")
	}

	n := float64(docs[Negative] + docs[Positive])
	vocab := float64(len(counts))
	nb := &NaiveBayes{
		ClassLogPrior: [2]float64{
			math.Log(float64(docs[Negative]) / n),
			math.Log(float64(docs[Positive]) / n),
		},
		TokenLogProb: make(map[string][2]float64, len(counts)),
	}

	var denom [2]float64
	for i := range denom {
		denom[i] = math.Log(tokenTotals[i] + opt.Alpha*vocab)
	}
	for tok, c := range counts {
		nb.TokenLogProb[tok] = [2]float64{
			math.Log(c[0]+opt.Alpha) - denom[0],
			math.Log(c[1]+opt.Alpha) - denom[1],
		}
	}

	return &Artifact{
		Kind:       KindNaiveBayes,
		Name:       opt.Name,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Examples:   int(n),
		NaiveBayes: nb,
	}, nil
}
