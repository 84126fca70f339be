package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mchmarny/revpulse/pkg/sentiment"
	"github.com/urfave/cli/v3"
)

const (
	outFlagName   = "out"
	alphaFlagName = "alpha"
	nameFlagName  = "name"
)

type trainResult struct {
	Path     string `json:"path" yaml:"path"`
	Kind     string `json:"kind" yaml:"kind"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Examples int    `json:"examples" yaml:"examples"`
	Tokens   int    `json:"tokens" yaml:"tokens"`
}

func newTrainCmd() *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "Fit a Naive Bayes sentiment model on the review dataset",
		UsageText: `revpulse train                                   # write to the configured model path
   revpulse --dataset db train --out models/sentiment.json --alpha 0.5`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  outFlagName,
				Usage: "Where to write the model artifact (default: configured model path)",
			},
			&cli.FloatFlag{
				Name:  alphaFlagName,
				Usage: "Additive smoothing parameter",
				Value: sentiment.DefaultAlpha,
			},
			&cli.StringFlag{
				Name:  nameFlagName,
				Usage: "Name recorded in the artifact",
				Value: "reviews-nb",
			},
		},
		Action: cmdTrain,
	}
}

func cmdTrain(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	out := cmd.String(outFlagName)
	if out == "" {
		out = cfg.Config.ModelPath
	}

	list, err := newDatasetLoader(cfg).Records(ctx)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	a, err := sentiment.TrainNaiveBayes(list, &sentiment.TrainOptions{
		Alpha:         cmd.Float(alphaFlagName),
		PositiveScore: cfg.Config.PositiveScore,
		Name:          cmd.String(nameFlagName),
	})
	if err != nil {
		return fmt.Errorf("training model: %w", err)
	}

	if err := sentiment.Save(out, a); err != nil {
		return fmt.Errorf("saving model: %w", err)
	}
	slog.Info("model saved", "path", out, "examples", a.Examples)

	return encode(cmd, &trainResult{
		Path:     out,
		Kind:     string(a.Kind),
		Name:     a.Name,
		Examples: a.Examples,
		Tokens:   len(a.NaiveBayes.TokenLogProb),
	})
}
