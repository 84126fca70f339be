package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/mchmarny/revpulse/pkg/sentiment"
	"github.com/urfave/cli/v3"
)

const textFlagName = "text"

func newClassifyCmd() *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Aliases:   []string{"c"},
		Usage:     "Classify the sentiment of a review text",
		UsageText: `revpulse classify --text "produto chegou antes do prazo"`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    textFlagName,
				Aliases: []string{"t"},
				Usage:   "Review text to classify (or the first argument)",
			},
		},
		Action: cmdClassify,
	}
}

func cmdClassify(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	text := cmd.String(textFlagName)
	if text == "" {
		text = cmd.Args().First()
	}

	res, err := sentiment.NewLoader(cfg.Config.ModelPath).Classify(text)
	if err != nil {
		if errors.Is(err, sentiment.ErrEmptyText) {
			return fmt.Errorf("please enter a review text to classify: %w", err)
		}
		return fmt.Errorf("classifying text with %s: %w", cfg.Config.ModelPath, err)
	}

	return encode(cmd, res)
}
