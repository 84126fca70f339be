package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func newSummaryCmd() *cli.Command {
	return &cli.Command{
		Name:    "summary",
		Aliases: []string{"s"},
		Usage:   "Print review count, mean score, positive share and per-score counts",
		Action:  cmdSummary,
	}
}

func cmdSummary(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	s, err := newDatasetLoader(cfg).Summary(ctx, cfg.Config.PositiveScore)
	if err != nil {
		return fmt.Errorf("summarizing %s: %w", cfg.Config.Dataset, err)
	}

	return encode(cmd, s)
}
