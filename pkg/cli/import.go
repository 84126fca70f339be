package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mchmarny/revpulse/pkg/data"
	"github.com/urfave/cli/v3"
)

func newImportCmd() *cli.Command {
	return &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Fetch the review dataset and store it in the local database",
		UsageText: `revpulse import                                              # import the configured dataset
   revpulse --dataset github://owner/repo/data/reviews.csv import
   revpulse --dataset ./reviews.csv import`,
		Action: cmdImport,
	}
}

func cmdImport(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	if cfg.Config.Dataset == datasetFromDB {
		return errors.New("dataset source is the local database, set --dataset to import from elsewhere")
	}

	list, err := fetchDataset(ctx, cfg.Config)
	if err != nil {
		return err
	}

	batch, err := data.SaveReviews(cfg.DB, cfg.Config.Dataset, list)
	if err != nil {
		return fmt.Errorf("saving reviews: %w", err)
	}

	slog.Info("import complete", "id", batch.ID, "records", batch.Records)
	return encode(cmd, batch)
}
