package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/mchmarny/revpulse/pkg/data"
	"github.com/mchmarny/revpulse/pkg/net"
	"github.com/mchmarny/revpulse/pkg/review"
)

const (
	// datasetFromDB selects the last imported dataset as the source.
	datasetFromDB = "db"

	tokenEnvVar = "GITHUB_TOKEN"
)

func newDatasetLoader(cfg *appConfig) *review.Loader {
	return review.NewLoader(func(ctx context.Context) ([]*review.Record, error) {
		return loadDataset(ctx, cfg)
	})
}

func loadDataset(ctx context.Context, cfg *appConfig) ([]*review.Record, error) {
	if cfg.Config.Dataset == datasetFromDB {
		list, err := data.ListReviews(cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("reading imported reviews: %w", err)
		}
		slog.Debug("dataset read from database", "records", len(list))
		return list, nil
	}
	return fetchDataset(ctx, cfg.Config)
}

func fetchDataset(ctx context.Context, c *config.Config) ([]*review.Record, error) {
	src := c.Dataset

	token := ""
	if net.IsURL(src) || net.IsGitHubSource(src) {
		token = lookupGitHubToken()
	}

	rc, err := net.Open(ctx, src, token)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", src, err)
	}
	defer rc.Close()

	list, err := review.ParseCSV(rc, review.Columns{
		Score: c.ScoreColumn,
		Text:  c.TextColumn,
	})
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", src, err)
	}

	slog.Info("dataset loaded", "source", src, "records", len(list))
	return list, nil
}

// lookupGitHubToken returns the token from the environment or the keychain,
// empty when none is stored.
func lookupGitHubToken() string {
	if t := os.Getenv(tokenEnvVar); t != "" {
		return t
	}
	t, err := getGitHubToken()
	if err != nil {
		slog.Debug("no stored GitHub token", "error", err)
		return ""
	}
	return t
}
