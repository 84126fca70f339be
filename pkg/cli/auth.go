package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/revpulse/pkg/auth"
	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/urfave/cli/v3"
	"github.com/zalando/go-keyring"
)

const (
	tokenFileName  = "github_token"
	keyringService = appName
	keyringUser    = "github_token"

	clientIDFlagName = "client-id"
	privateFlagName  = "private"
)

func newAuthCmd() *cli.Command {
	return &cli.Command{
		Name:            "auth",
		HideHelpCommand: true,
		Usage:           "Authenticate to GitHub to read datasets from private repos",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     clientIDFlagName,
				Usage:    "Client ID of the GitHub OAuth app used for the device flow",
				Sources:  cli.EnvVars("REVPULSE_GITHUB_CLIENT_ID"),
				Required: true,
			},
			&cli.BoolFlag{
				Name:  privateFlagName,
				Usage: "Request access to private repositories",
			},
		},
		Action: cmdInitAuthFlow,
	}
}

func cmdInitAuthFlow(ctx context.Context, cmd *cli.Command) error {
	clientID := cmd.String(clientIDFlagName)
	scope := ""
	if cmd.Bool(privateFlagName) {
		scope = auth.ScopePrivateRepos
	}

	code, err := auth.GetDeviceCode(ctx, clientID, scope)
	if err != nil {
		return fmt.Errorf("getting device code: %w", err)
	}

	w := output(cmd)
	fmt.Fprintf(w, "1). Copy this code: %s\n", code.UserCode)
	fmt.Fprintf(w, "2). Navigate to this URL in your browser to authenticate: %s\n", code.VerificationURL)
	fmt.Fprint(w, "3). Hit enter to complete the process:\n")
	fmt.Fprint(w, ">")

	if _, err = fmt.Scanln(); err != nil {
		return fmt.Errorf("reading user input: %w", err)
	}

	token, err := auth.GetToken(ctx, clientID, code)
	if err != nil {
		return fmt.Errorf("getting token: %w", err)
	}

	if err = saveGitHubToken(token.AccessToken); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	fmt.Fprintln(w, "Token saved")
	return nil
}

func saveGitHubToken(token string) error {
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		slog.Warn("keychain unavailable, falling back to file", "error", err)
		return saveGitHubTokenFile(token)
	}

	if p, err := tokenFilePath(); err == nil {
		os.Remove(p)
	}
	return nil
}

func getGitHubToken() (string, error) {
	token, err := keyring.Get(keyringService, keyringUser)
	if err == nil && token != "" {
		return token, nil
	}
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		slog.Debug("keychain read failed", "error", err)
	}
	return getGitHubTokenFile()
}

func tokenFilePath() (string, error) {
	home, _, err := config.GetOrCreateHomeDir(appName)
	if err != nil {
		return "", err
	}
	return filepath.Join(home, tokenFileName), nil
}

func saveGitHubTokenFile(token string) error {
	p, err := tokenFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(p, []byte(token), 0600)
}

func getGitHubTokenFile() (string, error) {
	p, err := tokenFilePath()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("reading token file %s: %w", p, err)
	}
	return strings.TrimSpace(string(b)), nil
}
