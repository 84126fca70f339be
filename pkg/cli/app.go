package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mchmarny/revpulse/pkg/config"
	"github.com/mchmarny/revpulse/pkg/data"
	"github.com/mchmarny/revpulse/pkg/logging"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "revpulse"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"

	debugFlagName   = "debug"
	configFlagName  = "config"
	dbFlagName      = "db"
	formatFlagName  = "format"
	datasetFlagName = "dataset"
	modelFlagName   = "model"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	HomeDir    string
	ConfigPath string
	DBPath     string
	Format     string
	Debug      bool
	Config     *config.Config
	DB         *sql.DB
}

func getConfig(cmd *cli.Command) *appConfig {
	cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig)
	if !ok {
		return &appConfig{Config: config.Default(), Format: formatJSON}
	}
	return cfg
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Dashboard and CLI for customer review scores and sentiment",
		Metadata:              map[string]any{},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  debugFlagName,
				Usage: "Prints verbose logs (optional, default: false)",
			},
			&cli.StringFlag{
				Name:  configFlagName,
				Usage: fmt.Sprintf("Path to the YAML config file (default: ~/.%s/%s)", appName, config.FileName),
			},
			&cli.StringFlag{
				Name:  dbFlagName,
				Usage: "Path to the Sqlite database file or a postgres:// connection URL",
			},
			&cli.StringFlag{
				Name:  formatFlagName,
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
			&cli.StringFlag{
				Name:  datasetFlagName,
				Usage: "Review dataset: http(s) URL, github://owner/repo/path[@ref], 'db' or file path (overrides config)",
			},
			&cli.StringFlag{
				Name:  modelFlagName,
				Usage: "Path to the sentiment model artifact (overrides config)",
			},
		},
		Commands: []*cli.Command{
			newServerCmd(),
			newImportCmd(),
			newSummaryCmd(),
			newClassifyCmd(),
			newTrainCmd(),
			newAuthCmd(),
			newResetCmd(),
		},
		Before: initApp,
		After:  closeApp,
	}
}

func initApp(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	debug := cmd.Bool(debugFlagName)
	if debug {
		logging.SetDefaultCLILogger("debug")
	}

	home, created, err := config.GetOrCreateHomeDir(appName)
	if err != nil {
		return ctx, fmt.Errorf("preparing app dir: %w", err)
	}
	if created {
		slog.Debug("app dir created", "path", home)
	}

	cfgPath := cmd.String(configFlagName)
	if cfgPath == "" {
		cfgPath = filepath.Join(home, config.FileName)
	}

	conf, err := config.ReadOrCreate(cfgPath)
	if err != nil {
		return ctx, fmt.Errorf("reading config: %w", err)
	}
	if v := cmd.String(datasetFlagName); v != "" {
		conf.Dataset = v
	}
	if v := cmd.String(modelFlagName); v != "" {
		conf.ModelPath = v
	}

	dbPath := cmd.String(dbFlagName)
	if dbPath == "" {
		dbPath = filepath.Join(home, data.DataFileName)
	}

	if err := data.Init(dbPath); err != nil {
		return ctx, fmt.Errorf("initializing database: %w", err)
	}

	db, err := data.GetDB(dbPath)
	if err != nil {
		return ctx, fmt.Errorf("opening database: %w", err)
	}

	format := formatJSON
	switch strings.ToLower(cmd.String(formatFlagName)) {
	case formatYAML, "yml":
		format = formatYAML
	}

	cmd.Root().Metadata[appConfigKey] = &appConfig{
		HomeDir:    home,
		ConfigPath: cfgPath,
		DBPath:     dbPath,
		Format:     format,
		Debug:      debug,
		Config:     conf,
		DB:         db,
	}
	slog.Debug("config loaded", "config", cfgPath, "dataset", conf.Dataset, "model", conf.ModelPath)

	return ctx, nil
}

func closeApp(_ context.Context, cmd *cli.Command) error {
	if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
		if err := cfg.DB.Close(); err != nil {
			slog.Debug("error closing database", "error", err)
		}
		cfg.DB = nil
	}
	return nil
}

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func encode(cmd *cli.Command, v any) error {
	w := output(cmd)
	if getConfig(cmd).Format == formatYAML {
		return yaml.NewEncoder(w).Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
