package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FileName = "config.yaml"

	// DefaultDataset is the public Olist order reviews dataset.
	DefaultDataset   = "https://github.com/Jessicamsza/analise-sentimentos-reviews-olist/raw/refs/heads/main/data/olist_order_reviews_dataset.csv"
	DefaultModelPath = "models/sentiment.json"
	DefaultPort      = 8080

	DefaultScoreColumn = "review_score"
	DefaultTextColumn  = "review_comment_message"

	// DefaultPositiveScore is the lowest score counted as a positive review.
	DefaultPositiveScore = 4

	dirMode  = 0700
	fileMode = 0600
)

// Config represents app config object.
type Config struct {
	Dataset       string `yaml:"dataset"`
	ScoreColumn   string `yaml:"score_column"`
	TextColumn    string `yaml:"text_column"`
	ModelPath     string `yaml:"model_path"`
	PositiveScore int    `yaml:"positive_score"`
	Port          int    `yaml:"port"`
}

// Default returns config populated with the built-in defaults.
func Default() *Config {
	return &Config{
		Dataset:       DefaultDataset,
		ScoreColumn:   DefaultScoreColumn,
		TextColumn:    DefaultTextColumn,
		ModelPath:     DefaultModelPath,
		PositiveScore: DefaultPositiveScore,
		Port:          DefaultPort,
	}
}

// Validate checks the config for values the rest of the app can't work with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config required")
	}
	if strings.TrimSpace(c.Dataset) == "" {
		return errors.New("dataset source required")
	}
	if strings.TrimSpace(c.ScoreColumn) == "" {
		return errors.New("score column required")
	}
	if c.PositiveScore < 1 || c.PositiveScore > 5 {
		return errors.Errorf("positive score must be between 1 and 5, got: %d", c.PositiveScore)
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// fillDefaults sets any zero value to its default so partial files work.
func (c *Config) fillDefaults() {
	d := Default()
	if c.Dataset == "" {
		c.Dataset = d.Dataset
	}
	if c.ScoreColumn == "" {
		c.ScoreColumn = d.ScoreColumn
	}
	if c.TextColumn == "" {
		c.TextColumn = d.TextColumn
	}
	if c.ModelPath == "" {
		c.ModelPath = d.ModelPath
	}
	if c.PositiveScore == 0 {
		c.PositiveScore = d.PositiveScore
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
}

// Save writes c to path as YAML.
func Save(path string, c *Config) error {
	if path == "" {
		return errors.New("config path required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", path)
	}
	return nil
}

// ReadOrCreate reads app config from path or creates it with defaults.
func ReadOrCreate(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path required")
	}

	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, Default()); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	c.fillDefaults()

	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config file: %s", path)
	}
	return &c, nil
}

// GetOrCreateHomeDir returns the app directory under the user home.
// The created flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
