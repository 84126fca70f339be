package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	c1, err := ReadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), c1)

	c1.Port = 9090
	c1.PositiveScore = 5
	c1.Dataset = "reviews.csv"

	require.NoError(t, Save(path, c1))

	c2, err := ReadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestReadOrCreate_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("dataset: db\n"), fileMode))

	c, err := ReadOrCreate(path)
	require.NoError(t, err)
	assert.Equal(t, "db", c.Dataset)
	assert.Equal(t, DefaultModelPath, c.ModelPath)
	assert.Equal(t, DefaultPositiveScore, c.PositiveScore)
	assert.Equal(t, DefaultPort, c.Port)
}

func TestReadOrCreate_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("positive_score: 9\n"), fileMode))

	_, err := ReadOrCreate(path)
	assert.Error(t, err)
}

func TestReadOrCreate_EmptyPath(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"no dataset", func(c *Config) { c.Dataset = " " }, true},
		{"no score column", func(c *Config) { c.ScoreColumn = "" }, true},
		{"threshold too low", func(c *Config) { c.PositiveScore = 0 }, true},
		{"bad port", func(c *Config) { c.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
