package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/abbrev/internal/config"
	"github.com/at-ishikawa/abbrev/internal/dictionary"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir, "http://127.0.0.1:1/v1")

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	loader, err := config.NewConfigLoader(got)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, filepath.Join(tmpDir, "dictionary.db"), cfg.Database.Path)
	assert.Equal(t, "http://127.0.0.1:1/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 3, cfg.Generation.RetryBudget)
}

func TestSetupTestConfigWithSeedFile(t *testing.T) {
	tmpDir := t.TempDir()
	entries := []dictionary.Entry{
		{Keyword: "Closing", Abbreviation: "Clsg", Description: "The act of closing."},
		{Keyword: "Matching", Abbreviation: "Mtch"},
	}
	cfgPath := SetupTestConfigWithSeedFile(t, tmpDir, "http://127.0.0.1:1/v1", entries)

	loader, err := config.NewConfigLoader(cfgPath)
	require.NoError(t, err)
	cfg, err := loader.Load()
	require.NoError(t, err)
	require.NotEmpty(t, cfg.Dictionary.SeedFile)

	_, err = os.Stat(cfg.Dictionary.SeedFile)
	require.NoError(t, err)

	got, err := dictionary.LoadSeedFile(cfg.Dictionary.SeedFile)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
