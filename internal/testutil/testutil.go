// Package testutil provides shared test helpers for creating config files and dictionary fixtures.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/abbrev/internal/dictionary"
)

// SetupTestConfig creates a config file that stores the dictionary in tmpDir
// and sends model requests to baseURL.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, baseURL string) string {
	t.Helper()

	configContent := fmt.Sprintf(`database:
  driver: sqlite
  path: %s
openai:
  base_url: %s
  api_key: fake-key-for-testing
  model: gpt-4o-mini
  embedding_model: text-embedding-3-small
  max_retry_attempts: 0
generation:
  retry_budget: 3
  context_size: 2
  index_concurrency: 2
`,
		filepath.Join(tmpDir, "dictionary.db"),
		baseURL,
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithSeedFile adds entries as the seed file of the config created by SetupTestConfig.
func SetupTestConfigWithSeedFile(t *testing.T, tmpDir string, baseURL string, entries []dictionary.Entry) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir, baseURL)
	seedPath := WriteSeedFile(t, tmpDir, entries)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("dictionary:\n  seed_file: %s\n", seedPath))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// WriteSeedFile writes entries as a YAML seed file in dir and returns its path.
func WriteSeedFile(t *testing.T, dir string, entries []dictionary.Entry) string {
	t.Helper()
	content, err := yaml.Marshal(entries)
	require.NoError(t, err)

	path := filepath.Join(dir, "seed.yml")
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}
