// Package testutil provides shared test helpers for creating config files and word-list fixtures.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SetupTestConfig creates a minimal config file and the directories it points
// at. The cache uses the filesystem backend so commands can run without redis.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"cache", "exports"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`logging:
  level: debug
  format: text
cache:
  backend: filesystem
  directory: %s
outputs:
  export_directory: %s
`,
		filepath.Join(tmpDir, "cache"),
		filepath.Join(tmpDir, "exports"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithProvider creates a config file whose word-data provider
// points at baseURL, for tests that serve the provider with httptest.
func SetupTestConfigWithProvider(t *testing.T, tmpDir, baseURL string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte(fmt.Sprintf("dictionaries:\n  rapidapi:\n    base_url: %s\n    max_retries: 0\n", baseURL))...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// WriteWordList writes words in the words_dictionary.json layout and returns
// the file path.
func WriteWordList(t *testing.T, dir string, words ...string) string {
	t.Helper()

	document := make(map[string]int, len(words))
	for _, word := range words {
		document[word] = 1
	}
	data, err := json.Marshal(document)
	require.NoError(t, err)

	path := filepath.Join(dir, "words_dictionary.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}
