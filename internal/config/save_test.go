package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/justengel/resman/internal/config"
)

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, yaml.Unmarshal(content, &out))
	return out
}

func TestSaveWatchCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	w := config.WatchConfig{
		Package:    "my_lib.assets",
		Directory:  "my_lib/assets",
		DebounceMS: 250,
		Extensions: []string{".png"},
	}
	require.NoError(t, config.SaveWatch(path, true, w))

	parsed := readYAML(t, path)
	assert.Equal(t, true, parsed["auto_watch"])

	watch, ok := parsed["watch"].(map[string]any)
	require.True(t, ok, "watch section should be a mapping")
	assert.Equal(t, "my_lib.assets", watch["package"])
	assert.Equal(t, "my_lib/assets", watch["directory"])
	assert.Equal(t, 250, watch["debounce_ms"])
	assert.Equal(t, []any{".png"}, watch["extensions"])
}

func TestSaveWatchUpdatesExistingSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	initial := `auto_watch: false
watch:
  package: old_pkg
  directory: old_dir
  debounce_ms: 1000
`
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	w := config.WatchConfig{Package: "new_pkg", Directory: "new_dir", DebounceMS: 50}
	require.NoError(t, config.SaveWatch(path, true, w))

	parsed := readYAML(t, path)
	assert.Equal(t, true, parsed["auto_watch"])
	watch := parsed["watch"].(map[string]any)
	assert.Equal(t, "new_pkg", watch["package"])
	assert.Equal(t, 50, watch["debounce_ms"])
}

func TestSaveWatchPreservesOtherSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	initial := `# hand-written header comment
resource_dir: /data/project

tracing:
  enabled: true
  exporter: stdout
`
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o600))

	w := config.WatchConfig{Package: "p", Directory: "d", DebounceMS: 100}
	require.NoError(t, config.SaveWatch(path, false, w))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# hand-written header comment")

	parsed := readYAML(t, path)
	assert.Equal(t, "/data/project", parsed["resource_dir"])
	trc := parsed["tracing"].(map[string]any)
	assert.Equal(t, true, trc["enabled"])
	assert.Equal(t, false, parsed["auto_watch"])
}

func TestSaveWatchRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{{nope"), 0o600))

	err := config.SaveWatch(path, false, config.WatchConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}
