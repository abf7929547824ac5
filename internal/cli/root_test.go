package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/justengel/resman/internal/config"
)

// withConfig points the package-level config at a temp fixture tree for the
// duration of the test. Commands read the same global the root command's
// initializer fills in.
func withConfig(t *testing.T, c config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "check_lib"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "check_lib", "rsc.txt"), []byte("rsc.txt\n"), 0o600))
	manifestYAML := `
resources:
  - package: check_lib
    name: rsc.txt
    alias: greeting
`
	manifestPath := filepath.Join(dir, "resources.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestYAML), 0o600))
	return dir
}

func TestBuildManager_RejectsInvalidConfig(t *testing.T) {
	c := config.Defaults()
	c.Watch.DebounceMS = -5
	withConfig(t, c)

	_, _, err := buildManager()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid configuration")
}

func TestBuildManager_LoadsManifest(t *testing.T) {
	dir := writeFixture(t)
	c := config.Defaults()
	c.ResourceDir = dir
	c.Manifest = filepath.Join(dir, "resources.yaml")
	withConfig(t, c)

	m, shutdown, err := buildManager()
	require.NoError(t, err)
	defer shutdown()

	require.True(t, m.Has("greeting"))
	text, err := m.Text("greeting")
	require.NoError(t, err)
	require.Equal(t, "rsc.txt\n", text)
}

func TestBuildManager_MissingManifestFails(t *testing.T) {
	c := config.Defaults()
	c.Manifest = filepath.Join(t.TempDir(), "absent.yaml")
	withConfig(t, c)

	_, _, err := buildManager()
	require.Error(t, err)
}

func TestListCommand(t *testing.T) {
	dir := writeFixture(t)
	c := config.Defaults()
	c.ResourceDir = dir
	c.Manifest = filepath.Join(dir, "resources.yaml")
	withConfig(t, c)

	var buf bytes.Buffer
	listCmd.SetOut(&buf)
	defer listCmd.SetOut(nil)

	require.NoError(t, listCmd.RunE(listCmd, nil))
	require.Contains(t, buf.String(), "greeting")
	require.Contains(t, buf.String(), "check_lib/rsc.txt")
}

func TestDatasCommand(t *testing.T) {
	dir := writeFixture(t)
	c := config.Defaults()
	c.ResourceDir = dir
	c.Manifest = filepath.Join(dir, "resources.yaml")
	withConfig(t, c)

	var buf bytes.Buffer
	datasCmd.SetOut(&buf)
	defer datasCmd.SetOut(nil)

	require.NoError(t, datasCmd.RunE(datasCmd, nil))
	require.Contains(t, buf.String(), filepath.Join(dir, "check_lib", "rsc.txt"))
	require.Contains(t, buf.String(), "check_lib/rsc.txt")
}

func TestMaterializeCommand(t *testing.T) {
	dir := writeFixture(t)
	c := config.Defaults()
	c.ResourceDir = dir
	c.Manifest = filepath.Join(dir, "resources.yaml")
	withConfig(t, c)

	var buf bytes.Buffer
	materializeCmd.SetOut(&buf)
	defer materializeCmd.SetOut(nil)

	require.NoError(t, materializeCmd.RunE(materializeCmd, []string{"greeting"}))
	require.Contains(t, buf.String(), filepath.Join("check_lib", "rsc.txt"))

	err := materializeCmd.RunE(materializeCmd, []string{"no-such-key"})
	require.Error(t, err)
}
