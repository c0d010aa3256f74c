package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the user config and library root at empty temp dirs
func isolate(t *testing.T) (configHome, root string) {
	t.Helper()

	configHome = t.TempDir()
	root = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("KIFUNAV_ROOT", root)
	t.Setenv("KIFUNAV_DB", "")
	t.Setenv("KIFUNAV_LOG_LEVEL", "")
	t.Setenv("KIFUNAV_MAX_RESULTS", "")
	return configHome, root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultLibraryRoot, cfg.Library.Root)
	assert.Equal(t, ".kifu.json", cfg.Library.Extension)
	assert.Equal(t, "", cfg.Index.DBPath)
	assert.Equal(t, 256, cfg.Index.CacheSize)
	assert.Equal(t, 200, cfg.Search.MaxResults)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLibraryRoot(t *testing.T) {
	t.Setenv("KIFUNAV_ROOT", "")
	assert.Equal(t, DefaultLibraryRoot, LibraryRoot())

	t.Setenv("KIFUNAV_ROOT", "/games")
	assert.Equal(t, "/games", LibraryRoot())
}

func TestLoad_NoFiles(t *testing.T) {
	_, root := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Library.Root)
	assert.Equal(t, DefaultMaxResults, cfg.Search.MaxResults)
}

func TestLoad_Layering(t *testing.T) {
	configHome, root := isolate(t)

	writeFile(t, filepath.Join(configHome, "kifunav", "config.yaml"), `
index:
  cache_size: 32
search:
  max_results: 50
log:
  level: debug
editor:
  command: nvim -R
`)
	writeFile(t, filepath.Join(root, ".kifunav.yaml"), `
search:
  max_results: 10
log:
  format: json
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 32, cfg.Index.CacheSize, "user config applies")
	assert.Equal(t, 10, cfg.Search.MaxResults, "project config overrides user config")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "nvim -R", cfg.Editor.Command)
}

func TestLoad_EnvOverrides(t *testing.T) {
	_, root := isolate(t)

	writeFile(t, filepath.Join(root, ".kifunav.yaml"), "search:\n  max_results: 10\n")
	t.Setenv("KIFUNAV_DB", "/tmp/kifunav.db")
	t.Setenv("KIFUNAV_LOG_LEVEL", "warn")
	t.Setenv("KIFUNAV_MAX_RESULTS", "7")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/kifunav.db", cfg.Index.DBPath)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Search.MaxResults)
}

func TestLoad_MalformedEnvIgnored(t *testing.T) {
	isolate(t)
	t.Setenv("KIFUNAV_MAX_RESULTS", "lots")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxResults, cfg.Search.MaxResults)
}

func TestLoad_ExplicitPath(t *testing.T) {
	configHome, _ := isolate(t)

	writeFile(t, filepath.Join(configHome, "kifunav", "config.yaml"), "index:\n  cache_size: 32\n")
	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, explicit, "index:\n  cache_size: 64\n")

	cfg, err := Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Index.CacheSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFor_RootOverridesEnv(t *testing.T) {
	isolate(t)

	flagRoot := t.TempDir()
	writeFile(t, filepath.Join(flagRoot, ".kifunav.yaml"), "search:\n  max_results: 12\n")

	cfg, err := LoadFor("", flagRoot)
	require.NoError(t, err)
	assert.Equal(t, flagRoot, cfg.Library.Root)
	assert.Equal(t, 12, cfg.Search.MaxResults, "project config of the given root applies")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, root := isolate(t)
	writeFile(t, filepath.Join(root, ".kifunav.yaml"), "search: [unclosed")

	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty root", func(c *Config) { c.Library.Root = "" }},
		{"extension without dot", func(c *Config) { c.Library.Extension = "kifu" }},
		{"zero cache", func(c *Config) { c.Index.CacheSize = 0 }},
		{"negative results", func(c *Config) { c.Search.MaxResults = -1 }},
		{"unknown level", func(c *Config) { c.Log.Level = "verbose" }},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	_, root := isolate(t)
	writeFile(t, filepath.Join(root, ".kifunav.yaml"), "log:\n  level: loud\n")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	isolate(t)

	cfg := NewConfig()
	cfg.Search.MaxResults = 42
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Search.MaxResults)
}
