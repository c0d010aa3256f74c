package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultLibraryRoot = "~/Documents/kifu"
	DefaultExtension   = ".kifu.json"
	DefaultCacheSize   = 256
	DefaultMaxResults  = 200
)

// Config is the complete kifunav configuration
type Config struct {
	Library LibraryConfig `yaml:"library"`
	Index   IndexConfig   `yaml:"index"`
	Search  SearchConfig  `yaml:"search"`
	Log     LogConfig     `yaml:"log"`
	Editor  EditorConfig  `yaml:"editor"`
}

// LibraryConfig locates the record files
type LibraryConfig struct {
	Root      string `yaml:"root"`
	Extension string `yaml:"extension"`
}

// IndexConfig configures the position index.
// An empty DBPath places the database under $XDG_DATA_HOME/kifunav.
type IndexConfig struct {
	DBPath    string `yaml:"db_path"`
	CacheSize int    `yaml:"cache_size"`
}

// SearchConfig configures position search
type SearchConfig struct {
	MaxResults int `yaml:"max_results"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EditorConfig selects the external editor of the TUI.
// An empty command falls back to $VISUAL and $EDITOR.
type EditorConfig struct {
	Command string `yaml:"command"`
}

// NewConfig returns the built-in defaults
func NewConfig() *Config {
	return &Config{
		Library: LibraryConfig{Root: DefaultLibraryRoot, Extension: DefaultExtension},
		Index:   IndexConfig{CacheSize: DefaultCacheSize},
		Search:  SearchConfig{MaxResults: DefaultMaxResults},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// LibraryRoot returns the library root from KIFUNAV_ROOT,
// falling back to DefaultLibraryRoot.
func LibraryRoot() string {
	if env := os.Getenv("KIFUNAV_ROOT"); env != "" {
		return env
	}
	return DefaultLibraryRoot
}

// UserConfigPath returns the path of the user configuration file
func UserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kifunav", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "kifunav", "config.yaml")
	}
	return filepath.Join(home, ".config", "kifunav", "config.yaml")
}

// Load builds the configuration in order of increasing precedence:
//  1. Built-in defaults
//  2. User config (~/.config/kifunav/config.yaml)
//  3. Project config (.kifunav.yaml in the library root)
//  4. Environment variables (KIFUNAV_*)
//
// An explicit path replaces the user config; it must exist.
func Load(explicit string) (*Config, error) {
	return LoadFor(explicit, "")
}

// LoadFor is Load for a library root given on the command line. A
// non-empty root takes precedence over every other source, including
// when looking up the project config.
func LoadFor(explicit, root string) (*Config, error) {
	cfg := NewConfig()

	if explicit != "" {
		if err := cfg.loadYAML(explicit); err != nil {
			return nil, err
		}
	} else if path := UserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, fmt.Errorf("failed to load user config: %w", err)
		}
	}

	// The library root may come from the environment, so resolve it before
	// looking for the project file
	if root == "" {
		root = cfg.Library.Root
		if env := os.Getenv("KIFUNAV_ROOT"); env != "" {
			root = env
		}
	}
	if project := filepath.Join(expandHome(root), ".kifunav.yaml"); fileExists(project) {
		if err := cfg.loadYAML(project); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()
	cfg.Library.Root = root

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadYAML merges the non-zero values of a YAML file into c
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith copies non-zero values from other into c
func (c *Config) mergeWith(other *Config) {
	if other.Library.Root != "" {
		c.Library.Root = other.Library.Root
	}
	if other.Library.Extension != "" {
		c.Library.Extension = other.Library.Extension
	}
	if other.Index.DBPath != "" {
		c.Index.DBPath = other.Index.DBPath
	}
	if other.Index.CacheSize != 0 {
		c.Index.CacheSize = other.Index.CacheSize
	}
	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
	if other.Editor.Command != "" {
		c.Editor.Command = other.Editor.Command
	}
}

// applyEnvOverrides applies KIFUNAV_* variables. Malformed numbers are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("KIFUNAV_ROOT"); v != "" {
		c.Library.Root = v
	}
	if v := os.Getenv("KIFUNAV_DB"); v != "" {
		c.Index.DBPath = v
	}
	if v := os.Getenv("KIFUNAV_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("KIFUNAV_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Search.MaxResults = n
		}
	}
}

// Validate checks the final configuration
func (c *Config) Validate() error {
	if c.Library.Root == "" {
		return fmt.Errorf("library.root must not be empty")
	}
	if !strings.HasPrefix(c.Library.Extension, ".") {
		return fmt.Errorf("library.extension must start with '.', got %q", c.Library.Extension)
	}
	if c.Index.CacheSize <= 0 {
		return fmt.Errorf("index.cache_size must be positive, got %d", c.Index.CacheSize)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %s", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %s", c.Log.Format)
	}
	return nil
}

// WriteYAML writes the configuration to path
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
