// Package config handles loading and managing listdeck configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the listdeck configuration.
type Config struct {
	Data   DataConfig   `toml:"data"`
	UI     UIConfig     `toml:"ui"`
	Import ImportConfig `toml:"import"`

	// Computed paths (not from config file)
	HomeDir string `toml:"-"`
}

// DataConfig holds data storage configuration.
type DataConfig struct {
	DataDir      string `toml:"data_dir"`
	DatabasePath string `toml:"database_path"`
}

// UIConfig holds grid/browser tuning.
type UIConfig struct {
	BufferRows int `toml:"buffer_rows"` // extra rows materialized above/below the viewport
}

// ImportConfig holds CSV import tuning.
type ImportConfig struct {
	BatchSize int `toml:"batch_size"` // rows per insert transaction
}

// DefaultHome returns the default listdeck home directory.
// Respects the LISTDECK_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("LISTDECK_HOME"); h != "" {
		return expandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".listdeck"
	}
	return filepath.Join(home, ".listdeck")
}

// Load reads the configuration. An empty path uses <home>/config.toml;
// an empty homeDir uses DefaultHome(). The config file is optional —
// defaults apply when it is absent — but an explicitly given path must
// exist.
func Load(path, homeDir string) (*Config, error) {
	explicit := path != ""
	if homeDir == "" {
		if explicit {
			homeDir = filepath.Dir(expandPath(path))
		} else {
			homeDir = DefaultHome()
		}
	} else {
		homeDir = expandPath(homeDir)
	}

	if path == "" {
		path = filepath.Join(homeDir, "config.toml")
	}
	path = expandPath(path)

	cfg := &Config{
		HomeDir: homeDir,
		Data: DataConfig{
			DataDir: homeDir,
		},
		UI: UIConfig{
			BufferRows: 5,
		},
		Import: ImportConfig{
			BatchSize: 500,
		},
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Data.DataDir = resolvePath(cfg.Data.DataDir, homeDir)
	cfg.Data.DatabasePath = resolvePath(cfg.Data.DatabasePath, homeDir)

	return cfg, nil
}

// EnsureHomeDir creates the data directory if it does not exist yet.
func (c *Config) EnsureHomeDir() error {
	return os.MkdirAll(c.Data.DataDir, 0o755)
}

// DatabasePath returns the path to the SQLite subscriber database.
func (c *Config) DatabasePath() string {
	if c.Data.DatabasePath != "" {
		return c.Data.DatabasePath
	}
	return filepath.Join(c.Data.DataDir, "listdeck.db")
}

// PrefsPath returns the path to the UI preference store.
func (c *Config) PrefsPath() string {
	return filepath.Join(c.Data.DataDir, "prefs.toml")
}

// resolvePath expands ~ and resolves relative paths against base.
func resolvePath(path, base string) string {
	if path == "" {
		return path
	}
	path = expandPath(path)
	if !filepath.IsAbs(path) {
		return filepath.Join(base, path)
	}
	return path
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		// ~user notation is not supported
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
