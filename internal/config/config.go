package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const FileName = ".scenedit.toml"

type Config struct {
	SaveDirectory string        `toml:"save_directory" env:"SAVE_DIR"`
	Grid          GridConfig    `toml:"grid" envPrefix:"GRID_"`
	View          ViewConfig    `toml:"view"`
	Logging       LoggingConfig `toml:"logging" envPrefix:"LOG_"`
}

type GridConfig struct {
	Visible bool `toml:"visible" env:"VISIBLE"`
	Size    int  `toml:"size" env:"SIZE"`
	Snap    bool `toml:"snap" env:"SNAP"`
}

// ViewConfig sets how many scene units one terminal cell covers.
type ViewConfig struct {
	CellWidth  int `toml:"cell_width"`
	CellHeight int `toml:"cell_height"`
}

type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`
	Format string `toml:"format" env:"FORMAT"` // "json" or "console"
	File   string `toml:"file" env:"FILE"`     // empty disables logging
}

func Defaults() *Config {
	return &Config{
		Grid: GridConfig{
			Visible: true,
			Size:    20,
		},
		View: ViewConfig{
			CellWidth:  10,
			CellHeight: 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// DefaultPath is ~/.scenedit.toml, or "" when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load reads path over the defaults and then applies SCENEDIT_* environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SCENEDIT_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Grid.Size < 1 {
		c.Grid.Size = 1
	}
	if c.View.CellWidth < 1 {
		c.View.CellWidth = 1
	}
	if c.View.CellHeight < 1 {
		c.View.CellHeight = 1
	}
	if c.SaveDirectory != "" {
		c.SaveDirectory = expandHome(c.SaveDirectory)
		if abs, err := filepath.Abs(c.SaveDirectory); err == nil {
			c.SaveDirectory = abs
		}
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// GetSavePath resolves filename against the save directory. Absolute names
// are used as given.
func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
