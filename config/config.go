// Package config holds the runtime settings shared by the game, the editor
// and the snapshot tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Store   StoreConfig   `yaml:"store"`
	Scene   string        `yaml:"scene"`
	Level   string        `yaml:"level"`
	Scaling string        `yaml:"scaling"`
	Scripts ScriptsConfig `yaml:"scripts"`
	Debug   bool          `yaml:"debug"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Resizable bool   `yaml:"resizable"`
}

// StoreConfig picks where the tile map is persisted. An empty Dir keeps it
// in memory for the life of the process.
type StoreConfig struct {
	Dir string `yaml:"dir"`
}

type ScriptsConfig struct {
	Watch bool   `yaml:"watch"`
	Dir   string `yaml:"dir"`
}

const (
	ScalingFixed      = "fixed"
	ScalingScreenSize = "screen_size"
)

func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:     "tileforge",
			Width:     1280,
			Height:    720,
			Resizable: true,
		},
		Store:   StoreConfig{Dir: "saves"},
		Scene:   "scene.yaml",
		Scaling: ScalingFixed,
		Scripts: ScriptsConfig{Watch: true, Dir: "prefabs/scripts"},
	}
}

// Load reads the YAML file at path over Default. A missing file is not an
// error when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	switch strings.ToLower(c.Scaling) {
	case ScalingFixed, ScalingScreenSize:
	default:
		errs = append(errs, fmt.Errorf("unknown scaling mode %q", c.Scaling))
	}
	if c.Scene == "" {
		errs = append(errs, errors.New("scene is empty"))
	}
	return errors.Join(errs...)
}
