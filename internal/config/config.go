// Package config provides YAML-based configuration loading and named
// effect presets for folio.
package config

import (
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
)

// Config is the complete application configuration.
type Config struct {
	Effect       pixelgrid.Config     `yaml:"effect"`
	Presets      map[string]yaml.Node `yaml:"presets"` // partial effect overrides
	TrustedHosts []string             `yaml:"trusted_hosts"`
	Terminal     TerminalConfig       `yaml:"terminal"`
	Scroll       ScrollConfig         `yaml:"scroll"`
	Preview      PreviewConfig        `yaml:"preview"`
	Storage      StorageConfig        `yaml:"storage"`
}

// TerminalConfig maps terminal cells onto the logical effect surface.
type TerminalConfig struct {
	CellWidth  int `yaml:"cell_width"`  // logical px per column
	CellHeight int `yaml:"cell_height"` // logical px per row
	FPS        int `yaml:"fps"`         // host clock rate
}

// ScrollConfig tunes the portfolio browser.
type ScrollConfig struct {
	SpringFrequency float64 `yaml:"spring_frequency"`
	SpringDamping   float64 `yaml:"spring_damping"`
	LineStep        int     `yaml:"line_step"`   // lines per up/down key
	MediaWidth      int     `yaml:"media_width"` // side panel columns
	MediaPreset     string  `yaml:"media_preset"`
}

// PreviewConfig configures the browser preview server.
type PreviewConfig struct {
	Addr   string `yaml:"addr"`
	FPS    int    `yaml:"fps"`
	Preset string `yaml:"preset"`
}

// StorageConfig locates the analytics database.
type StorageConfig struct {
	Path string `yaml:"path"` // empty = ~/.folio/folio.db
}
