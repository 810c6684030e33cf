package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
)

// ErrUnknownPreset is returned when a preset name is not configured.
var ErrUnknownPreset = errors.New("unknown preset")

// fileName is the configuration file looked up in each search location.
const fileName = "folio.yaml"

// Load loads the folio configuration.
// Search order: customPath -> ~/.folio/configs/folio.yaml -> ./configs/folio.yaml -> embedded default
//
// YAML is decoded over Default(), so a file only needs the keys it changes.
func Load(customPath string) (Config, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return Default(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return Default(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(fileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultFolioYAML)
	if err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes data over the hardcoded defaults.
func parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	cfg.Effect = cfg.Effect.Normalize()
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := UserDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// UserDir returns ~/.folio, or empty if home is unavailable.
func UserDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".folio")
}

// ApplyPreset decodes the named preset over cfg.Effect. An empty name is a
// no-op.
func ApplyPreset(cfg *Config, name string) error {
	if name == "" {
		return nil
	}
	node, ok := cfg.Presets[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	if err := node.Decode(&cfg.Effect); err != nil {
		return fmt.Errorf("failed to apply preset %s: %w", name, err)
	}
	cfg.Effect = cfg.Effect.Normalize()
	return nil
}

// PresetNames returns the configured preset names, sorted.
func PresetNames(cfg Config) []string {
	names := make([]string, 0, len(cfg.Presets))
	for name := range cfg.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Effect returns the effect configuration with the named preset applied,
// leaving cfg untouched.
func Effect(cfg Config, preset string) (pixelgrid.Config, error) {
	c := cfg
	if err := ApplyPreset(&c, preset); err != nil {
		return cfg.Effect, err
	}
	return c.Effect, nil
}
