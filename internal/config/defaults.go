package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
)

//go:embed defaults/folio.yaml
var defaultFolioYAML []byte

// Default returns the hardcoded configuration used when no YAML source is
// usable. It carries no presets.
func Default() Config {
	effect := pixelgrid.DefaultConfig()
	effect.FillContainer = true
	effect.CellSize = 6
	effect.EntryAnimation = true
	effect.EntryDuration = 900 * time.Millisecond
	effect.EntryStagger = 600 * time.Millisecond

	return Config{
		Effect: effect,
		Terminal: TerminalConfig{
			CellWidth:  4,
			CellHeight: 8,
			FPS:        30,
		},
		Scroll: ScrollConfig{
			SpringFrequency: 6.0,
			SpringDamping:   0.9,
			LineStep:        3,
			MediaWidth:      44,
		},
		Preview: PreviewConfig{
			Addr: "localhost:8080",
			FPS:  30,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultFolioYAML
}
