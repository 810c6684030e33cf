package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
	"github.com/vovakirdan/tui-folio/internal/platform/tui"
)

var flagSnapshotDir string

var viewCmd = &cobra.Command{
	Use:   "view <image>",
	Short: "Show one image with the effect, fullscreen",
	Long: `Show an image fullscreen as an interactive dot grid.

Images may be files (PNG, JPEG, GIF, WebP), http(s) URLs or built-in
patterns (builtin:aurora, builtin:checker, builtin:gradient,
builtin:portrait, builtin:rings). Images from hosts not listed in
trusted_hosts are shown without the effect.

Controls:
  Mouse      - Disturb the dots
  R          - Replay the entry animation
  Ctrl+S     - Save a PNG snapshot (~/.folio/snapshots)
  Q/Esc      - Quit

Examples:
  folio view builtin:portrait
  folio view ./photo.jpg --preset hero
  folio view https://example.com/cover.webp`,
	Args: cobra.ExactArgs(1),
	Run:  runView,
}

func init() {
	viewCmd.Flags().StringVar(&flagSnapshotDir, "snapshots", "", "Directory for ctrl+s snapshots (default ~/.folio/snapshots)")
}

func runView(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	if err := viewImage(cfg, args[0]); err != nil {
		fatal("%v", err)
	}
}

// viewImage runs the fullscreen viewer. Its engine, store and log file are
// released before it returns, whatever the outcome.
func viewImage(cfg config.Config, ref string) error {
	cfg.Effect.FillContainer = true

	logger, closeLog := newTUILogger("folio-view")
	defer closeLog()

	engine := pixelgrid.New(cfg.Effect, pixelgrid.WithLogger(logger))
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := engine.Load(ctx, pixelgrid.NewLoader(cfg.TrustedHosts...), ref, pixelgrid.Size{})
	cancel()
	if err != nil {
		return err
	}

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	opts := tui.ViewerOptions{
		Source:      ref,
		Preset:      flagPreset,
		Terminal:    cfg.Terminal,
		Store:       store,
		SnapshotDir: flagSnapshotDir,
	}
	return tui.RunViewer(engine, opts)
}
