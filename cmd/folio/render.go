package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/core"
	"github.com/vovakirdan/tui-folio/internal/export"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
	"github.com/vovakirdan/tui-folio/internal/storage"
)

var (
	flagOutput   string
	flagAt       time.Duration
	flagPointer  string
	flagFrames   int
	flagDuration time.Duration
	flagWidth    float64
	flagHeight   float64
)

var renderCmd = &cobra.Command{
	Use:   "render <image>",
	Short: "Render frames to PNG or GIF",
	Long: `Render the effect headlessly on a synthetic clock.

A .png output gets the single frame at --at; a .gif output gets --frames
frames spread over --duration, which shows the entry reveal when the
preset enables it. --pointer holds the pointer at x,y (logical pixels)
from the first frame.

PNG renders are recorded as snapshots in the analytics database.

Examples:
  folio render builtin:portrait -o portrait.png
  folio render ./photo.jpg -o hover.png --pointer 160,100 --at 1s
  folio render builtin:rings -o reveal.gif --preset reveal --duration 2s`,
	Args: cobra.ExactArgs(1),
	Run:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&flagOutput, "output", "o", "folio.png", "Output file (.png or .gif)")
	renderCmd.Flags().DurationVar(&flagAt, "at", 0, "Elapsed time of a PNG frame (default: after the entry animation)")
	renderCmd.Flags().StringVar(&flagPointer, "pointer", "", "Pointer position x,y in logical pixels")
	renderCmd.Flags().IntVar(&flagFrames, "frames", 24, "GIF frame count")
	renderCmd.Flags().DurationVar(&flagDuration, "duration", 2*time.Second, "GIF duration")
	renderCmd.Flags().Float64Var(&flagWidth, "width", 0, "Surface width (default from config)")
	renderCmd.Flags().Float64Var(&flagHeight, "height", 0, "Surface height (default from config)")
}

func runRender(_ *cobra.Command, args []string) {
	if err := renderImage(loadConfig(), args[0], newLogger("folio-render")); err != nil {
		fatal("%v", err)
	}
}

// renderImage writes ref to --output and records PNG renders as snapshots.
func renderImage(cfg config.Config, ref string, logger *log.Logger) error {
	effect := cfg.Effect
	effect.FillContainer = false
	effect.Responsive = false
	if flagWidth > 0 {
		effect.Width = flagWidth
	}
	if flagHeight > 0 {
		effect.Height = flagHeight
	}

	pointer, err := parsePointer(flagPointer)
	if err != nil {
		return err
	}

	engine := pixelgrid.New(effect, pixelgrid.WithLogger(logger))
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = engine.Load(ctx, pixelgrid.NewLoader(cfg.TrustedHosts...), ref, pixelgrid.Size{})
	cancel()
	if err != nil {
		return err
	}

	f, err := os.Create(flagOutput)
	if err != nil {
		return fmt.Errorf("cannot create output: %w", err)
	}
	defer f.Close()

	isGIF := strings.EqualFold(filepath.Ext(flagOutput), ".gif")
	if isGIF {
		err = export.GIF(f, engine, flagFrames, flagDuration, pointer)
	} else {
		at := flagAt
		if at == 0 {
			at = effect.EntryDelay + effect.EntryStagger + effect.EntryDuration + 100*time.Millisecond
		}
		err = export.PNG(f, engine, export.Options{At: at, Pointer: pointer})
	}
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	w, h := engine.Surface().Backing()
	logger.Info("rendered", "output", flagOutput, "width", w, "height", h, "fallback", engine.Fallback())

	if isGIF {
		return nil
	}
	store := openStore(cfg, logger)
	if store == nil {
		return nil
	}
	defer store.Close()
	path, _ := filepath.Abs(flagOutput)
	if _, err := store.SaveSnapshot(storage.Snapshot{
		Source: ref,
		Preset: flagPreset,
		Path:   path,
		Width:  w,
		Height: h,
	}); err != nil {
		logger.Warn("could not record snapshot", "error", err)
	}
	return nil
}

// parsePointer parses "x,y". An empty string means no pointer.
func parsePointer(s string) (*core.Vec, error) {
	if s == "" {
		return nil, nil
	}
	var x, y float64
	if _, err := fmt.Sscanf(s, "%g,%g", &x, &y); err != nil {
		return nil, fmt.Errorf("invalid --pointer %q, expected x,y", s)
	}
	p := core.V(x, y)
	return &p, nil
}
