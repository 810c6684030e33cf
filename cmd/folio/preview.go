package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
	"github.com/vovakirdan/tui-folio/internal/platform/web"
)

var (
	flagPreviewAddr string
	flagPreviewFPS  int
)

var previewCmd = &cobra.Command{
	Use:   "preview [image]",
	Short: "Stream the effect to a browser",
	Long: `Start an HTTP server that streams the effect to a browser canvas.

Each browser tab gets its own engine. Mouse movement over the canvas drives
the pointer, resizing the window resizes the surface, and a click replays
the entry animation.

Without an image argument the built-in aurora image is used. Without
--preset the preview preset from the configuration applies.

Examples:
  folio preview                               # builtin:aurora on :8080
  folio preview ./photo.jpg --addr :9000
  folio preview builtin:rings --preset ambient --fps 60`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&flagPreviewAddr, "addr", "", "HTTP listen address (default from config)")
	previewCmd.Flags().IntVar(&flagPreviewFPS, "fps", 0, "Frames streamed per second (default from config)")
}

func runPreview(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	if flagPreset == "" && cfg.Preview.Preset != "" {
		if err := config.ApplyPreset(&cfg, cfg.Preview.Preset); err != nil {
			fatal("%v (available: %v)", err, config.PresetNames(cfg))
		}
	}

	source := "builtin:aurora"
	if len(args) == 1 {
		source = args[0]
	}
	addr := cfg.Preview.Addr
	if flagPreviewAddr != "" {
		addr = flagPreviewAddr
	}
	fps := cfg.Preview.FPS
	if flagPreviewFPS > 0 {
		fps = flagPreviewFPS
	}

	logger := newLogger("folio-preview")
	server := web.NewServer(web.Options{
		Addr:   addr,
		FPS:    fps,
		Effect: cfg.Effect,
		Source: source,
		Loader: pixelgrid.NewLoader(cfg.TrustedHosts...),
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	fmt.Printf("Open http://localhost:%s in a browser\n", portOf(addr))
	fmt.Println("Press Ctrl+C to stop")

	err := server.ListenAndServe(ctx)
	stop()
	if err != nil {
		fatal("server error: %v", err)
	}
}
