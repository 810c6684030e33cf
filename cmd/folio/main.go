// folio is a terminal portfolio whose images are drawn as an interactive
// grid of dots that react to the mouse.
//
// Usage:
//
//	folio view <image>     - Show one image with the effect, fullscreen
//	folio browse           - Scroll the portfolio with media in a side panel
//	folio render <image>   - Render a PNG frame or a GIF of the entry reveal
//	folio serve            - Start SSH server hosting the portfolio
//	folio preview [image]  - Stream the effect to a browser
//	folio stats            - Show section views and saved snapshots
//	folio list             - List sections, projects, presets and images
//
// Global flags:
//
//	--config <path>     - Configuration YAML (default: search order)
//	--content <path>    - Site content YAML (default: search order)
//	--preset <name>     - Effect preset from the configuration
//	--db <path>         - Analytics database (default: ~/.folio/folio.db)
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Log destination while a TUI is running
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagContent  string
	flagPreset   string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - a portfolio in your terminal",
	Long: `folio renders a portfolio in the terminal. Every image is sampled into a
grid of dots coloured by the pixels underneath; the dots drift away from
the mouse, reveal themselves on entry and crossfade as you scroll.

Available commands:
  view     - Show one image with the effect
  browse   - Scroll the portfolio
  render   - Render frames to PNG or GIF
  serve    - Start SSH server hosting the portfolio
  preview  - Stream the effect to a browser
  stats    - Section views and saved snapshots
  list     - Sections, projects, presets and built-in images

Examples:
  folio view builtin:portrait --preset portrait
  folio browse
  folio render ./photo.jpg -o photo.png --at 1.5s
  folio serve --ssh :2222
  folio preview builtin:aurora --addr :8080`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if lvl, err := log.ParseLevel(flagLogLevel); err == nil {
			log.SetLevel(lvl)
		}
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagContent, "content", "", "Path to site content YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Effect preset name")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to analytics database (default ~/.folio/folio.db)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file used while a TUI is running (default: discard)")

	// Add subcommands
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(listCmd)
}
