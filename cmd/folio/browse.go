package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/content"
	"github.com/vovakirdan/tui-folio/internal/platform/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Scroll the portfolio",
	Long: `Scroll through the portfolio sections. The media of the section crossing
the upper third of the screen plays in the side panel; sections sharing a
media group crossfade into each other.

Section views are recorded in the analytics database (see 'folio stats').

Controls:
  Up/Down, j/k, wheel   - Scroll
  PgUp/PgDn, Space      - Scroll a page
  Tab/Shift+Tab         - Next/previous section
  g/G                   - Top/bottom
  R                     - Replay the media entry animation
  Q/Esc                 - Quit

Examples:
  folio browse
  folio browse --content ./site.yaml
  folio browse --config ./folio.yaml --db ./views.db`,
	Run: runBrowse,
}

func runBrowse(_ *cobra.Command, _ []string) {
	if err := browse(loadConfig(), loadSite()); err != nil {
		fatal("%v", err)
	}
}

func browse(cfg config.Config, site *content.Site) error {
	logger, closeLog := newTUILogger("folio-browse")
	defer closeLog()

	store := openStore(cfg, logger)
	if store != nil {
		defer store.Close()
	}

	return tui.RunBrowser(tui.BrowserOptions{
		Config: cfg,
		Site:   site,
		Store:  store,
		Logger: logger,
	})
}
