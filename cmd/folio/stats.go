package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/platform/tui"
	"github.com/vovakirdan/tui-folio/internal/storage"
)

var flagPlain bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show section views and saved snapshots",
	Long: `Display how long visitors stayed on each section and the snapshots
saved from the viewer or the render command.

Examples:
  folio stats                # Interactive tables
  folio stats --plain        # Print to stdout
  folio stats --db views.db  # Read a specific database`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print tables instead of opening the TUI")
}

func runStats(_ *cobra.Command, _ []string) {
	if err := stats(loadConfig(), os.Stdout); err != nil {
		fatal("%v", err)
	}
}

// stats shows the analytics tables, as a TUI or printed to w with --plain.
func stats(cfg config.Config, w io.Writer) error {
	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		return fmt.Errorf("opening analytics database: %w", err)
	}
	defer store.Close()

	if !flagPlain {
		tw, th := terminalSize()
		return tui.RunStats(store, tw, th)
	}

	sections, err := store.TopSections(10)
	if err != nil {
		return fmt.Errorf("retrieving section views: %w", err)
	}
	fmt.Fprintln(w, "Section Views")
	fmt.Fprintln(w)
	if len(sections) == 0 {
		fmt.Fprintln(w, "No section views recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Run 'folio browse' to record some.")
	} else {
		fmt.Fprintf(w, "  %-16s  %-6s  %-10s  %s\n", "Section", "Views", "Dwell", "Last")
		fmt.Fprintf(w, "  %-16s  %-6s  %-10s  %s\n", "-------", "-----", "-----", "----")
		for _, s := range sections {
			fmt.Fprintf(w, "  %-16s  %-6d  %-10s  %s\n",
				s.SectionID, s.Views, s.TotalDwell.Round(time.Second), s.LastViewed.Format("2006-01-02 15:04"))
		}
	}

	snapshots, err := store.RecentSnapshots(10)
	if err != nil {
		return fmt.Errorf("retrieving snapshots: %w", err)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Recent Snapshots")
	fmt.Fprintln(w)
	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots yet.")
		return nil
	}
	fmt.Fprintf(w, "  %-4s  %-18s  %-9s  %s\n", "ID", "Source", "Size", "File")
	fmt.Fprintf(w, "  %-4s  %-18s  %-9s  %s\n", "--", "------", "----", "----")
	for _, s := range snapshots {
		fmt.Fprintf(w, "  %-4d  %-18s  %-9s  %s\n",
			s.ID, s.Source, fmt.Sprintf("%dx%d", s.Width, s.Height), filepath.Base(s.Path))
	}
	return nil
}
