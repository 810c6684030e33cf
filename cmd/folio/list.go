package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sections, projects, presets and built-in images",
	Long:  `Shows the portfolio sections with their media, the projects, the effect presets and the built-in images.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	site := loadSite()

	fmt.Printf("%s - %s\n", site.Title, site.Tagline)
	fmt.Println()

	fmt.Println("Sections:")
	fmt.Println()
	maxIDLen := 2 // "ID" header
	for _, s := range site.Sections {
		maxIDLen = max(maxIDLen, len(s.ID))
	}
	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "ID", "Title", "Media")
	fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, "--", "-----", "-----")
	for _, s := range site.Sections {
		media := "-"
		if s.Media.HasImage() {
			media = s.Media.Image
			if s.Media.Group != "" {
				media += " (" + s.Media.Group + ")"
			}
		}
		fmt.Printf("  %-*s  %-24s  %s\n", maxIDLen, s.ID, s.Title, media)
	}

	if len(site.Projects) > 0 {
		fmt.Println()
		fmt.Println("Projects:")
		fmt.Println()
		for _, p := range site.Projects {
			fmt.Printf("  %d  %s\n", p.Year, p.Name)
		}
	}

	fmt.Println()
	fmt.Println("Presets:")
	fmt.Println()
	for _, name := range config.PresetNames(cfg) {
		fmt.Printf("  %s\n", name)
	}

	fmt.Println()
	fmt.Println("Built-in images:")
	fmt.Println()
	for _, name := range pixelgrid.BuiltinNames() {
		fmt.Printf("  builtin:%s\n", name)
	}

	fmt.Println()
	fmt.Println("Run 'folio view builtin:<name> --preset <preset>' to try one.")
}
