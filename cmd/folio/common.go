package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/content"
	"github.com/vovakirdan/tui-folio/internal/storage"
)

// fatal prints an error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger returns a stderr logger for the non-interactive commands.
func newLogger(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           log.GetLevel(),
	})
}

// newTUILogger returns a logger that cannot corrupt the alternate screen:
// it writes to --log-file, or nowhere.
func newTUILogger(prefix string) (*log.Logger, func()) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		fatal("cannot open log file: %v", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           log.GetLevel(),
	})
	return logger, func() { f.Close() }
}

// loadConfig loads the configuration and applies --preset.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("loading config: %v", err)
	}
	if err := config.ApplyPreset(&cfg, flagPreset); err != nil {
		fatal("%v (available: %v)", err, config.PresetNames(cfg))
	}
	return cfg
}

// loadSite loads the portfolio content.
func loadSite() *content.Site {
	site, err := content.Load(flagContent)
	if err != nil {
		fatal("loading content: %v", err)
	}
	return site
}

// dbPath resolves the analytics database from --db or the configuration.
func dbPath(cfg config.Config) string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return cfg.Storage.Path
}

// openStore opens analytics storage. Failure is logged and yields nil;
// callers continue without analytics.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(dbPath(cfg))
	if err != nil {
		logger.Warn("could not open analytics database", "error", err)
		return nil
	}
	return store
}

// terminalSize returns the terminal size, or 80x24 when stdout is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
