// cosmic is an incremental clicker about the history of the universe,
// played in the terminal.
//
// Usage:
//
//	cosmic menu                 - Pick a save slot interactively
//	cosmic play [slot]          - Play a slot directly
//	cosmic serve                - Start the SSH and HTTP servers
//	cosmic saves                - List save slots
//	cosmic history [slot]       - Show past universe collapses
//	cosmic export <slot>        - Print a save string
//	cosmic import <slot> <save> - Load a save string into a slot
//	cosmic catalog              - Summarize the game content
//	cosmic admin ...            - Edit saves (jump epochs, force events)
//
// Global flags:
//
//	--db <path>        - Database path (default: ~/.cosmic/cosmic.db)
//	--slot <name>      - Save slot (default: "default")
//	--content <path>   - Custom content YAML
//	--settings <path>  - Settings file (default: ~/.cosmic/settings.yaml)
//	--fps <rate>       - Render rate (default: 10)
//	--seed <value>     - RNG seed for reproducible crits and events
//	--admin            - Enable the in-game admin panel
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
	"github.com/vovakirdan/cosmic-clicker/internal/storage"
)

var (
	// Global flags
	flagDBPath       string
	flagSlot         string
	flagContent      string
	flagSettingsPath string
	flagFPS          int
	flagSeed         int64
	flagAdmin        bool
	flagLogLevel     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cosmic",
	Short: "Cosmic Clicker - grow a universe from the Big Bang in your terminal",
	Long: `Cosmic Clicker is an incremental game about the history of the universe.
Click energy out of the void, buy upgrades, climb through the epochs and
collapse the universe for cosmic essence.

Available commands:
  menu     - Interactive save slot picker
  play     - Play a slot directly
  serve    - Start SSH server for remote play, with an HTTP API
  saves    - List or delete save slots
  history  - Show past universe collapses
  export   - Print a slot as a save string
  import   - Load a save string into a slot
  catalog  - Show or dump the game content
  admin    - Edit saves offline

Examples:
  cosmic menu
  cosmic play andromeda
  cosmic serve --ssh :2222 --http :8080
  cosmic history`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.cosmic/cosmic.db", "Path to the save database")
	rootCmd.PersistentFlags().StringVar(&flagSlot, "slot", "default", "Save slot name")
	rootCmd.PersistentFlags().StringVar(&flagContent, "content", "", "Path to custom content YAML")
	rootCmd.PersistentFlags().StringVar(&flagSettingsPath, "settings", "", "Path to settings file (default ~/.cosmic/settings.yaml)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 10, "Render rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().BoolVar(&flagAdmin, "admin", false, "Enable the in-game admin panel (F12)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(adminCmd)
}

// newLogger creates a logger writing to w at the --log-level level.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "cosmic",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// fileLogger logs to ~/.cosmic/cosmic.log, since the game owns the terminal.
// It falls back to discarding output.
func fileLogger() (*log.Logger, func()) {
	path := config.UserPath("cosmic.log")
	if path == "" {
		return newLogger(io.Discard), func() {}
	}
	//nolint:errcheck // OpenFile reports the failure below
	os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return newLogger(io.Discard), func() {}
	}
	return newLogger(f), func() { f.Close() }
}

// mustCatalog loads the content catalog or exits.
func mustCatalog() *config.Catalog {
	cat, err := config.LoadCatalog(flagContent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
		os.Exit(1)
	}
	return cat
}

// mustReducer builds the reducer over the loaded catalog or exits.
func mustReducer() *game.Reducer {
	return game.NewReducer(mustCatalog())
}

// mustStore opens the save database or exits.
func mustStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening save database: %v\n", err)
		os.Exit(1)
	}
	return store
}
