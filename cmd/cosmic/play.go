package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
	"github.com/vovakirdan/cosmic-clicker/internal/platform/tui"
	"github.com/vovakirdan/cosmic-clicker/internal/session"
	"github.com/vovakirdan/cosmic-clicker/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [slot]",
	Short: "Play a save slot",
	Long: `Start playing the given save slot, or the --slot flag if none is given.
A slot that was never saved starts a fresh universe.

Controls:
  Space       - Collapse energy from the void (click)
  Enter/B     - Buy the selected upgrade
  A           - Advance to the next epoch
  P           - Collapse the universe (from Galaxy Formation)
  C           - Catch a passing comet
  Tab         - Switch panel
  S           - Settings
  Ctrl+S      - Save now
  ?           - Help
  Q/Ctrl+C    - Save and quit

Examples:
  cosmic play
  cosmic play andromeda
  cosmic play --seed 42 --admin`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := runtimeConfig()
	if len(args) == 1 {
		cfg.Slot = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save database: %v\n", err)
		// Continue without storage - the game still works, in memory only
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	if err := playSlot(store, mustReducer(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}

// runtimeConfig builds the runtime config from the global flags and the
// terminal size.
func runtimeConfig() core.RuntimeConfig {
	width, height := 100, 32 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		FPS:     flagFPS,
		Seed:    flagSeed,
		Slot:    flagSlot,
		Admin:   flagAdmin,
	}.Normalize()
}

// playSlot runs the game screen on cfg.Slot until the player quits.
func playSlot(store *storage.Store, reducer *game.Reducer, cfg core.RuntimeConfig) error {
	logger, closeLog := fileLogger()
	defer closeLog()

	settings, err := config.LoadSettings(flagSettingsPath)
	if err != nil {
		logger.Warn("using default settings", "error", err)
	}

	sess, err := openSession(store, reducer, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("session started", "slot", cfg.Slot, "id", sess.ID())

	settingsPath := flagSettingsPath
	if settingsPath == "" {
		settingsPath = config.UserPath("settings.yaml")
	}

	runErr := tui.Run(tui.Options{
		Session:      sess,
		Config:       cfg,
		Settings:     settings,
		SettingsPath: settingsPath,
		Bell:         os.Stdout,
		Logger:       logger,
	})

	// Close saves the final state
	if err := sess.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: final save failed: %v\n", err)
	}
	return runErr
}

// openSession loads slot from store, or starts a fresh universe when the
// slot is empty or there is no store.
func openSession(store *storage.Store, reducer *game.Reducer, cfg core.RuntimeConfig, logger *log.Logger) (*session.Session, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sc := session.Config{
		Reducer: reducer,
		Slot:    cfg.Slot,
		Rand:    rand.New(rand.NewSource(seed)),
		Logger:  logger,
	}
	if store != nil {
		sc.Store = store
		st, err := store.LoadGame(reducer.Catalog(), cfg.Slot, time.Now().UnixMilli())
		switch {
		case err == nil:
			sc.Initial = &st
		case errors.Is(err, storage.ErrNoSave):
			logger.Info("starting a new universe", "slot", cfg.Slot)
		default:
			return nil, fmt.Errorf("cannot load slot %s: %w", cfg.Slot, err)
		}
	}
	return session.New(sc), nil
}
