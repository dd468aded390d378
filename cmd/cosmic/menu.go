package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cosmic-clicker/internal/platform/tui"
	"github.com/vovakirdan/cosmic-clicker/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a save slot from a menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to play a slot or to name a new
universe. Tab opens the collapse history. After quitting a game you return
to the menu.

Examples:
  cosmic menu
  cosmic menu --db ./cosmic.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open save database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	reducer := mustReducer()
	cfg := runtimeConfig()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}

		// Update config with any size changes
		cfg = menuResult.Config

		switch {
		case menuResult.Quit:
			return

		case menuResult.WantsHistory:
			goBack, err := tui.RunHistory(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return
			}
			if !goBack {
				return
			}

		default:
			if err := playSlot(store, reducer, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
				return
			}
		}
	}
}
