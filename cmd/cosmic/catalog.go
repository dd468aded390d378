package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/platform/tui"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Summarize the game content",
	Long: `Summarize the loaded content: epochs, upgrades, events, achievements and
laws. Use --content to check a custom file.

Examples:
  cosmic catalog
  cosmic catalog --content my-universe.yaml
  cosmic catalog dump > my-universe.yaml`,
	Args: cobra.NoArgs,
	Run:  runCatalog,
}

var catalogDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the built-in content YAML, as a starting point for custom content",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		os.Stdout.Write(config.DefaultContentYAML())
	},
}

func init() {
	catalogCmd.AddCommand(catalogDumpCmd)
}

func runCatalog(_ *cobra.Command, _ []string) {
	cat := mustCatalog()

	fmt.Println("Epochs:")
	for i, e := range cat.Epochs {
		unlock := "start"
		if i > 0 {
			unlock = fmt.Sprintf("%s %s", tui.FormatNumber(e.UnlockCost, false), e.UnlockResource)
		}
		fmt.Printf("  %2d. %-24s %-12s %s\n", i+1, e.Name, e.Time, unlock)
	}

	fmt.Println()
	fmt.Printf("Upgrades:          %d\n", len(cat.Upgrades))
	fmt.Printf("Prestige upgrades: %d\n", len(cat.PrestigeUpgrades))
	fmt.Printf("Random events:     %d\n", len(cat.Events))
	fmt.Printf("Achievements:      %d\n", len(cat.Achievements))
	fmt.Printf("Cosmic laws:       %d\n", len(cat.Laws))

	fmt.Println()
	fmt.Println("Events:")
	for _, ev := range cat.Events {
		fmt.Printf("  %-18s %-22s %s, weight %g, from epoch %d\n",
			ev.ID, ev.Name, tui.FormatDuration(ev.DurationMs), ev.Weight, ev.RequiredEpoch+1)
	}
}
