package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cosmic-clicker/internal/platform/tui"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history [slot]",
	Short: "Show the largest universe collapses",
	Long: `Display the largest collapses, for one slot or for every slot.

Examples:
  cosmic history
  cosmic history andromeda --limit 5`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of collapses to show")
}

func runHistory(_ *cobra.Command, args []string) {
	slot := ""
	if len(args) == 1 {
		slot = args[0]
	}

	store := mustStore()
	defer store.Close()

	entries, err := store.TopCollapses(slot, flagHistoryLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		os.Exit(1)
	}

	if slot == "" {
		fmt.Println("Singularity History - all slots")
	} else {
		fmt.Printf("Singularity History - %s\n", slot)
	}
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No collapses recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-16s  %-10s  %-10s  %s\n", "Rank", "Slot", "Essence", "Stars", "Date")
	fmt.Printf("  %-4s  %-16s  %-10s  %-10s  %s\n", "----", "----", "-------", "-----", "----")
	for i, e := range entries {
		fmt.Printf("  %-4d  %-16s  %-10s  %-10s  %s\n", i+1, e.Slot,
			tui.FormatNumber(e.EssenceGained, false),
			tui.FormatNumber(e.TotalStarsEver, false),
			e.CreatedAt.Format("2006-01-02 15:04"))
	}

	if slot != "" {
		stats, err := store.GetCollapseStats(slot)
		if err == nil && stats.Count > 0 {
			fmt.Println()
			fmt.Printf("  %d collapses, %s essence in total, best %s\n",
				stats.Count, tui.FormatNumber(stats.TotalEssence, false), tui.FormatNumber(stats.BestCollapse, false))
		}
	}
}
