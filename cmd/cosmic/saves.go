package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cosmic-clicker/internal/platform/tui"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List save slots",
	Long: `Display every save slot with its epoch, clicks and cosmic essence.

Examples:
  cosmic saves
  cosmic saves delete andromeda`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

var deleteSaveCmd = &cobra.Command{
	Use:   "delete <slot>",
	Short: "Delete a save slot (its collapse history is kept)",
	Args:  cobra.ExactArgs(1),
	Run:   runDeleteSave,
}

func init() {
	savesCmd.AddCommand(deleteSaveCmd)
}

func runSaves(_ *cobra.Command, _ []string) {
	store := mustStore()
	defer store.Close()

	saves, err := store.ListSaves()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing saves: %v\n", err)
		os.Exit(1)
	}

	if len(saves) == 0 {
		fmt.Println("No saves yet.")
		fmt.Println()
		fmt.Println("Run 'cosmic play' to begin a universe!")
		return
	}

	cat := mustCatalog()

	fmt.Printf("  %-16s  %-24s  %-8s  %-8s  %s\n", "Slot", "Epoch", "Clicks", "Essence", "Saved")
	fmt.Printf("  %-16s  %-24s  %-8s  %-8s  %s\n", "----", "-----", "------", "-------", "-----")
	for _, s := range saves {
		epoch := fmt.Sprintf("#%d", s.Epoch+1)
		if s.Epoch < len(cat.Epochs) {
			epoch = cat.Epochs[s.Epoch].Name
		}
		fmt.Printf("  %-16s  %-24s  %-8d  %-8s  %s\n",
			s.Slot, epoch, s.TotalClicks, tui.FormatNumber(s.Essence, false), s.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func runDeleteSave(_ *cobra.Command, args []string) {
	store := mustStore()
	defer store.Close()

	if err := store.DeleteSave(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting save: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted slot %s\n", args[0])
}
