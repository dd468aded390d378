package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/session"
	"github.com/vovakirdan/cosmic-clicker/internal/storage"
)

var (
	flagJumpEpoch int
	flagJumpSet   []string
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Edit saves offline",
	Long: `Developer tools that edit a save slot without playing it.
The slot must not be open in a running game.`,
}

var adminJumpCmd = &cobra.Command{
	Use:   "jump <slot>",
	Short: "Replace a slot with a fresh universe at an epoch",
	Long: `Replace the slot with a fresh universe at --epoch (1-based), holding the
resources given with --set.

Examples:
  cosmic admin jump default --epoch 6 --set Energy=1e9 --set Star=5e6`,
	Args: cobra.ExactArgs(1),
	Run:  runAdminJump,
}

var adminEventCmd = &cobra.Command{
	Use:   "event <slot> <event-id>",
	Short: "Start a random event in a slot",
	Args:  cobra.ExactArgs(2),
	Run:   runAdminEvent,
}

var adminResetCmd = &cobra.Command{
	Use:   "reset <slot>",
	Short: "Wipe a slot back to the Big Bang, essence included",
	Args:  cobra.ExactArgs(1),
	Run:   runAdminReset,
}

func init() {
	adminJumpCmd.Flags().IntVar(&flagJumpEpoch, "epoch", 1, "Epoch number to jump to (1-based)")
	adminJumpCmd.Flags().StringArrayVar(&flagJumpSet, "set", nil, "Resource amount as Name=value (repeatable)")

	adminCmd.AddCommand(adminJumpCmd)
	adminCmd.AddCommand(adminEventCmd)
	adminCmd.AddCommand(adminResetCmd)
}

func runAdminJump(_ *cobra.Command, args []string) {
	seed, err := parseLedger(flagJumpSet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	withSlot(args[0], func(sess *session.Session) error {
		return sess.Jump(flagJumpEpoch-1, seed)
	})
	fmt.Printf("Slot %s now starts at epoch %d\n", args[0], flagJumpEpoch)
}

func runAdminEvent(_ *cobra.Command, args []string) {
	withSlot(args[0], func(sess *session.Session) error {
		return sess.TriggerEvent(args[1])
	})
	fmt.Printf("Started %s in slot %s\n", args[1], args[0])
}

func runAdminReset(_ *cobra.Command, args []string) {
	withSlot(args[0], func(sess *session.Session) error {
		sess.Reset()
		return nil
	})
	fmt.Printf("Slot %s reset\n", args[0])
}

// withSlot opens slot in a headless session, applies edit and saves.
func withSlot(slot string, edit func(*session.Session) error) {
	reducer := mustReducer()
	store := mustStore()
	defer store.Close()

	sc := session.Config{
		Reducer: reducer,
		Slot:    slot,
		Store:   store,
		Logger:  newLogger(os.Stderr),
	}
	st, err := store.LoadGame(reducer.Catalog(), slot, time.Now().UnixMilli())
	switch {
	case err == nil:
		sc.Initial = &st
	case !errors.Is(err, storage.ErrNoSave):
		fmt.Fprintf(os.Stderr, "Error loading slot: %v\n", err)
		os.Exit(1)
	}

	sess := session.New(sc)
	if err := edit(sess); err != nil {
		sess.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// Close saves the edited state
	if err := sess.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving slot: %v\n", err)
		os.Exit(1)
	}
}

// parseLedger parses Name=value pairs into a resource ledger.
func parseLedger(pairs []string) (core.Ledger, error) {
	var l core.Ledger
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return l, fmt.Errorf("bad --set %q, want Name=value", p)
		}
		r, err := core.ParseResource(name)
		if err != nil {
			return l, err
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return l, fmt.Errorf("bad amount for %s: %w", name, err)
		}
		l = l.Add(r, v)
	}
	return l, nil
}
