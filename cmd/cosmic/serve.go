package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/cosmic-clicker/internal/platform/tui"
	"github.com/vovakirdan/cosmic-clicker/internal/platform/web"
	"github.com/vovakirdan/cosmic-clicker/internal/registry"
)

var (
	flagSSHAddr       string
	flagHTTPAddr      string
	flagHostKey       string
	flagIdleTimeout   int
	flagSpectatorRate float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server, with an HTTP API for spectators",
	Long: `Start an SSH server that lets users connect and play.

Each SSH user plays the save slot named after them; a slot can only be open
in one session at a time. Saves live in the server's database.

The HTTP server exposes:
  /healthz                    - liveness check
  /metrics                    - Prometheus metrics
  /api/sessions               - live sessions
  /api/sessions/{id}/export   - save string of a live session
  /ws/sessions/{id}           - websocket stream of a live session

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.cosmic/host_key

Examples:
  cosmic serve                           # SSH on :23234, HTTP on :8080
  cosmic serve --ssh :2222 --http :9090
  cosmic serve --http ""                 # SSH only

Users can connect with:
  ssh alice@localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP server address (empty disables it)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().Float64Var(&flagSpectatorRate, "spectator-rate", 4, "Max state messages per second per spectator")
}

func runServe(_ *cobra.Command, _ []string) {
	logger := newLogger(os.Stderr)
	store := mustStore()
	defer store.Close()

	reducer := mustReducer()
	reg := registry.New()

	sshCfg := tui.DefaultSSHServerConfig()
	sshCfg.Address = flagSSHAddr
	sshCfg.HostKeyPath = flagHostKey
	sshCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	sshCfg.FPS = flagFPS

	sshServer, err := tui.NewSSHServer(sshCfg, tui.SSHDeps{
		Store:    store,
		Reducer:  reducer,
		Registry: reg,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- sshServer.Serve(ctx) }()

	if flagHTTPAddr != "" {
		httpServer := web.NewServer(web.Config{
			Address:       flagHTTPAddr,
			SpectatorRate: flagSpectatorRate,
		}, reg, logger)
		running++
		go func() { errCh <- httpServer.Serve(ctx) }()
	}

	fmt.Printf("Connect with: ssh <name>@localhost -p %s\n", portOf(flagSSHAddr))
	fmt.Println("Press Ctrl+C to stop")

	// The first failure stops everything
	var firstErr error
	for range running {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	if firstErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", firstErr)
		os.Exit(1)
	}
}

// portOf returns the port part of a listen address.
func portOf(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
