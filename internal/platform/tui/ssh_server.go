package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
	"github.com/vovakirdan/cosmic-clicker/internal/registry"
	"github.com/vovakirdan/cosmic-clicker/internal/session"
	"github.com/vovakirdan/cosmic-clicker/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.cosmic/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// FPS is the render rate of remote sessions.
	FPS int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		FPS:         10,
	}
}

// SSHDeps are the shared services remote sessions are built from.
type SSHDeps struct {
	Store    *storage.Store // optional
	Reducer  *game.Reducer
	Registry *registry.Registry
	Logger   *log.Logger
}

// SSHServer wraps a Wish SSH server. Every connection plays the save slot
// named after its SSH user.
type SSHServer struct {
	config SSHServerConfig
	deps   SSHDeps
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, deps SSHDeps) (*SSHServer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("ssh")

	srv := &SSHServer{
		config: cfg,
		deps:   deps,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".cosmic", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler starts a game session for each SSH connection.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "cosmic clicker needs an interactive terminal (ssh -t)")
		return nil, nil
	}

	slot := sshSession.User()
	if _, busy := s.deps.Registry.BySlot(slot); busy {
		wish.Fatalln(sshSession, "universe "+slot+" is already open in another session")
		return nil, nil
	}

	sess, err := s.openSession(slot)
	if err != nil {
		s.logger.Error("could not start session", "user", slot, "error", err)
		wish.Fatalln(sshSession, "could not load your universe: "+err.Error())
		return nil, nil
	}
	if err := s.deps.Registry.Register(sess); err != nil {
		sess.Close()
		wish.Fatalln(sshSession, err.Error())
		return nil, nil
	}

	go func() {
		<-sshSession.Context().Done()
		s.deps.Registry.Unregister(sess.ID())
		if err := sess.Close(); err != nil {
			s.logger.Warn("final save failed", "user", slot, "error", err)
		}
	}()

	cfg := core.RuntimeConfig{
		ScreenW: pty.Window.Width,
		ScreenH: pty.Window.Height,
		FPS:     s.config.FPS,
		Slot:    slot,
	}

	model := NewModel(Options{
		Session:  sess,
		Config:   cfg,
		Settings: config.DefaultSettings(),
		Bell:     sshSession,
		Logger:   s.logger,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// openSession loads slot from storage, or starts a fresh universe.
func (s *SSHServer) openSession(slot string) (*session.Session, error) {
	cfg := session.Config{
		Reducer: s.deps.Reducer,
		Slot:    slot,
		Logger:  s.logger,
	}
	if s.deps.Store != nil {
		cfg.Store = s.deps.Store
		st, err := s.deps.Store.LoadGame(s.deps.Reducer.Catalog(), slot, time.Now().UnixMilli())
		switch {
		case err == nil:
			cfg.Initial = &st
		case !errors.Is(err, storage.ErrNoSave):
			return nil, err
		}
	}
	return session.New(cfg), nil
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// Serve runs the SSH server until ctx is cancelled, then shuts it down.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
