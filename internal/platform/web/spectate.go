package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/cosmic-clicker/internal/game"
	"github.com/vovakirdan/cosmic-clicker/internal/metrics"
)

// Message is the JSON envelope of every spectator frame.
type Message struct {
	Type    string `json:"type"`    // "state" or "ended"
	Payload any    `json:"payload"` // game.State for "state"
	Sender  string `json:"sender"`  // session ID
}

const (
	spectatorBuffer = 16
	writeWait       = 10 * time.Second
)

// upgrader configures the WebSocket handshake. Spectating is read-only, so
// any origin may connect.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleSpectate upgrades the request and streams the session's states.
func (s *Server) handleSpectate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.registry.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	updates, cancel := sess.Subscribe(spectatorBuffer)
	metrics.Spectators.Inc()
	s.logger.Info("spectator joined", "id", sess.ID(), "slot", sess.Slot())

	ctx, stop := context.WithCancel(context.Background())
	go readPump(conn, stop)

	c := &spectator{
		conn:    conn,
		id:      sess.ID(),
		limiter: rate.NewLimiter(rate.Limit(s.config.SpectatorRate), 1),
	}
	c.writePump(ctx, updates)

	cancel()
	stop()
	conn.Close()
	metrics.Spectators.Dec()
	s.logger.Info("spectator left", "id", sess.ID())
}

// spectator is one websocket connection watching a session.
type spectator struct {
	conn    *websocket.Conn
	id      string
	limiter *rate.Limiter
}

// readPump discards incoming frames and stops the spectator when the
// connection closes.
func readPump(conn *websocket.Conn, stop context.CancelFunc) {
	defer stop()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends the newest state at most at the limiter's rate. States
// that arrive while waiting are coalesced into the latest one.
func (c *spectator) writePump(ctx context.Context, updates <-chan game.State) {
	for {
		var st game.State
		select {
		case <-ctx.Done():
			return
		case next, ok := <-updates:
			if !ok {
				c.send(Message{Type: "ended", Sender: c.id})
				return
			}
			st = next
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return
		}
		st, open := latest(st, updates)
		if err := c.send(Message{Type: "state", Payload: st, Sender: c.id}); err != nil {
			return
		}
		if !open {
			c.send(Message{Type: "ended", Sender: c.id})
			return
		}
	}
}

// latest drains queued updates and returns the newest state, and whether
// the channel is still open.
func latest(st game.State, updates <-chan game.State) (game.State, bool) {
	for {
		select {
		case next, ok := <-updates:
			if !ok {
				return st, false
			}
			st = next
		default:
			return st, true
		}
	}
}

func (c *spectator) send(msg Message) error {
	//nolint:errcheck // Deadline errors surface on the write below
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}
