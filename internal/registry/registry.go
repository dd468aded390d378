// Package registry tracks the sessions running in a served process.
// The SSH server registers each player's session, and the HTTP surface
// looks them up for listing, export and spectating.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/cosmic-clicker/internal/game"
)

// ErrSlotBusy is returned when a slot already has a live session.
var ErrSlotBusy = errors.New("registry: slot already in play")

// Session is the part of a running session the registry exposes.
// *session.Session implements it.
type Session interface {
	// ID returns the unique session identifier.
	ID() string

	// Slot returns the save slot, which is also the player name when served.
	Slot() string

	// Snapshot returns the current state.
	Snapshot() game.State

	// Export encodes the current state as a save string.
	Export() (string, error)

	// Subscribe streams state updates until cancel is called.
	Subscribe(buffer int) (<-chan game.State, func())
}

// Info summarizes a live session for listings.
type Info struct {
	ID          string    `json:"id"`
	Slot        string    `json:"slot"`
	Epoch       int       `json:"epoch"`
	TotalClicks int       `json:"totalClicks"`
	Essence     float64   `json:"cosmicEssence"`
	StartedAt   time.Time `json:"startedAt"`
}

type entry struct {
	session   Session
	startedAt time.Time
}

// Registry holds live sessions keyed by ID, with at most one per slot.
// Thread-safe for concurrent access.
type Registry struct {
	mu     sync.RWMutex
	byID   map[string]entry
	bySlot map[string]string
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byID:   make(map[string]entry),
		bySlot: make(map[string]string),
	}
}

// Register adds a session. Returns ErrSlotBusy if its slot is taken.
func (r *Registry) Register(s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, taken := r.bySlot[s.Slot()]; taken && id != s.ID() {
		return fmt.Errorf("%w: %s", ErrSlotBusy, s.Slot())
	}
	r.byID[s.ID()] = entry{session: s, startedAt: time.Now()}
	r.bySlot[s.Slot()] = s.ID()
	return nil
}

// Unregister removes a session by ID.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	if r.bySlot[e.session.Slot()] == id {
		delete(r.bySlot, e.session.Slot())
	}
}

// Get retrieves a session by ID.
func (r *Registry) Get(id string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	return e.session, ok
}

// BySlot retrieves the live session playing a slot.
func (r *Registry) BySlot(slot string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.bySlot[slot]
	if !ok {
		return nil, false
	}
	return r.byID[id].session, true
}

// List returns information about all live sessions, sorted by slot.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Info, 0, len(r.byID))
	for id, e := range r.byID {
		st := e.session.Snapshot()
		result = append(result, Info{
			ID:          id,
			Slot:        e.session.Slot(),
			Epoch:       st.CurrentEpochIndex,
			TotalClicks: st.TotalClicks,
			Essence:     st.CosmicEssence,
			StartedAt:   e.startedAt,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Slot != result[j].Slot {
			return result[i].Slot < result[j].Slot
		}
		return result[i].ID < result[j].ID
	})

	return result
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
