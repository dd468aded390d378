// Package session drives one game: it owns the current state, dispatches
// player intents and timer actions to the reducer, and persists the result.
// Sessions are created when a game starts and torn down with Close; nothing
// here is global.
package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
	"github.com/vovakirdan/cosmic-clicker/internal/metrics"
	"github.com/vovakirdan/cosmic-clicker/internal/savefile"
	"github.com/vovakirdan/cosmic-clicker/internal/storage"
)

var (
	// ErrUnknownEvent is returned when an admin trigger names no catalog event.
	ErrUnknownEvent = errors.New("session: unknown event")
	// ErrEpochRange is returned by Jump for an epoch outside the catalog.
	ErrEpochRange = errors.New("session: epoch out of range")
)

// Store persists sessions. *storage.Store satisfies it.
type Store interface {
	SaveGame(slot string, st game.State) error
	RecordCollapse(e storage.CollapseEntry) (int64, error)
}

// Config holds the dependencies of a session.
type Config struct {
	Reducer *game.Reducer
	Slot    string
	Store   Store       // optional; nil keeps the game in memory only
	Clock   Clock       // defaults to RealClock
	Rand    game.Rand   // defaults to a time-seeded source
	Logger  *log.Logger // defaults to log.Default()
	Initial *game.State // nil starts a fresh universe
}

// ClickResult reports what a click did.
type ClickResult struct {
	Critical bool
	Delta    core.Ledger // resource change, negative where a conversion consumed
}

// Session owns the state cell of one game. All methods are safe for
// concurrent use; each action is applied to completion before the next.
type Session struct {
	id      string
	slot    string
	reducer *game.Reducer
	cat     *config.Catalog
	store   Store
	clock   Clock
	rng     game.Rand
	logger  *log.Logger

	mu        sync.Mutex
	state     game.State
	version   uint64
	published uint64
	paused    map[PauseReason]bool
	notices   []Notice
	closed    bool

	// Timers, as unix millis when they are next due.
	nextTick      int64
	nextEventRoll int64
	nextComet     int64
	nextSave      int64
	cometUntil    int64

	subs    map[int]chan game.State
	nextSub int
}

// New creates a session and arms its timers.
func New(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(cfg.Clock.Now().UnixNano()))
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Slot == "" {
		cfg.Slot = "default"
	}

	s := &Session{
		id:      uuid.NewString(),
		slot:    cfg.Slot,
		reducer: cfg.Reducer,
		cat:     cfg.Reducer.Catalog(),
		store:   cfg.Store,
		clock:   cfg.Clock,
		rng:     cfg.Rand,
		logger:  cfg.Logger.WithPrefix("session"),
		paused:  make(map[PauseReason]bool),
		subs:    make(map[int]chan game.State),
	}

	now := s.now()
	if cfg.Initial != nil {
		s.state = *cfg.Initial
	} else {
		s.state = game.NewState(now)
	}
	s.arm(now)
	if c := s.cat.Constants; c.AutosaveIntervalMs > 0 {
		s.nextSave = now + c.AutosaveIntervalMs
	}

	metrics.ActiveSessions.Inc()
	s.logger.Debug("session started", "id", s.id, "slot", s.slot)
	return s
}

// ID returns the unique session identifier.
func (s *Session) ID() string { return s.id }

// Slot returns the save slot the session persists to.
func (s *Session) Slot() string { return s.slot }

// Catalog returns the content the session plays.
func (s *Session) Catalog() *config.Catalog { return s.cat }

// Snapshot returns the current state. Its maps are shared and must not be
// written.
func (s *Session) Snapshot() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Notices drains the queued notices.
func (s *Session) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notices
	s.notices = nil
	return n
}

// Advance fires every timer that is due at now. The TUI calls it on each
// frame and Run calls it from a ticker.
//
// Production ticks, event rolls and comets are suppressed while paused.
// Event and bonus expiry are not: they follow the wall clock.
func (s *Session) Advance(now time.Time) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	ms := now.UnixMilli()
	c := s.cat.Constants

	if !s.pausedLocked() {
		if ms >= s.nextTick {
			s.tick(ms)
			s.nextTick = ms + c.TickIntervalMs
		}
		if c.RandomEventIntervalMs > 0 && ms >= s.nextEventRoll {
			s.rollEvent(ms)
			s.nextEventRoll = ms + c.RandomEventIntervalMs
		}
		if c.CometIntervalMs > 0 && ms >= s.nextComet {
			s.cometUntil = ms + c.CometWindowMs
			s.nextComet = ms + c.CometIntervalMs
		}
	}

	s.expire(ms)
	s.detect(ms)

	if c.AutosaveIntervalMs > 0 && ms >= s.nextSave {
		s.saveLocked()
		s.nextSave = ms + c.AutosaveIntervalMs
	}

	s.publish()
	metrics.AdvanceDuration.Observe(time.Since(start).Seconds())
}

// Run advances the session from a ticker until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	interval := time.Duration(s.cat.Constants.TickIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Advance(s.clock.Now())
		}
	}
}

// Click registers one click, rolling for a critical hit.
func (s *Session) Click() ClickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now()
	before := s.state.Resources
	crit := s.rng.Float64() < game.CriticalChance(s.cat, s.state)
	s.dispatch(game.Click{Critical: crit, At: ms})
	metrics.ClicksTotal.WithLabelValues(strconv.FormatBool(crit)).Inc()

	res := ClickResult{Critical: crit, Delta: s.state.Resources.Plus(before.Scale(-1))}
	s.detect(ms)
	s.publish()
	return res
}

// BuyUpgrade buys one level of a production upgrade. It reports whether the
// purchase went through.
func (s *Session) BuyUpgrade(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state.Level(id)
	s.dispatch(game.BuyUpgrade{ID: id})
	ok := s.state.Level(id) > before
	if ok {
		metrics.UpgradesBought.WithLabelValues(id).Inc()
		s.detect(s.now())
	}
	s.publish()
	return ok
}

// BuyPrestigeUpgrade buys one level of a prestige upgrade.
func (s *Session) BuyPrestigeUpgrade(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state.PrestigeLevel(id)
	s.dispatch(game.BuyPrestigeUpgrade{ID: id})
	ok := s.state.PrestigeLevel(id) > before
	if ok {
		metrics.PrestigeUpgradesBought.WithLabelValues(id).Inc()
	}
	s.publish()
	return ok
}

// AdvanceEpoch moves to the next epoch and queues its cosmic law.
func (s *Session) AdvanceEpoch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state.CurrentEpochIndex
	s.dispatch(game.AdvanceEpoch{})
	idx := s.state.CurrentEpochIndex
	if idx == before {
		return false
	}

	metrics.EpochAdvances.WithLabelValues(strconv.Itoa(idx)).Inc()
	s.logger.Info("epoch advanced", "slot", s.slot, "epoch", s.cat.Epochs[idx].Name)
	if law, ok := s.cat.Law(idx); ok {
		s.notices = append(s.notices, Notice{Kind: NoticeLaw, Epoch: idx, Text: law.Title})
	}
	s.detect(s.now())
	s.publish()
	return true
}

// Prestige collapses the universe. It returns the essence gained and
// whether the collapse happened.
func (s *Session) Prestige() (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	if !game.CanPrestige(prev) {
		return 0, false
	}
	gained := game.EssenceForStars(prev.TotalStarsEver)
	ms := s.now()
	s.dispatch(game.Prestige{At: ms})

	metrics.Collapses.Inc()
	metrics.EssenceGained.Add(gained)
	s.logger.Info("universe collapsed", "slot", s.slot, "essence", gained)
	s.notices = append(s.notices, Notice{
		Kind: NoticeCollapse,
		Text: fmt.Sprintf("The universe collapsed into %.0f cosmic essence", gained),
	})

	if s.store != nil {
		_, err := s.store.RecordCollapse(storage.CollapseEntry{
			Slot:           s.slot,
			EssenceGained:  gained,
			TotalStarsEver: prev.TotalStarsEver,
			TotalEssence:   s.state.CosmicEssence,
		})
		if err != nil {
			s.logger.Warn("could not record collapse", "slot", s.slot, "error", err)
		}
	}
	s.saveLocked()
	s.arm(ms)
	s.publish()
	return gained, true
}

// CometVisible reports whether a comet can be caught right now.
func (s *Session) CometVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now() < s.cometUntil
}

// CatchComet pays out the visible comet, replacing any active event.
func (s *Session) CatchComet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now()
	if ms >= s.cometUntil {
		return false
	}
	s.cometUntil = 0
	s.startEvent(game.CometEvent(s.cat, s.state, "comet-"+uuid.NewString()), ms)
	s.publish()
	return true
}

// FindSecret unlocks the secret star achievement once.
func (s *Session) FindSecret() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Unlocked(game.SecretStarAchievement) {
		return false
	}
	ms := s.now()
	s.unlock([]string{game.SecretStarAchievement}, ms)
	s.dispatch(game.AwardSecretBonus{})
	s.publish()
	return true
}

// DismissAchievement starts the achievement bonus. The UI calls it when an
// achievement popup is closed.
func (s *Session) DismissAchievement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(game.StartAchievementBonus{At: s.now()})
	s.publish()
}

// Pause holds a pause reason.
func (s *Session) Pause(reason PauseReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused[reason] = true
}

// Resume releases a pause reason. When the last one is released the idle
// clock is rebased so the paused interval earns nothing, and the event and
// comet timers restart.
func (s *Session) Resume(reason PauseReason) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.paused[reason] {
		return
	}
	delete(s.paused, reason)
	if s.pausedLocked() {
		return
	}
	ms := s.now()
	s.dispatch(game.UpdateLastTick{At: ms})
	s.arm(ms)
	s.publish()
}

// Paused reports whether any pause reason is held.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pausedLocked()
}

// TriggerEvent force-starts a catalog event.
func (s *Session) TriggerEvent(id string) error {
	ev, ok := s.cat.Event(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.startEvent(ev, s.now())
	s.publish()
	return nil
}

// Jump replaces the game with a fresh universe at the given epoch holding
// the given resources.
func (s *Session) Jump(epoch int, seed core.Ledger) error {
	if epoch < 0 || epoch > s.cat.LastEpoch() {
		return fmt.Errorf("%w: %d", ErrEpochRange, epoch)
	}
	if res, bad := seed.Negative(); bad {
		return fmt.Errorf("session: negative %s", res)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := game.NewState(s.now())
	st.CurrentEpochIndex = epoch
	st.Resources = seed
	s.dispatch(game.SetState{State: st})
	s.logger.Warn("admin jump", "slot", s.slot, "epoch", epoch)
	s.publish()
	return nil
}

// Reset starts a fresh universe, discarding everything including essence.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now()
	s.dispatch(game.Reset{At: ms})
	s.arm(ms)
	s.publish()
}

// Import replaces the game with an exported save string.
func (s *Session) Import(encoded string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := s.now()
	st, err := savefile.Import(s.cat, encoded, ms)
	if err != nil {
		return err
	}
	s.dispatch(game.SetState{State: st})
	s.arm(ms)
	s.publish()
	return nil
}

// Export encodes the current game as a save string.
func (s *Session) Export() (string, error) {
	return savefile.Export(s.Snapshot())
}

// Save persists the game now.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.saveLocked()
	if err == nil && s.store != nil {
		s.notices = append(s.notices, Notice{Kind: NoticeSaved, Text: "Game saved"})
	}
	return err
}

// Subscribe returns a channel of state updates for spectators. The current
// state is sent immediately; slow readers lose the oldest updates. Cancel
// must be called to release the subscription.
func (s *Session) Subscribe(buffer int) (<-chan game.State, func()) {
	if buffer < 1 {
		buffer = 16
	}
	ch := make(chan game.State, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.closed {
		close(ch)
	} else {
		s.subs[id] = ch
		ch <- s.state
	}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

// Close performs a final save and ends all subscriptions.
// Safe to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	err := s.saveLocked()
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	metrics.ActiveSessions.Dec()
	s.logger.Debug("session closed", "id", s.id, "slot", s.slot)
	return err
}

func (s *Session) now() int64 {
	return s.clock.Now().UnixMilli()
}

func (s *Session) dispatch(a game.Action) {
	s.state = s.reducer.Reduce(s.state, a)
	s.version++
}

func (s *Session) pausedLocked() bool {
	return len(s.paused) > 0
}

// arm restarts the production, event and comet timers from ms.
func (s *Session) arm(ms int64) {
	c := s.cat.Constants
	s.nextTick = ms
	s.nextEventRoll = ms + c.RandomEventIntervalMs
	s.nextComet = ms + c.CometIntervalMs
	s.cometUntil = 0
}

func (s *Session) tick(ms int64) {
	if limit := int64(s.cat.Constants.MaxOfflineSeconds * 1000); limit > 0 {
		if gap := ms - s.state.LastTick; gap > limit {
			metrics.OfflineSecondsCapped.Add(float64(gap-limit) / 1000)
			s.dispatch(game.UpdateLastTick{At: ms - limit})
		}
	}
	s.dispatch(game.Tick{At: ms})
}

func (s *Session) rollEvent(ms int64) {
	if s.state.ActiveEvent != nil {
		return
	}
	if s.rng.Float64() >= s.cat.Constants.RandomEventChance {
		return
	}
	ev, ok := game.PickEvent(s.cat, s.state.CurrentEpochIndex, s.rng)
	if !ok {
		return
	}
	s.startEvent(ev, ms)
}

func (s *Session) startEvent(ev config.RandomEvent, ms int64) {
	s.dispatch(game.StartEvent{Event: ev, At: ms})
	metrics.EventsStarted.WithLabelValues(metricEventID(ev)).Inc()
	s.notices = append(s.notices, Notice{Kind: NoticeEvent, ID: ev.ID, Text: ev.Name})
	s.logger.Debug("event started", "slot", s.slot, "event", ev.ID)
	s.unlock(game.EventAchievements(s.cat, s.state, ev.ID), ms)
}

// metricEventID folds the per-catch comet ids into one label.
func metricEventID(ev config.RandomEvent) string {
	if ev.VisualEffect == "comet" {
		return "comet"
	}
	return ev.ID
}

func (s *Session) expire(ms int64) {
	if ev := s.state.ActiveEvent; ev != nil && ms >= ev.EndTime() {
		s.dispatch(game.EndEvent{})
	}
	if b := s.state.AchievementBonus; b != nil && ms >= b.EndTime {
		s.dispatch(game.EndAchievementBonus{})
	}
}

func (s *Session) detect(ms int64) {
	s.unlock(game.DetectAchievements(s.cat, s.state), ms)
}

func (s *Session) unlock(ids []string, ms int64) {
	if len(ids) == 0 {
		return
	}
	s.dispatch(game.UnlockAchievements{IDs: ids, At: ms})
	for _, id := range ids {
		name := id
		if a, ok := s.cat.Achievement(id); ok {
			name = a.Name
		}
		metrics.AchievementsUnlocked.WithLabelValues(id).Inc()
		s.notices = append(s.notices, Notice{Kind: NoticeAchievement, ID: id, Text: name})
		s.logger.Info("achievement unlocked", "slot", s.slot, "achievement", id)
	}
}

func (s *Session) saveLocked() error {
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveGame(s.slot, s.state); err != nil {
		metrics.SaveErrors.Inc()
		s.logger.Warn("could not save", "slot", s.slot, "error", err)
		s.notices = append(s.notices, Notice{Kind: NoticeError, Text: "Save failed: " + err.Error()})
		return err
	}
	metrics.SavesTotal.Inc()
	return nil
}

// publish sends the state to spectators if it changed since the last send.
// A full buffer drops its oldest update.
func (s *Session) publish() {
	if s.version == s.published {
		return
	}
	s.published = s.version
	for _, ch := range s.subs {
		select {
		case ch <- s.state:
			continue
		default:
		}
		select {
		case <-ch:
			metrics.SpectatorDropped.Inc()
		default:
		}
		select {
		case ch <- s.state:
		default:
		}
	}
}
