package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
	"github.com/vovakirdan/cosmic-clicker/internal/game"
	"github.com/vovakirdan/cosmic-clicker/internal/savefile"
	"github.com/vovakirdan/cosmic-clicker/internal/storage"
)

var t0 = time.UnixMilli(1_700_000_000_000)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Add moves the clock forward and returns the new time.
func (c *fakeClock) Add(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

// seqRand returns vals in order and then repeats the last one.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i]
	if r.i < len(r.vals)-1 {
		r.i++
	}
	return v
}

type memStore struct {
	saves     map[string]game.State
	saveCount int
	collapses []storage.CollapseEntry
	err       error
}

func newMemStore() *memStore {
	return &memStore{saves: map[string]game.State{}}
}

func (m *memStore) SaveGame(slot string, st game.State) error {
	if m.err != nil {
		return m.err
	}
	m.saves[slot] = st
	m.saveCount++
	return nil
}

func (m *memStore) RecordCollapse(e storage.CollapseEntry) (int64, error) {
	m.collapses = append(m.collapses, e)
	return int64(len(m.collapses)), nil
}

type harness struct {
	s     *Session
	clock *fakeClock
	store *memStore
	rng   *seqRand
}

func testCatalog(t *testing.T) *config.Catalog {
	t.Helper()
	cat, err := config.DefaultCatalog()
	require.NoError(t, err)
	return cat
}

// newHarness builds a session whose rolls never crit or start events unless
// the test sets rng.vals.
func newHarness(t *testing.T, cat *config.Catalog, initial *game.State) *harness {
	t.Helper()
	h := &harness{
		clock: &fakeClock{t: t0},
		store: newMemStore(),
		rng:   &seqRand{vals: []float64{0.99}},
	}
	h.s = New(Config{
		Reducer: game.NewReducer(cat),
		Slot:    "test",
		Store:   h.store,
		Clock:   h.clock,
		Rand:    h.rng,
		Logger:  log.New(io.Discard),
		Initial: initial,
	})
	t.Cleanup(func() { h.s.Close() })
	return h
}

func idleState() *game.State {
	st := game.NewState(t0.UnixMilli())
	st.Upgrades["energy_idle_1"] = 1
	return &st
}

func noticeKinds(ns []Notice) []NoticeKind {
	kinds := make([]NoticeKind, 0, len(ns))
	for _, n := range ns {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func TestAdvanceProducesIdle(t *testing.T) {
	h := newHarness(t, testCatalog(t), idleState())

	h.s.Advance(h.clock.Add(time.Second))

	st := h.s.Snapshot()
	assert.InDelta(t, 1.0, st.Resources[core.Energy], 1e-9)
	assert.Equal(t, h.clock.Now().UnixMilli(), st.LastTick)
}

func TestAdvanceRespectsTickInterval(t *testing.T) {
	h := newHarness(t, testCatalog(t), idleState())

	h.s.Advance(h.clock.Add(time.Second))
	h.s.Advance(h.clock.Add(50 * time.Millisecond))
	assert.InDelta(t, 1.0, h.s.Snapshot().Resources[core.Energy], 1e-9, "tick fired before interval")

	h.s.Advance(h.clock.Add(50 * time.Millisecond))
	assert.InDelta(t, 1.1, h.s.Snapshot().Resources[core.Energy], 1e-9)
}

func TestPauseSuppressesTicksAndRebases(t *testing.T) {
	h := newHarness(t, testCatalog(t), idleState())

	h.s.Pause(PauseSettings)
	require.True(t, h.s.Paused())
	h.s.Advance(h.clock.Add(10 * time.Second))
	assert.Zero(t, h.s.Snapshot().Resources[core.Energy])

	h.s.Resume(PauseSettings)
	assert.False(t, h.s.Paused())
	assert.Equal(t, h.clock.Now().UnixMilli(), h.s.Snapshot().LastTick)

	h.s.Advance(h.clock.Add(time.Second))
	assert.InDelta(t, 1.0, h.s.Snapshot().Resources[core.Energy], 1e-9, "paused time must not pay out")
}

func TestPauseReasonsNest(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	h.s.Pause(PauseAchievement)
	h.s.Pause(PauseLaw)
	h.s.Resume(PauseAchievement)
	assert.True(t, h.s.Paused())

	h.s.Resume(PauseAchievement)
	assert.True(t, h.s.Paused(), "releasing a reason twice must not unpause")

	h.s.Resume(PauseLaw)
	assert.False(t, h.s.Paused())
}

func TestEventExpiresWhilePaused(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	require.NoError(t, h.s.TriggerEvent("click_frenzy"))
	st := h.s.Snapshot()
	require.NotNil(t, st.ActiveEvent)
	assert.True(t, st.Unlocked("frenzy_witness"))
	assert.Contains(t, noticeKinds(h.s.Notices()), NoticeEvent)

	h.s.Pause(PauseSettings)
	h.s.Advance(h.clock.Add(14 * time.Second))
	assert.NotNil(t, h.s.Snapshot().ActiveEvent)

	h.s.Advance(h.clock.Add(time.Second))
	assert.Nil(t, h.s.Snapshot().ActiveEvent)
}

func TestTriggerUnknownEvent(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	err := h.s.TriggerEvent("nope")
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestRandomEventRoll(t *testing.T) {
	tests := []struct {
		name  string
		rolls []float64
		want  bool
	}{
		{"roll succeeds", []float64{0.0}, true},
		{"roll fails", []float64{0.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, testCatalog(t), nil)
			h.rng.vals = tt.rolls

			h.s.Advance(h.clock.Add(15 * time.Second))

			ev := h.s.Snapshot().ActiveEvent
			if !tt.want {
				assert.Nil(t, ev)
				return
			}
			require.NotNil(t, ev)
			assert.Equal(t, "click_frenzy", ev.Event.ID)
			assert.Equal(t, h.clock.Now().UnixMilli(), ev.StartTime)
		})
	}
}

func TestNoRollWhileEventActive(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)
	require.NoError(t, h.s.TriggerEvent("click_frenzy"))
	h.rng.vals = []float64{0.0, 0.0}

	h.s.Advance(h.clock.Add(15 * time.Second))

	// The roll came before expiry on this step and was skipped.
	assert.Zero(t, h.rng.i)
	assert.Nil(t, h.s.Snapshot().ActiveEvent)
}

func TestAchievementBonusLifecycle(t *testing.T) {
	cat := testCatalog(t)
	h := newHarness(t, cat, nil)

	h.s.DismissAchievement()
	b := h.s.Snapshot().AchievementBonus
	require.NotNil(t, b)
	assert.Equal(t, cat.Constants.AchievementBonusMultiplier, b.Multiplier)
	assert.Equal(t, t0.UnixMilli()+cat.Constants.AchievementBonusDurationMs, b.EndTime)

	h.s.Pause(PauseAchievement)
	h.s.Advance(h.clock.Add(time.Duration(cat.Constants.AchievementBonusDurationMs) * time.Millisecond))
	assert.Nil(t, h.s.Snapshot().AchievementBonus)
}

func TestClick(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	res := h.s.Click()
	assert.False(t, res.Critical)
	assert.Equal(t, 1.0, res.Delta[core.Energy])

	st := h.s.Snapshot()
	assert.Equal(t, 1, st.TotalClicks)
	assert.True(t, st.Unlocked("first_click"))

	ns := h.s.Notices()
	require.Len(t, ns, 1)
	assert.Equal(t, NoticeAchievement, ns[0].Kind)
	assert.Equal(t, "first_click", ns[0].ID)
	assert.Empty(t, h.s.Notices(), "notices must drain")
}

func TestClickCritical(t *testing.T) {
	cat := testCatalog(t)
	h := newHarness(t, cat, nil)
	h.rng.vals = []float64{0.0}

	res := h.s.Click()
	assert.True(t, res.Critical)
	assert.Equal(t, cat.Constants.CriticalMultiplier, res.Delta[core.Energy])
}

func TestOfflineCap(t *testing.T) {
	cat := testCatalog(t)
	cat.Constants.MaxOfflineSeconds = 60
	h := newHarness(t, cat, idleState())

	h.s.Advance(h.clock.Add(time.Hour))
	assert.InDelta(t, 60.0, h.s.Snapshot().Resources[core.Energy], 1e-9)
}

func TestOfflineUncapped(t *testing.T) {
	h := newHarness(t, testCatalog(t), idleState())

	h.s.Advance(h.clock.Add(time.Hour))
	assert.InDelta(t, 3600.0, h.s.Snapshot().Resources[core.Energy], 1e-6)
}

func TestAutosave(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	h.s.Advance(h.clock.Add(29 * time.Second))
	assert.Zero(t, h.store.saveCount)

	h.s.Advance(h.clock.Add(time.Second))
	assert.Equal(t, 1, h.store.saveCount)
	_, ok := h.store.saves["test"]
	assert.True(t, ok)
}

func TestSaveErrorKeepsPlaying(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)
	h.store.err = errors.New("disk full")

	err := h.s.Save()
	require.Error(t, err)
	assert.Contains(t, noticeKinds(h.s.Notices()), NoticeError)

	h.s.Click()
	assert.Equal(t, 1, h.s.Snapshot().TotalClicks)
}

func TestSaveNotice(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	require.NoError(t, h.s.Save())
	assert.Equal(t, []NoticeKind{NoticeSaved}, noticeKinds(h.s.Notices()))
}

func TestBuyUpgrade(t *testing.T) {
	st := game.NewState(t0.UnixMilli())
	st.Resources[core.Energy] = 10
	h := newHarness(t, testCatalog(t), &st)

	assert.True(t, h.s.BuyUpgrade("energy_click_1"))
	assert.False(t, h.s.BuyUpgrade("energy_click_1"), "second level is unaffordable")
	assert.False(t, h.s.BuyUpgrade("does_not_exist"))
	assert.Equal(t, 1, h.s.Snapshot().Level("energy_click_1"))
}

func TestAdvanceEpochQueuesLaw(t *testing.T) {
	st := game.NewState(t0.UnixMilli())
	st.Resources[core.Energy] = 100
	h := newHarness(t, testCatalog(t), &st)

	require.True(t, h.s.AdvanceEpoch())
	assert.Equal(t, 1, h.s.Snapshot().CurrentEpochIndex)

	ns := h.s.Notices()
	require.NotEmpty(t, ns)
	assert.Equal(t, NoticeLaw, ns[0].Kind)
	assert.Equal(t, 1, ns[0].Epoch)

	assert.False(t, h.s.AdvanceEpoch())
}

func TestPrestigeRecordsCollapse(t *testing.T) {
	st := game.NewState(t0.UnixMilli())
	st.CurrentEpochIndex = game.PrestigeEpoch
	st.TotalStarsEver = 4e6
	h := newHarness(t, testCatalog(t), &st)

	gained, ok := h.s.Prestige()
	require.True(t, ok)
	assert.Equal(t, 2.0, gained)

	after := h.s.Snapshot()
	assert.Equal(t, 2.0, after.CosmicEssence)
	assert.Equal(t, 0, after.CurrentEpochIndex)

	require.Len(t, h.store.collapses, 1)
	assert.Equal(t, "test", h.store.collapses[0].Slot)
	assert.Equal(t, 2.0, h.store.collapses[0].EssenceGained)
	assert.Equal(t, 4e6, h.store.collapses[0].TotalStarsEver)
	assert.Equal(t, 1, h.store.saveCount)
}

func TestPrestigeRejected(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	_, ok := h.s.Prestige()
	assert.False(t, ok)
	assert.Empty(t, h.store.collapses)
}

func TestBuyPrestigeUpgrade(t *testing.T) {
	st := game.NewState(t0.UnixMilli())
	st.CosmicEssence = 1000
	h := newHarness(t, testCatalog(t), &st)

	assert.True(t, h.s.BuyPrestigeUpgrade(game.PrimordialPower))
	assert.Equal(t, 1, h.s.Snapshot().PrestigeLevel(game.PrimordialPower))
	assert.False(t, h.s.BuyPrestigeUpgrade("nope"))
}

func TestComet(t *testing.T) {
	cat := testCatalog(t)
	h := newHarness(t, cat, nil)

	assert.False(t, h.s.CometVisible())
	assert.False(t, h.s.CatchComet())

	h.s.Advance(h.clock.Add(time.Duration(cat.Constants.CometIntervalMs) * time.Millisecond))
	require.True(t, h.s.CometVisible())
	require.True(t, h.s.CatchComet())

	st := h.s.Snapshot()
	assert.Equal(t, 500.0, st.Resources[core.Energy])
	require.NotNil(t, st.ActiveEvent)
	assert.Equal(t, "comet", st.ActiveEvent.Event.VisualEffect)
	assert.False(t, h.s.CatchComet(), "a comet can be caught once")
}

func TestCometWindowCloses(t *testing.T) {
	cat := testCatalog(t)
	h := newHarness(t, cat, nil)

	h.s.Advance(h.clock.Add(time.Duration(cat.Constants.CometIntervalMs) * time.Millisecond))
	h.clock.Add(time.Duration(cat.Constants.CometWindowMs) * time.Millisecond)
	assert.False(t, h.s.CometVisible())
	assert.False(t, h.s.CatchComet())
}

func TestFindSecretOnce(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	assert.True(t, h.s.FindSecret())
	assert.False(t, h.s.FindSecret())

	st := h.s.Snapshot()
	assert.True(t, st.Unlocked(game.SecretStarAchievement))
	assert.Equal(t, 1.0, st.CosmicEssence)
}

func TestJump(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	var seed core.Ledger
	seed[core.Energy] = 1e6
	require.NoError(t, h.s.Jump(3, seed))

	st := h.s.Snapshot()
	assert.Equal(t, 3, st.CurrentEpochIndex)
	assert.Equal(t, 1e6, st.Resources[core.Energy])

	assert.ErrorIs(t, h.s.Jump(99, seed), ErrEpochRange)

	seed[core.Quark] = -1
	assert.Error(t, h.s.Jump(1, seed))
}

func TestReset(t *testing.T) {
	st := game.NewState(t0.UnixMilli())
	st.CosmicEssence = 5
	h := newHarness(t, testCatalog(t), &st)

	h.clock.Add(time.Second)
	h.s.Reset()

	after := h.s.Snapshot()
	assert.Zero(t, after.CosmicEssence)
	assert.Equal(t, h.clock.Now().UnixMilli(), after.LastTick)
}

func TestExportImport(t *testing.T) {
	cat := testCatalog(t)
	st := game.NewState(t0.UnixMilli())
	st.Resources[core.Quark] = 42
	st.Upgrades["energy_click_1"] = 2
	src := newHarness(t, cat, &st)

	encoded, err := src.s.Export()
	require.NoError(t, err)

	dst := newHarness(t, cat, nil)
	require.NoError(t, dst.s.Import(encoded))
	got := dst.s.Snapshot()
	assert.Equal(t, 42.0, got.Resources[core.Quark])
	assert.Equal(t, 2, got.Level("energy_click_1"))

	err = dst.s.Import("not a save")
	assert.ErrorIs(t, err, savefile.ErrInvalidSave)
	assert.Equal(t, 42.0, dst.s.Snapshot().Resources[core.Quark], "failed import must not change state")
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	ch, cancel := h.s.Subscribe(4)
	first := <-ch
	assert.Equal(t, 0, first.TotalClicks)

	h.s.Click()
	next := <-ch
	assert.Equal(t, 1, next.TotalClicks)

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
}

func TestSubscribeDropsOldest(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)

	ch, cancel := h.s.Subscribe(1)
	defer cancel()

	h.s.Click()
	h.s.Click()

	latest := <-ch
	assert.Equal(t, 2, latest.TotalClicks)
}

func TestCloseSavesAndEndsSubscriptions(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)
	ch, _ := h.s.Subscribe(1)
	<-ch

	require.NoError(t, h.s.Close())
	assert.Equal(t, 1, h.store.saveCount)

	_, ok := <-ch
	assert.False(t, ok)
	assert.NoError(t, h.s.Close())
	assert.Equal(t, 1, h.store.saveCount, "second close must not save")

	h.s.Advance(h.clock.Add(time.Minute))
	assert.Zero(t, h.s.Snapshot().TotalClicks)
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, testCatalog(t), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- h.s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
