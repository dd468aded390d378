package game

import (
	"math"

	"github.com/vovakirdan/cosmic-clicker/internal/config"
	"github.com/vovakirdan/cosmic-clicker/internal/core"
)

// Rand is the random source used for event and crit rolls.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// AvailableEvents lists the events that can occur at the given epoch.
func AvailableEvents(cat *config.Catalog, epochIndex int) []config.RandomEvent {
	var out []config.RandomEvent
	for _, e := range cat.Events {
		if e.RequiredEpoch <= epochIndex {
			out = append(out, e)
		}
	}
	return out
}

// PickEvent chooses an event available at epochIndex, weighted by Weight.
func PickEvent(cat *config.Catalog, epochIndex int, rng Rand) (config.RandomEvent, bool) {
	events := AvailableEvents(cat, epochIndex)
	if len(events) == 0 {
		return config.RandomEvent{}, false
	}
	total := 0.0
	for _, e := range events {
		total += e.Weight
	}
	roll := rng.Float64() * total
	for _, e := range events {
		if roll < e.Weight {
			return e, true
		}
		roll -= e.Weight
	}
	return events[0], true
}

// cometBase is the reward per epoch step for each unlock resource.
var cometBase = map[core.Resource]float64{
	core.Energy: 500,
	core.Quark:  50,
	core.Proton: 20,
	core.Atom:   20,
	core.Star:   5,
}

// CometReward returns the resource and amount a caught comet grants. The
// reward is paid in the resource that unlocked the current epoch and grows
// with the epoch index. The active event's click multiplier applies; the
// achievement bonus is applied by StartEvent.
func CometReward(cat *config.Catalog, s State) (core.Resource, float64) {
	res := core.Energy
	if s.CurrentEpochIndex >= 0 && s.CurrentEpochIndex < len(cat.Epochs) {
		res = cat.Epochs[s.CurrentEpochIndex].UnlockResource
	}
	base, ok := cometBase[res]
	amount := 100.0
	if ok {
		amount = base * float64(s.CurrentEpochIndex+1)
	}
	return res, math.Floor(amount * s.EventClickMultiplier())
}

// CometEvent builds the short-lived event used to pay out a caught comet.
func CometEvent(cat *config.Catalog, s State, id string) config.RandomEvent {
	res, amount := CometReward(cat, s)
	ev := config.RandomEvent{
		ID:           id,
		Name:         "Comet Captured",
		Description:  "A wandering comet scatters fresh matter across the void.",
		DurationMs:   cat.Constants.CometEventDurationMs,
		VisualEffect: "comet",
		Weight:       0,
	}
	ev.Effects.InstantGain[res] = amount
	return ev
}
