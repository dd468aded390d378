package game

import "github.com/vovakirdan/cosmic-clicker/internal/config"

// Action is a state transition request. Timestamps are unix millis and are
// always supplied by the caller so that Reduce stays deterministic.
// Any type the reducer does not recognize is a no-op.
type Action interface {
	Kind() string
}

// Click is one player click.
type Click struct {
	Critical bool
	At       int64
}

// Tick integrates idle production up to At.
type Tick struct {
	At int64
}

// BuyUpgrade buys one level of a production upgrade.
type BuyUpgrade struct {
	ID string
}

// AdvanceEpoch pays the next epoch's unlock cost and moves to it.
type AdvanceEpoch struct{}

// StartEvent activates an event and applies its instant gain.
type StartEvent struct {
	Event config.RandomEvent
	At    int64
}

// EndEvent clears the active event.
type EndEvent struct{}

// UnlockAchievements stamps the given achievements with At.
type UnlockAchievements struct {
	IDs []string
	At  int64
}

// AwardSecretBonus grants one cosmic essence.
type AwardSecretBonus struct{}

// Prestige collapses the universe for cosmic essence.
type Prestige struct {
	At int64
}

// BuyPrestigeUpgrade buys one level of a prestige upgrade with essence.
type BuyPrestigeUpgrade struct {
	ID string
}

// StartAchievementBonus starts the timed achievement multiplier.
type StartAchievementBonus struct {
	At int64
}

// EndAchievementBonus clears the achievement multiplier.
type EndAchievementBonus struct{}

// Reset returns to a fresh game.
type Reset struct {
	At int64
}

// SetState replaces the state wholesale. The caller validates it.
type SetState struct {
	State State
}

// UpdateLastTick rebases lastTick without producing anything.
type UpdateLastTick struct {
	At int64
}

func (Click) Kind() string                 { return "click" }
func (Tick) Kind() string                  { return "tick" }
func (BuyUpgrade) Kind() string            { return "buy_upgrade" }
func (AdvanceEpoch) Kind() string          { return "advance_epoch" }
func (StartEvent) Kind() string            { return "start_event" }
func (EndEvent) Kind() string              { return "end_event" }
func (UnlockAchievements) Kind() string    { return "unlock_achievements" }
func (AwardSecretBonus) Kind() string      { return "award_secret_bonus" }
func (Prestige) Kind() string              { return "prestige" }
func (BuyPrestigeUpgrade) Kind() string    { return "buy_prestige_upgrade" }
func (StartAchievementBonus) Kind() string { return "start_achievement_bonus" }
func (EndAchievementBonus) Kind() string   { return "end_achievement_bonus" }
func (Reset) Kind() string                 { return "reset" }
func (SetState) Kind() string              { return "set_state" }
func (UpdateLastTick) Kind() string        { return "update_last_tick" }
