package game

import "github.com/vovakirdan/cosmic-clicker/internal/config"

// DetectAchievements returns the ids of achievements whose resource,
// upgrade level, epoch or click condition holds in s and that are not yet
// unlocked, in catalog order. Event and secret achievements are unlocked by
// the session when the triggering thing happens.
func DetectAchievements(cat *config.Catalog, s State) []string {
	var ids []string
	totalLevels := -1
	for _, a := range cat.Achievements {
		if s.Unlocked(a.ID) {
			continue
		}
		cond := a.Condition
		met := false
		switch cond.Kind {
		case config.ConditionResource:
			met = s.Resources.Covers(cond.Resource, cond.Amount)
		case config.ConditionUpgradeLevel:
			if totalLevels < 0 {
				totalLevels = s.TotalUpgradeLevels()
			}
			met = float64(totalLevels) >= cond.Amount
		case config.ConditionEpoch:
			met = float64(s.CurrentEpochIndex) >= cond.Amount
		case config.ConditionClicks:
			met = float64(s.TotalClicks) >= cond.Amount
		}
		if met {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// EventAchievements returns the not yet unlocked achievements earned by
// witnessing eventID.
func EventAchievements(cat *config.Catalog, s State, eventID string) []string {
	var ids []string
	for _, a := range cat.Achievements {
		if a.Condition.Kind == config.ConditionEvent && a.Condition.EventID == eventID && !s.Unlocked(a.ID) {
			ids = append(ids, a.ID)
		}
	}
	return ids
}
