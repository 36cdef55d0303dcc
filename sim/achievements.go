package sim

import (
	"context"

	"ctrlspike/towerdefense/logging"
	"ctrlspike/towerdefense/logging/achievements"
)

// AchievementType selects how an achievement's requirement is evaluated
// (spec §4.8).
type AchievementType string

const (
	AchievementCount   AchievementType = "count"
	AchievementTotal   AchievementType = "total"
	AchievementBoolean AchievementType = "boolean"
)

// AchievementDef declares one achievement's unlock rule and reward.
type AchievementDef struct {
	ID          string
	Type        AchievementType
	Requirement int
	Reward      Resources
	Category    string
}

// achievementCatalog is the fixed set of achievements the monitor tracks.
// checkMeta groups the non-meta entries by Category; the only
// meta-achievement is the all-categories-complete "victorious".
var achievementCatalog = []AchievementDef{
	{ID: "first_blood", Type: AchievementCount, Requirement: 1, Reward: Resources{Dharma: 10}, Category: "combat"},
	{ID: "exterminator", Type: AchievementCount, Requirement: 100, Reward: Resources{Dharma: 100, Bandwidth: 50}, Category: "combat"},
	{ID: "wave_runner", Type: AchievementCount, Requirement: 5, Reward: Resources{Dharma: 50}, Category: "waves"},
	{ID: "architect", Type: AchievementCount, Requirement: 1, Reward: Resources{}, Category: "economy"},
	{ID: "master_builder", Type: AchievementBoolean, Requirement: 1, Reward: Resources{Dharma: 200, Bandwidth: 100, Anonymity: 100}, Category: "economy"},
	{ID: "wealthy", Type: AchievementTotal, Requirement: 1000, Reward: Resources{Anonymity: 50}, Category: "economy"},
	{ID: "victorious", Type: AchievementBoolean, Requirement: 1, Reward: Resources{Dharma: 500, Bandwidth: 300, Anonymity: 300}, Category: "meta"},
}

// AchievementMonitor observes gameplay events and latches unlocks the first
// time a threshold is crossed (spec §4.8).
type AchievementMonitor struct {
	counters map[string]int
	unlocked map[string]bool
}

// NewAchievementMonitor constructs an empty monitor.
func NewAchievementMonitor() *AchievementMonitor {
	return &AchievementMonitor{
		counters: make(map[string]int),
		unlocked: make(map[string]bool),
	}
}

// Observe increments the named counter and re-evaluates every unlock rule
// that keys on it, crediting rewards for newly-latched achievements.
func (m *AchievementMonitor) Observe(ctx context.Context, pub logging.Publisher, ledger *Ledger, tick uint64, counterKey string, delta int) {
	m.counters[counterKey] += delta
	for _, def := range achievementCatalog {
		if m.unlocked[def.ID] {
			continue
		}
		if !achievementTracksCounter(def, counterKey) {
			continue
		}
		if m.counters[counterKey] >= def.Requirement {
			m.unlock(ctx, pub, ledger, tick, def)
		}
	}
	m.checkMeta(ctx, pub, ledger, tick)
}

func achievementTracksCounter(def AchievementDef, counterKey string) bool {
	return def.ID == counterKey || achievementCounterKey(def) == counterKey
}

// achievementCounterKey maps each achievement to the counter it watches.
func achievementCounterKey(def AchievementDef) string {
	switch def.ID {
	case "first_blood", "exterminator":
		return "enemy_killed"
	case "wave_runner":
		return "wave_completed"
	case "architect":
		return "defense_built"
	case "master_builder":
		return "defense_upgraded_to_max"
	case "wealthy":
		return "resources_total"
	case "victorious":
		return "game_completed"
	}
	return def.ID
}

func (m *AchievementMonitor) unlock(ctx context.Context, pub logging.Publisher, ledger *Ledger, tick uint64, def AchievementDef) {
	m.unlocked[def.ID] = true
	if ledger != nil {
		ledger.Credit(ctx, tick, def.Reward, "achievement:"+def.ID)
	}
	achievements.Unlocked(ctx, pub, tick, achievements.UnlockedPayload{
		ID: def.ID, RewardDharma: def.Reward.Dharma, RewardBandwidth: def.Reward.Bandwidth, RewardAnonymity: def.Reward.Anonymity,
	})
}

// checkMeta unlocks "victorious" once every non-meta achievement in every
// category is latched. Completing a single category unlocks nothing; there
// is no per-category meta-achievement.
func (m *AchievementMonitor) checkMeta(ctx context.Context, pub logging.Publisher, ledger *Ledger, tick uint64) {
	categories := make(map[string]bool)
	for _, def := range achievementCatalog {
		if def.Category == "meta" {
			continue
		}
		categories[def.Category] = true
	}
	allDone := true
	for category := range categories {
		done := true
		for _, def := range achievementCatalog {
			if def.Category != category {
				continue
			}
			if !m.unlocked[def.ID] {
				done = false
				break
			}
		}
		if !done {
			allDone = false
		}
	}
	if allDone && !m.unlocked["victorious"] {
		m.counters["game_completed"] = 1
		for _, def := range achievementCatalog {
			if def.ID == "victorious" {
				m.unlock(ctx, pub, ledger, tick, def)
			}
		}
	}
}

// Unlocked reports whether the given achievement has been latched.
func (m *AchievementMonitor) Unlocked(id string) bool {
	return m.unlocked[id]
}

// Snapshot returns copies of the counters and unlocked set for save/restore.
func (m *AchievementMonitor) Snapshot() (counters map[string]int, unlocked map[string]bool) {
	c := make(map[string]int, len(m.counters))
	for k, v := range m.counters {
		c[k] = v
	}
	u := make(map[string]bool, len(m.unlocked))
	for k, v := range m.unlocked {
		u[k] = v
	}
	return c, u
}

// Restore replaces the monitor's internal state from a snapshot.
func (m *AchievementMonitor) Restore(counters map[string]int, unlocked map[string]bool) {
	m.counters = make(map[string]int, len(counters))
	for k, v := range counters {
		m.counters[k] = v
	}
	m.unlocked = make(map[string]bool, len(unlocked))
	for k, v := range unlocked {
		m.unlocked[k] = v
	}
}
