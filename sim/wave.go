package sim

import (
	"context"
	"math/rand"

	"ctrlspike/towerdefense/logging"
	"ctrlspike/towerdefense/logging/waves"
)

// EnemyGroup is one entry of a wave plan: a batch of a single enemy kind
// spawned sequentially (spec §3).
type EnemyGroup struct {
	Kind             EnemyKind
	IsBoss           bool
	BossKind         BossKind
	Count            int
	SpawnDelayMs     float64
	HealthMultiplier float64

	remaining     int
	nextSpawnAtMs float64
}

// WavePlan is the ordered list of groups for one wave (spec §3).
type WavePlan struct {
	Wave   int
	Groups []EnemyGroup
}

// WaveScheduler owns wave progression: the current plan, per-group emission
// cursors, and the inter-wave countdown (spec §4.2).
type WaveScheduler struct {
	CurrentWave     int
	plan            *WavePlan
	InProgress      bool
	InterWaveTimer  float64
	rng             *rand.Rand
	maxWaves        int
}

// NewWaveScheduler constructs a scheduler seeded from rootSeed, arming the
// initial inter-wave delay before wave 1.
func NewWaveScheduler(rootSeed string) *WaveScheduler {
	return &WaveScheduler{
		rng:            newDeterministicRNG(rootSeed, "waves"),
		InterWaveTimer: InterWaveDelayMs,
	}
}

// effectiveMaxWaves returns the configured wave ceiling, falling back to
// the MaxWaves constant when the scheduler was built with the zero value
// (every NewWaveScheduler caller until a SimConfig sets maxWaves directly).
func (w *WaveScheduler) effectiveMaxWaves() int {
	if w.maxWaves <= 0 {
		return MaxWaves
	}
	return w.maxWaves
}

// GeneratePlan deterministically builds the plan for wave n (spec §4.2).
func (w *WaveScheduler) GeneratePlan(n int) WavePlan {
	plan := WavePlan{Wave: n}

	kindCount := len(AllEnemyKinds)
	includeCount := (n * kindCount) / 10
	if includeCount < 1 {
		includeCount = 1
	}
	if includeCount > kindCount {
		includeCount = kindCount
	}

	healthScale := 1 + 0.05*float64(n)

	for i := 0; i < includeCount; i++ {
		count := 3 + n/2 + randomInt(w.rng, maxInt(1, floorInt(0.3*float64(n))+1))
		plan.Groups = append(plan.Groups, EnemyGroup{
			Kind:             AllEnemyKinds[i],
			Count:            count,
			SpawnDelayMs:     DefaultGroupSpawnDelayMs,
			HealthMultiplier: healthScale,
			remaining:        count,
		})
	}

	if n%BossWaveInterval == 0 {
		bossKind := BossRaidTeam
		if n > 10 {
			bossKind = BossMegaCorpTitan
		}
		plan.Groups = append(plan.Groups, EnemyGroup{
			IsBoss:           true,
			BossKind:         bossKind,
			Count:            1,
			SpawnDelayMs:     0,
			HealthMultiplier: 1,
			remaining:        1,
		})
		swarmCount := 5 + n
		plan.Groups = append(plan.Groups, EnemyGroup{
			Kind:             EnemyScriptKiddie,
			Count:            swarmCount,
			SpawnDelayMs:     DefaultGroupSpawnDelayMs,
			HealthMultiplier: 1,
			remaining:        swarmCount,
		})
	}

	return plan
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// StartWave begins wave n, per the START_WAVE preconditions in spec §4.2.
func (w *WaveScheduler) StartWave(ctx context.Context, pub logging.Publisher, tick uint64, n int) bool {
	if w.InProgress || n != w.CurrentWave+1 || n > w.effectiveMaxWaves() {
		return false
	}
	plan := w.GeneratePlan(n)
	w.plan = &plan
	w.CurrentWave = n
	w.InProgress = true
	for i := range w.plan.Groups {
		w.plan.Groups[i].nextSpawnAtMs = 0
	}
	waves.Started(ctx, pub, tick, waves.StartedPayload{Wave: n})
	return true
}

// SpawnResult is one enemy or boss the scheduler wants the caller to create
// this tick.
type SpawnResult struct {
	Kind             EnemyKind
	IsBoss           bool
	BossKind         BossKind
	HealthMultiplier float64
}

// Advance runs one tick of group emission, returning the spawns due this
// tick (spec §4.2). liveEnemyCount lets the caller detect wave completion
// once every group is exhausted and no enemies remain.
func (w *WaveScheduler) Advance(dtMs float64, liveEnemyCount int) []SpawnResult {
	var spawns []SpawnResult
	if !w.InProgress || w.plan == nil {
		if !w.InProgress {
			w.InterWaveTimer -= dtMs
		}
		return spawns
	}

	allExhausted := true
	for i := range w.plan.Groups {
		g := &w.plan.Groups[i]
		if g.remaining <= 0 {
			continue
		}
		allExhausted = false
		if g.nextSpawnAtMs <= 0 {
			spawns = append(spawns, SpawnResult{Kind: g.Kind, IsBoss: g.IsBoss, BossKind: g.BossKind, HealthMultiplier: g.HealthMultiplier})
			g.remaining--
			g.nextSpawnAtMs = g.SpawnDelayMs
		} else {
			g.nextSpawnAtMs -= dtMs
		}
	}

	if allExhausted && liveEnemyCount == 0 {
		w.InProgress = false
		w.InterWaveTimer = InterWaveDelayMs
	}

	return spawns
}

// WaveBonus computes the completion bonus for wave and returns it for the
// caller to credit to the ledger; it does not touch the ledger itself
// (spec §4.2: base 50 + 10*wave to dharma, 50% to bandwidth, 30% to
// anonymity).
func (w *WaveScheduler) WaveBonus(wave int) Resources {
	dharma := 50 + 10*wave
	return Resources{
		Dharma:    dharma,
		Bandwidth: floorInt(float64(dharma) * 0.5),
		Anonymity: floorInt(float64(dharma) * 0.3),
	}
}
