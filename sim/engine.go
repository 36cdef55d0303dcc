package sim

import (
	"context"
	"math/rand"

	"ctrlspike/towerdefense/logging"
	"ctrlspike/towerdefense/logging/combat"
	"ctrlspike/towerdefense/logging/economy"
	"ctrlspike/towerdefense/logging/waves"
)

// GameStatus is the coarse lifecycle state of a running game.
type GameStatus string

const (
	StatePlaying  GameStatus = "playing"
	StateGameOver GameStatus = "game_over"
	StateVictory  GameStatus = "victory"
)

// Engine is the single-threaded, cooperative, tick-driven simulation core
// (spec §5). It owns every subsystem and is the sole entry point external
// collaborators call through (grounded on the teacher's Hub/World split,
// collapsed here into one struct since there is no multi-room concept in
// this spec).
type Engine struct {
	seed      string
	pathShape PathShape

	Path         *Path
	Store        *Store
	Ledger       *Ledger
	Waves        *WaveScheduler
	Achievements *AchievementMonitor
	Journal      PatchJournal

	Tick    uint64
	ClockMs uint64
	State   GameStatus

	ResourceBoost int

	pub logging.Publisher

	enemyRNG      *rand.Rand
	defenseRNG    *rand.Rand
	projectileRNG *rand.Rand
	bossRNG       *rand.Rand

	fieldWidth, fieldHeight float64
	tickRate                int

	lastCompletedWave int
}

// NewEngine constructs a fresh game for the given seed and path shape (the
// NEW_GAME command, spec §6), using every other SimConfig field at its
// default.
func NewEngine(pub logging.Publisher, seed string, shape PathShape) *Engine {
	return NewEngineWithConfig(pub, SimConfig{Seed: seed, PathShape: shape})
}

// NewEngineWithConfig constructs a fresh game from a fully-specified
// SimConfig, normalizing zero-valued fields first. This is the entry point
// cmd/server uses so field size, wave ceiling, tick rate, and the logging
// destination are all driven by one config value instead of scattered flags.
func NewEngineWithConfig(pub logging.Publisher, cfg SimConfig) *Engine {
	if pub == nil {
		pub = logging.NopPublisher()
	}
	cfg = cfg.normalized()
	e := &Engine{
		seed:          cfg.Seed,
		pathShape:     cfg.PathShape,
		Path:          GeneratePath(cfg.Seed, cfg.PathShape, cfg.FieldWidth, cfg.FieldHeight),
		Store:         NewStore(),
		Ledger:        NewLedger(pub),
		Waves:         NewWaveScheduler(cfg.Seed),
		Achievements:  NewAchievementMonitor(),
		State:         StatePlaying,
		ResourceBoost: 1,
		pub:           pub,
		enemyRNG:      newDeterministicRNG(cfg.Seed, "enemy"),
		defenseRNG:    newDeterministicRNG(cfg.Seed, "defense"),
		projectileRNG: newDeterministicRNG(cfg.Seed, "projectile"),
		bossRNG:       newDeterministicRNG(cfg.Seed, "boss"),
		fieldWidth:    cfg.FieldWidth,
		fieldHeight:   cfg.FieldHeight,
		tickRate:      cfg.TickRate,
	}
	e.Waves.maxWaves = cfg.MaxWaves
	return e
}

// TickRateHz reports the fixed rate this engine ticks at, for callers that
// drive their own clock off of it (the websocket hub's broadcast loop, the
// diagnostics endpoint).
func (e *Engine) TickRateHz() int {
	if e.tickRate <= 0 {
		return TickRate
	}
	return e.tickRate
}

// Publisher returns the engine's event sink, for callers that need to
// construct a fresh engine (e.g. after loading a save) with the same
// destination.
func (e *Engine) Publisher() logging.Publisher {
	return e.pub
}

func (e *Engine) reject(ctx context.Context, command string, code RejectCode, reason string) *CommandError {
	economy.CommandRejected(ctx, e.pub, e.Tick, economy.CommandRejectedPayload{
		Command: command, Code: string(code), Reason: reason,
	})
	return newCommandError(command, code, reason)
}

// StartWave requests the next wave begin (spec §6, §4.2).
func (e *Engine) StartWave(ctx context.Context) *CommandError {
	if e.State != StatePlaying {
		return e.reject(ctx, "start_wave", RejectGameOver, "game is not in progress")
	}
	next := e.Waves.CurrentWave + 1
	if next > e.Waves.effectiveMaxWaves() {
		return e.reject(ctx, "start_wave", RejectAllWavesComplete, "all waves have been played")
	}
	if !e.Waves.StartWave(ctx, e.pub, e.Tick, next) {
		return e.reject(ctx, "start_wave", RejectWaveInProgress, "a wave is already in progress")
	}
	return nil
}

// CanPlace reports whether a defense may be placed at grid cell (gx, gy):
// the cell must be unoccupied and not on the path (spec §4.1, §8 invariant 7).
func (e *Engine) CanPlace(gx, gy int) bool {
	if e.Store.DefenseAt(gx, gy) != nil {
		return false
	}
	center := vec2{X: (float64(gx) + 0.5) * GridSize, Y: (float64(gy) + 0.5) * GridSize}
	return e.Path.DistanceToPath(center) > PathHalfWidth
}

// CanAfford reports whether the ledger can cover cost.
func (e *Engine) CanAfford(cost DefenseCost) bool {
	return e.Ledger.CanAfford(cost)
}

// PlaceDefense validates and executes a placement command (spec §6, §7, S1).
func (e *Engine) PlaceDefense(ctx context.Context, gx, gy int, kind DefenseKind) (*Defense, *CommandError) {
	if e.State != StatePlaying {
		return nil, e.reject(ctx, "place_defense", RejectGameOver, "game is not in progress")
	}
	if e.Store.DefenseAt(gx, gy) != nil {
		return nil, e.reject(ctx, "place_defense", RejectCellOccupied, "cell already holds a defense")
	}
	center := vec2{X: (float64(gx) + 0.5) * GridSize, Y: (float64(gy) + 0.5) * GridSize}
	if e.Path.DistanceToPath(center) <= PathHalfWidth {
		return nil, e.reject(ctx, "place_defense", RejectOnPath, "cell center is too close to the path")
	}
	cost := defenseBaseCost[kind]
	if !e.Ledger.CanAfford(cost) {
		return nil, e.reject(ctx, "place_defense", RejectInsufficientFunds, "insufficient resources")
	}

	e.Ledger.Debit(ctx, e.Tick, cost, "place_defense")
	d := NewDefense("", kind, gx, gy, GridSize)
	e.Store.AddDefense(d)

	e.Achievements.Observe(ctx, e.pub, e.Ledger, e.Tick, "defense_built", 1)

	combat.Placed(ctx, e.pub, e.Tick, logging.EntityRef{ID: d.ID, Kind: logging.EntityKindDefense}, combat.PlacedPayload{
		DefenseKind: string(kind), GridX: gx, GridY: gy,
	})
	e.Journal.Record(Patch{Kind: PatchDefensePlaced, EntityID: d.ID, Payload: PositionPayload{X: d.Center.X, Y: d.Center.Y}})
	return d, nil
}

// UpgradeDefense validates and executes an upgrade command (spec §4.4).
func (e *Engine) UpgradeDefense(ctx context.Context, id string) *CommandError {
	d, ok := e.Store.Defenses[id]
	if !ok || d.Sold {
		return e.reject(ctx, "upgrade_defense", RejectNotFound, "no such defense")
	}
	if !d.CanUpgrade() {
		return e.reject(ctx, "upgrade_defense", RejectMaxLevel, "defense is already at max level")
	}
	cost := UpgradeCost(d.Kind, d.Level)
	if !e.Ledger.CanAfford(cost) {
		return e.reject(ctx, "upgrade_defense", RejectInsufficientFunds, "insufficient resources")
	}
	e.Ledger.Debit(ctx, e.Tick, cost, "upgrade_defense")
	d.Upgrade()
	e.Journal.Record(Patch{Kind: PatchDefenseLevel, EntityID: d.ID, Payload: d.Level})
	if !d.CanUpgrade() {
		e.Achievements.Observe(ctx, e.pub, e.Ledger, e.Tick, "defense_upgraded_to_max", 1)
	}
	return nil
}

// SellDefense removes a defense from play (no partial refund specified).
func (e *Engine) SellDefense(ctx context.Context, id string) *CommandError {
	d, ok := e.Store.Defenses[id]
	if !ok || d.Sold {
		return e.reject(ctx, "sell_defense", RejectNotFound, "no such defense")
	}
	d.Sold = true
	return nil
}

// ActivateSpecial triggers a defense's special ability (spec §4.4).
func (e *Engine) ActivateSpecial(ctx context.Context, id string) *CommandError {
	d, ok := e.Store.Defenses[id]
	if !ok || d.Sold {
		return e.reject(ctx, "activate_special", RejectNotFound, "no such defense")
	}
	if !d.TriggerSpecial(e.Store.DefenseList(), &e.ResourceBoost) {
		return e.reject(ctx, "activate_special", RejectOnCooldown, "special ability is on cooldown")
	}
	if d.Kind == DefenseEncryption {
		for _, p := range e.Store.Projectiles {
			p.Encrypted = true
			p.EncryptedMs = 3000
		}
	}
	return nil
}

// TickCommand advances the simulation by one fixed step of dtMs
// milliseconds, running every subsystem in the fixed order from spec §2/§5.
func (e *Engine) TickCommand(ctx context.Context, dtMs float64) {
	if e.State != StatePlaying {
		return
	}
	e.Tick++
	e.ClockMs += uint64(dtMs)

	e.runWaveSpawnPhase(ctx, dtMs)
	e.runEnemyUpdatePhase(ctx, dtMs)
	e.runDefenseUpdatePhase(ctx, dtMs)
	e.runProjectileUpdatePhase(ctx, dtMs)
	e.runDamageResolutionPhase(ctx)
	e.checkWaveCompletion(ctx)
	e.recordPatches()
	e.Store.PruneDead()
}

// recordPatches diffs the tick's resulting state into the journal (spec §6:
// the save-friendly incremental patch stream). Removal patches are recorded
// here, before PruneDead deletes the entities they describe.
func (e *Engine) recordPatches() {
	for _, en := range e.Store.EnemyList() {
		if en.Dead || en.ReachedEnd {
			e.Journal.Record(Patch{Kind: PatchEnemyRemoved, EntityID: en.ID})
			continue
		}
		e.Journal.Record(Patch{Kind: PatchEnemyPos, EntityID: en.ID, Payload: PositionPayload{X: en.Position.X, Y: en.Position.Y}})
		e.Journal.Record(Patch{Kind: PatchEnemyHealth, EntityID: en.ID, Payload: HealthPayload{Health: en.Health, MaxHealth: en.MaxHealth}})
	}
	for _, d := range e.Store.DefenseList() {
		if d.Sold {
			e.Journal.Record(Patch{Kind: PatchDefenseRemoved, EntityID: d.ID})
		}
	}
	for _, p := range e.Store.ProjectileList() {
		if !p.Active {
			e.Journal.Record(Patch{Kind: PatchProjectileRemoved, EntityID: p.ID})
			continue
		}
		e.Journal.Record(Patch{Kind: PatchProjectilePos, EntityID: p.ID, Payload: PositionPayload{X: p.Position.X, Y: p.Position.Y}})
	}
	e.Journal.Record(Patch{Kind: PatchResources, Payload: ResourcesPatchPayload{
		Dharma: e.Ledger.Resources.Dharma, Bandwidth: e.Ledger.Resources.Bandwidth, Anonymity: e.Ledger.Resources.Anonymity,
	}})
	e.Journal.Record(Patch{Kind: PatchLives, Payload: LivesPatchPayload{Lives: e.Ledger.Lives}})
	e.Journal.Record(Patch{Kind: PatchWave, Payload: WavePatchPayload{Wave: e.Waves.CurrentWave, InProgress: e.Waves.InProgress}})
}

func (e *Engine) runWaveSpawnPhase(ctx context.Context, dtMs float64) {
	spawns := e.Waves.Advance(dtMs, len(e.Store.Enemies))
	for _, s := range spawns {
		if s.IsBoss {
			boss := NewBoss(idFromCounter("boss", e.Tick*1000+uint64(len(e.Store.Enemies))), s.BossKind, s.HealthMultiplier, e.Path)
			e.Store.AddEnemy(boss)
			waves.Spawned(ctx, e.pub, e.Tick, logging.EntityRef{ID: boss.ID, Kind: logging.EntityKindBoss}, waves.SpawnedPayload{
				EnemyKind: string(s.BossKind), Health: boss.MaxHealth, IsBoss: true,
			})
			continue
		}
		enemy := NewEnemy("", s.Kind, s.HealthMultiplier, e.Path)
		e.Store.AddEnemy(enemy)
		waves.Spawned(ctx, e.pub, e.Tick, logging.EntityRef{ID: enemy.ID, Kind: logging.EntityKindEnemy}, waves.SpawnedPayload{
			EnemyKind: string(s.Kind), Health: enemy.MaxHealth, IsBoss: false,
		})
	}
}

func (e *Engine) runEnemyUpdatePhase(ctx context.Context, dtMs float64) {
	enemies := e.Store.EnemyList()
	defenses := e.Store.DefenseList() // start-of-tick snapshot, spec §5

	for _, en := range enemies {
		en.Status.Tick(dtMs)
		en.Advance(e.Path, dtMs, e.enemyRNG, enemies, defenses)

		if en.Boss != nil {
			UpdateBossAbilities(en, dtMs, e.bossRNG,
				func(count int, health, speed float64, near vec2) {
					for i := 0; i < count; i++ {
						minion := NewEnemy("", EnemyScriptKiddie, 1, e.Path)
						minion.Health = health
						minion.MaxHealth = health
						minion.BaseSpeed = speed
						minion.Position = near
						minion.WaypointIndex = en.WaypointIndex
						e.Store.AddEnemy(minion)
					}
				},
				func(radius, durationMs float64, center vec2) {
					for _, d := range e.Store.Defenses {
						if d.Sold {
							continue
						}
						if distance(center, d.Center) <= radius {
							d.Debuffs.Apply(EffectEMP, durationMs, 0)
						}
					}
				},
				func(fraction float64) {
					e.Ledger.Debit(ctx, e.Tick, DefenseCost{
						Dharma:    floorInt(float64(e.Ledger.Resources.Dharma) * fraction),
						Bandwidth: floorInt(float64(e.Ledger.Resources.Bandwidth) * fraction),
						Anonymity: floorInt(float64(e.Ledger.Resources.Anonymity) * fraction),
					}, "market_manipulation")
				},
			)
		}
	}
}

func (e *Engine) runDefenseUpdatePhase(ctx context.Context, dtMs float64) {
	byID := e.Store.Enemies
	enemies := e.Store.EnemyList()
	defenses := e.Store.DefenseList()

	for _, d := range defenses {
		if d.Sold {
			continue
		}
		d.TickTimers(dtMs, &e.ResourceBoost)
		d.UpdateTargetingAndFiring(ctx, e.pub, e.Tick, e.ClockMs, enemies, byID, e.Store.enemyArena,
			func(defense *Defense, target *Enemy) {
				targetHandle := e.Store.enemyArena.handleFor(target.ID)
				originHandle := e.Store.defenseArena.handleFor(defense.ID)
				p := NewProjectile("", defense, target, originHandle, targetHandle)
				e.Store.AddProjectile(p)
			},
			e.defenseRNG,
		)
		d.ApplyDistributorAura(defenses)
		d.ApplyAnonymityAura(defenses)
	}
}

func (e *Engine) runProjectileUpdatePhase(ctx context.Context, dtMs float64) {
	enemies := e.Store.EnemyList()

	for _, p := range e.Store.ProjectileList() {
		if !p.Active {
			continue
		}
		var target *Enemy
		if e.Store.enemyArena.resolve(p.Target) {
			target = e.Store.Enemies[p.Target.ID]
		}

		var origin *Defense
		if e.Store.defenseArena.resolve(p.Origin) {
			origin = e.Store.Defenses[p.Origin.ID]
		}
		originKind := DefenseFirewall
		if origin != nil {
			originKind = origin.Kind
		}

		p.Update(ctx, e.pub, e.Tick, dtMs, target, enemies, e.Store.enemyArena, e.fieldWidth, e.fieldHeight,
			func(proj *Projectile, hitTarget *Enemy) {
				e.applyProjectileDamage(ctx, proj, hitTarget, originKind, proj.Damage)
			},
		)
	}
}

func (e *Engine) applyProjectileDamage(ctx context.Context, p *Projectile, target *Enemy, originKind DefenseKind, damage float64) {
	var dealt float64
	if target.Boss != nil {
		dealt = ApplyBossDamage(ctx, e.pub, e.Tick, target, damage, DamagePhysical)
	} else {
		dealt = target.ApplyDamage(damage, DamagePhysical)
	}
	_ = dealt
	ApplyHitEffects(originKind, target, p.Position, e.Store.EnemyList(), e.Store.DefenseList(), damage)
}

func (e *Engine) runDamageResolutionPhase(ctx context.Context) {
	for _, en := range e.Store.EnemyList() {
		if en.Dead {
			reward := en.Reward.scale(float64(e.ResourceBoost))
			e.Ledger.Credit(ctx, e.Tick, reward, "enemy_killed")
			e.Achievements.Observe(ctx, e.pub, e.Ledger, e.Tick, "enemy_killed", 1)
			e.Achievements.Observe(ctx, e.pub, e.Ledger, e.Tick, "resources_total", reward.Dharma+reward.Bandwidth+reward.Anonymity)
			combat.Killed(ctx, e.pub, e.Tick, logging.EntityRef{ID: en.ID, Kind: logging.EntityKindEnemy}, combat.KilledPayload{
				EnemyKind: string(en.Kind), RewardDharma: reward.Dharma, RewardBandwidth: reward.Bandwidth, RewardAnonymity: reward.Anonymity,
			})
			continue
		}
		if en.ReachedEnd {
			loss := 1
			if en.Boss != nil {
				loss = 5
			}
			gameOver := e.Ledger.LoseLife(loss)
			combat.ReachedEnd(ctx, e.pub, e.Tick, logging.EntityRef{ID: en.ID, Kind: logging.EntityKindEnemy}, combat.ReachedEndPayload{
				EnemyKind: string(en.Kind), LivesLost: loss, LivesLeft: e.Ledger.Lives,
			})
			if gameOver && e.State == StatePlaying {
				e.State = StateGameOver
				waves.GameOver(ctx, e.pub, e.Tick)
			}
		}
	}
}

func (e *Engine) checkWaveCompletion(ctx context.Context) {
	if e.Waves.InProgress || e.State != StatePlaying {
		return
	}
	wave := e.Waves.CurrentWave
	if wave == 0 {
		return
	}
	// Detect the transition edge: only fire completion once, the tick the
	// scheduler flips InProgress false with a wave already recorded.
	if e.lastCompletedWave == wave {
		return
	}
	e.lastCompletedWave = wave

	bonus := e.Waves.WaveBonus(wave)
	e.Ledger.Credit(ctx, e.Tick, bonus, "wave_completed")
	e.Achievements.Observe(ctx, e.pub, e.Ledger, e.Tick, "wave_completed", 1)
	e.Achievements.Observe(ctx, e.pub, e.Ledger, e.Tick, "resources_total", bonus.Dharma+bonus.Bandwidth+bonus.Anonymity)
	waves.Completed(ctx, e.pub, e.Tick, waves.CompletedPayload{
		Wave: wave, BonusDharma: bonus.Dharma, BonusBandwidth: bonus.Bandwidth, BonusAnonymity: bonus.Anonymity,
	})

	if wave >= e.Waves.effectiveMaxWaves() {
		e.State = StateVictory
		e.Achievements.Observe(ctx, e.pub, e.Ledger, e.Tick, "game_completed", 1)
		waves.Victory(ctx, e.pub, e.Tick)
	}
}
