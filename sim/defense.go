package sim

import (
	"context"
	"math"
	"math/rand"

	"ctrlspike/towerdefense/logging"
	"ctrlspike/towerdefense/logging/combat"
	"ctrlspike/towerdefense/stats"
)

// Defense is a grid-anchored actor with targeting, firing cadence, and a
// per-instance stats.Component that folds level/buff/debuff modifiers into
// effective stats (spec §3, §4.4).
type Defense struct {
	ID    string
	Kind  DefenseKind
	Cell  [2]int
	Center vec2

	Level      int
	Experience int

	Stats stats.Component

	Target       Handle
	FacingAngle  float64
	LastFireTick uint64

	Buffs   StatusEffects
	Debuffs StatusEffects

	SpecialActiveMs   float64
	SpecialCooldownMs float64

	Active bool
	Sold   bool
}

// NewDefense constructs a defense of kind, anchored to grid cell (gx, gy).
func NewDefense(id string, kind DefenseKind, gx, gy int, gridSize float64) *Defense {
	archetype := defenseStatArchetype[kind]
	center := vec2{X: (float64(gx) + 0.5) * gridSize, Y: (float64(gy) + 0.5) * gridSize}
	return &Defense{
		ID:     id,
		Kind:   kind,
		Cell:   [2]int{gx, gy},
		Center: center,
		Level:  1,
		Stats:  stats.DefaultComponent(archetype),
		Active: true,
	}
}

// isDisabledByCorruption/EMP folds the two debuffs that force !active (spec
// §4.4: emp is temporary, corrupted is permanent "destroyed").
func (d *Defense) isDisabled() bool {
	return d.Debuffs.Has(EffectEMP) || d.Debuffs.Has(EffectCorrupted)
}

// applyModifierLayers pushes the current buff/debuff set into the stats
// component as temporary-layer deltas, then resolves at the given tick. The
// component itself is the deterministic pure function of (base, level,
// buffs, debuffs) named in spec §4.4; this method is the boundary that
// translates named effects into stat deltas.
func (d *Defense) resolveStats(tick uint64) {
	comp := &d.Stats

	levelDelta := stats.NewStatDelta()
	levelDelta.Mul[stats.StatDamage] = 1 + 0.2*float64(d.Level)
	levelDelta.Mul[stats.StatRange] = 1 + 0.1*float64(d.Level)
	levelDelta.Mul[stats.StatFireRateMs] = 1 - 0.1*float64(d.Level)
	comp.Apply(stats.CommandStatChange{
		Layer:  stats.LayerPermanent,
		Source: stats.SourceKey{Kind: stats.SourceKindProgression, ID: "level"},
		Delta:  levelDelta,
	})

	boosted := d.Buffs.Has(EffectBoosted)
	weakened := d.Debuffs.Has(EffectSlowed)
	blinded := d.Debuffs.Has(EffectScrambled)
	slowedFireRate := d.Debuffs.Has(EffectSlowed)

	tempDelta := stats.NewStatDelta()
	if boosted {
		tempDelta.Mul[stats.StatDamage] *= 1.5
		tempDelta.Mul[stats.StatRange] *= 1.2
		tempDelta.Mul[stats.StatFireRateMs] *= 0.7
		tempDelta.Mul[stats.StatProjectileSpeed] *= 1.3
	}
	if weakened {
		tempDelta.Mul[stats.StatDamage] *= 0.7
	}
	if blinded {
		tempDelta.Mul[stats.StatRange] *= 0.8
	}
	if slowedFireRate {
		tempDelta.Mul[stats.StatFireRateMs] *= 1.3
	}
	comp.Apply(stats.CommandStatChange{
		Layer:         stats.LayerTemporary,
		Source:        stats.SourceKey{Kind: stats.SourceKindTemporary, ID: "buffs"},
		Delta:         tempDelta,
		ExpiresAtTick: tick + 1,
	})

	comp.Resolve(tick)
}

func (d *Defense) effectiveDamage() float64 {
	return math.Floor(d.Stats.GetDerived(stats.DerivedDamage))
}
func (d *Defense) effectiveRange() float64 {
	return d.Stats.GetDerived(stats.DerivedRange)
}
func (d *Defense) effectiveFireRateMs() float64 {
	return d.Stats.GetDerived(stats.DerivedFireRateMs)
}
func (d *Defense) effectiveProjectileSpeed() float64 {
	return d.Stats.GetDerived(stats.DerivedProjectileSpeed)
}

// scoreCandidate implements the targeting score formula from spec §4.4.
func scoreCandidate(d *Defense, e *Enemy) float64 {
	dist := distance(d.Center, e.Position)
	return 100*e.Progress +
		50*(1-e.Health/e.MaxHealth) +
		0.5*e.effectiveSpeed() +
		2*float64(e.Reward.Dharma) +
		0.1*(d.effectiveRange()-dist)
}

// AcquireTarget scans enemies within effective range, rejecting stealthed
// enemies, and binds the highest-scoring candidate (spec §4.4). Ties are
// broken by lower entity ID.
func (d *Defense) AcquireTarget(enemies []*Enemy, arena *arena) {
	if d.Kind == DefenseDecoy {
		return
	}
	var best *Enemy
	bestScore := math.Inf(-1)
	rangeSq := d.effectiveRange()
	for _, e := range enemies {
		if e == nil || e.Dead || e.ReachedEnd {
			continue
		}
		if e.Status.Has(EffectStealthed) {
			continue
		}
		if distance(d.Center, e.Position) > rangeSq {
			continue
		}
		score := scoreCandidate(d, e)
		if score > bestScore || (score == bestScore && best != nil && e.ID < best.ID) {
			bestScore = score
			best = e
		}
	}
	if best != nil {
		d.Target = arena.handleFor(best.ID)
	} else {
		d.Target = NoHandle
	}
}

// resolveTarget returns the live enemy the target handle points at, or nil
// if the handle is stale, the enemy died, went off-path, or left range —
// any of which invalidates the binding per spec §4.4.
func (d *Defense) resolveTarget(byID map[string]*Enemy, arena *arena) *Enemy {
	if !arena.resolve(d.Target) {
		return nil
	}
	e, ok := byID[d.Target.ID]
	if !ok || e.Dead || e.ReachedEnd {
		return nil
	}
	if distance(d.Center, e.Position) > d.effectiveRange() {
		return nil
	}
	return e
}

// UpdateTargetingAndFiring runs one tick of targeting and firing for one
// defense: rebind if the current target is invalid, then fire if cadence
// and a bound target allow (spec §4.4).
func (d *Defense) UpdateTargetingAndFiring(
	ctx context.Context,
	pub logging.Publisher,
	tick uint64,
	nowMs uint64,
	enemies []*Enemy,
	byID map[string]*Enemy,
	enemyArena *arena,
	spawnProjectile func(*Defense, *Enemy),
	rng *rand.Rand,
) {
	d.resolveStats(tick)
	if d.isDisabled() || d.Kind == DefenseDecoy {
		d.Active = false
		return
	}
	d.Active = true

	target := d.resolveTarget(byID, enemyArena)
	if target == nil {
		d.AcquireTarget(enemies, enemyArena)
		target = d.resolveTarget(byID, enemyArena)
	}
	if target == nil {
		return
	}

	d.FacingAngle = angleTo(d.Center, target.Position)

	fireRate := d.effectiveFireRateMs()
	if nowMs-d.LastFireTick < uint64(fireRate) {
		return
	}
	d.LastFireTick = nowMs

	spawnProjectile(d, target)
	d.applyOnFireSideEffects(ctx, pub, tick, enemies, rng)

	combat.Fired(ctx, pub, tick, logging.EntityRef{ID: d.ID, Kind: logging.EntityKindDefense}, combat.FiredPayload{
		DefenseKind: string(d.Kind),
		TargetID:    target.ID,
	})
}

// applyOnFireSideEffects implements the kind-specific effects applied at
// projectile creation time (spec §4.4).
func (d *Defense) applyOnFireSideEffects(ctx context.Context, pub logging.Publisher, tick uint64, enemies []*Enemy, rng *rand.Rand) {
	switch d.Kind {
	case DefenseEncryption:
		radius := d.effectiveRange() / 2
		for _, e := range enemies {
			if e == nil || e.Dead {
				continue
			}
			if distance(d.Center, e.Position) <= radius {
				e.Status.Apply(EffectScrambled, 2000, 0)
			}
		}
	case DefenseMirror:
		// Draws one value from rng and discards it: no state changes and no
		// event is emitted for mirror shots.
		_ = rng.Float64() < 0.1
	}
}

// ApplyDistributorAura and ApplyAnonymityAura are invoked by the engine
// after firing, since they target *other* defenses rather than enemies.
func (d *Defense) ApplyDistributorAura(others []*Defense) {
	if d.Kind != DefenseDistributor {
		return
	}
	radius := d.effectiveRange() * 0.8
	for _, other := range others {
		if other == nil || other == d || other.Sold {
			continue
		}
		if distance(d.Center, other.Center) <= radius {
			other.Buffs.Apply(EffectBoosted, 2000, 0)
		}
	}
}

func (d *Defense) ApplyAnonymityAura(others []*Defense) {
	if d.Kind != DefenseAnonymity {
		return
	}
	radius := d.effectiveRange() * 0.7
	for _, other := range others {
		if other == nil || other == d || other.Sold {
			continue
		}
		if distance(d.Center, other.Center) <= radius {
			other.Buffs.Apply(EffectCloaked, 3000, 0)
		}
	}
}

// CanUpgrade reports whether the defense is below max level.
func (d *Defense) CanUpgrade() bool {
	return d.Level < MaxDefenseLevel
}

// Upgrade bumps the level. Callers MUST have already checked CanUpgrade and
// debited UpgradeCost.
func (d *Defense) Upgrade() {
	d.Level++
}

// TriggerSpecial activates the per-kind special ability if not on cooldown
// (spec §4.4). resourceBoost is a pointer to the engine-owned multiplier
// (replacing the source's process-wide global, spec §9).
func (d *Defense) TriggerSpecial(others []*Defense, resourceBoost *int) bool {
	if d.SpecialCooldownMs > 0 {
		return false
	}
	d.SpecialActiveMs = SpecialAbilityActiveMs
	d.SpecialCooldownMs = SpecialAbilityCooldownMs

	switch d.Kind {
	case DefenseMirror:
		d.Buffs.Apply(EffectReflection, SpecialAbilityActiveMs, 0)
	case DefenseAnonymity:
		radius := d.effectiveRange() * 1.5
		for _, other := range others {
			if other == nil || other == d || other.Sold {
				continue
			}
			if distance(d.Center, other.Center) <= radius {
				other.Buffs.Apply(EffectCloaked, SpecialAbilityActiveMs, 0)
			}
		}
	case DefenseDistributor:
		*resourceBoost = 2
	case DefenseEncryption:
		// Applying `encrypted` to all live projectiles is done by the engine,
		// which owns the projectile collection.
	case DefenseFirewall:
		// Barrier visual only; no combat effect.
	}
	return true
}

// TickTimers decrements the special-ability timers by dtMs, restoring the
// resource boost to 1 on deactivation (spec §4.4, §9).
func (d *Defense) TickTimers(dtMs float64, resourceBoost *int) {
	if d.SpecialCooldownMs > 0 {
		d.SpecialCooldownMs -= dtMs
		if d.SpecialCooldownMs < 0 {
			d.SpecialCooldownMs = 0
		}
	}
	if d.SpecialActiveMs > 0 {
		d.SpecialActiveMs -= dtMs
		if d.SpecialActiveMs <= 0 {
			d.SpecialActiveMs = 0
			if d.Kind == DefenseDistributor {
				*resourceBoost = 1
			}
		}
	}
	d.Buffs.Tick(dtMs)
	d.Debuffs.Tick(dtMs)
}
