package sim

import "math/rand"

// Enemy is a live hostile actor following the Path (spec §3).
type Enemy struct {
	ID       string
	Kind     EnemyKind
	Position vec2

	WaypointIndex int
	Progress      float64

	Health    float64
	MaxHealth float64
	BaseSpeed float64
	Radius    float64

	Resistance map[DamageKind]float64
	Reward     Resources

	Status StatusEffects
	Trail  []vec2

	Dead       bool
	ReachedEnd bool

	Boss *BossState // non-nil for boss-kind enemies (spec §9: field, not subclass)

	federalBoosted bool // recomputed each Advance from start-of-tick defense positions
}

// BossState specializes Enemy with phase transitions, an optional shield,
// and per-kind ability cooldowns (spec §3, §4.7). Represented as a field
// rather than an inheritance chain, per the redesign guidance.
type BossState struct {
	Kind    BossKind
	Phases  int
	Phase   int
	BaseSpeed float64

	ShieldActive  bool
	ShieldHealth  float64
	ShieldMax     float64

	MinionTimerMs   float64
	EMPTimerMs      float64
	ShieldTimerMs   float64
}

// NewEnemy constructs an enemy of kind, scaled by healthMultiplier, placed
// at the path's first waypoint.
func NewEnemy(id string, kind EnemyKind, healthMultiplier float64, path *Path) *Enemy {
	base := enemyBase[kind]
	start := path.FirstWaypoint()
	health := base.Health * healthMultiplier
	return &Enemy{
		ID:            id,
		Kind:          kind,
		Position:      start,
		WaypointIndex: 0,
		Health:        health,
		MaxHealth:     health,
		BaseSpeed:     base.Speed,
		Radius:        base.Size,
		Resistance:    make(map[DamageKind]float64),
		Reward:        base.Reward,
	}
}

// NewBoss constructs a boss enemy of kind, scaled by healthMultiplier.
func NewBoss(id string, kind BossKind, healthMultiplier float64, path *Path) *Enemy {
	base := bossBase[kind]
	start := path.FirstWaypoint()
	health := base.Health * healthMultiplier
	e := &Enemy{
		ID:            id,
		Kind:          "", // bosses are not part of the AllEnemyKinds enumeration
		Position:      start,
		WaypointIndex: 0,
		Health:        health,
		MaxHealth:     health,
		BaseSpeed:     base.Speed,
		Radius:        base.Size,
		Resistance:    make(map[DamageKind]float64),
		Reward:        base.Reward,
	}
	e.Boss = &BossState{
		Kind:      kind,
		Phases:    base.Phases,
		Phase:     1,
		BaseSpeed: base.Speed,
	}
	if kind == BossMegaCorpTitan {
		e.Boss.ShieldActive = true
		e.Boss.ShieldMax = 100
		e.Boss.ShieldHealth = 100
	}
	return e
}

func (e *Enemy) resistanceFor(kind DamageKind) float64 {
	if r, ok := e.Resistance[kind]; ok {
		return r
	}
	return 1.0
}

// ApplyDamage applies incoming damage of the given kind, respecting
// resistance, and marks the enemy dead at zero health (spec §4.3). Returns
// the actual damage applied (after resistance, before boss-shield
// absorption which callers handle separately for bosses).
func (e *Enemy) ApplyDamage(amount float64, kind DamageKind) float64 {
	if e.Dead {
		return 0
	}
	actual := amount * e.resistanceFor(kind)
	e.Health -= actual
	if e.Health <= 0 {
		e.Health = 0
		e.Dead = true
		e.Status.Clear()
	}
	return actual
}

// effectiveSpeed folds in the status-effect speed multiplier and, for
// bosses, the per-kind BaseSpeed inflated across phase transitions.
func (e *Enemy) effectiveSpeed() float64 {
	base := e.BaseSpeed
	if e.Kind == EnemyCorruptedMonk {
		base *= 0.7
	}
	if e.Kind == EnemyFederalAgent && e.federalBoosted {
		base *= 1.5
	}
	return base * e.Status.SpeedMultiplier()
}

// Advance moves the enemy toward its current waypoint by speed*dt along the
// path, wrapping to the next waypoint on arrival within tolerance, and
// setting ReachedEnd on reaching the final waypoint (spec §4.3).
func (e *Enemy) Advance(path *Path, dtMs float64, rng *rand.Rand, others []*Enemy, defenses []*Defense) {
	if e.Dead || e.ReachedEnd {
		return
	}

	if e.Kind == EnemyFederalAgent {
		e.federalBoosted = false
		for _, d := range defenses {
			if d == nil || d.Sold {
				continue
			}
			if distance(e.Position, d.Center) <= 200 {
				e.federalBoosted = true
				break
			}
		}
	}

	speed := e.effectiveSpeed()
	if speed > 0 {
		target := path.Waypoint(e.WaypointIndex)
		toTarget := target.sub(e.Position)
		step := speed * dtMs / 1000.0
		if toTarget.length() <= WaypointArrivalTolerance {
			if e.WaypointIndex >= path.WaypointCount()-1 {
				e.ReachedEnd = true
				return
			}
			e.WaypointIndex++
			target = path.Waypoint(e.WaypointIndex)
			toTarget = target.sub(e.Position)
		}
		if toTarget.length() > 0 {
			e.Position = e.Position.add(toTarget.normalized().scale(step))
		}
	}
	e.Progress = pathProgress(path, e.WaypointIndex, e.Position)

	e.applyPassive(path, dtMs, rng, others, defenses)

	e.Trail = append(e.Trail, e.Position)
	if len(e.Trail) > 10 {
		e.Trail = e.Trail[len(e.Trail)-10:]
	}
}

// pathProgress approximates overall path progress in [0,1] by taking the
// arc length already covered up to the last waypoint reached and adding
// position's signed projection onto the current segment, used by targeting
// scores, the passive-repulsion bound, and quantumHacker's teleport. The
// projection (not a plain distance) is what lets a position behind the last
// waypoint read back as regression instead of extra progress.
func pathProgress(path *Path, waypointIndex int, position vec2) float64 {
	if path.WaypointCount() <= 1 || path.length == 0 {
		return 1
	}
	idx := minInt(waypointIndex, len(path.cumulative)-1)
	prevIdx := idx
	if prevIdx > 0 {
		prevIdx--
	}
	base := path.cumulative[prevIdx]
	from := path.Waypoint(prevIdx)
	seg := path.Waypoint(idx).sub(from)
	traveled := 0.0
	if segLen := seg.length(); segLen > 0 {
		traveled = position.sub(from).dot(seg) / segLen
	}
	return clampFloat((base+traveled)/path.length, 0, 1)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// applyPassive dispatches the per-kind passive behavior (spec §4.3 table),
// implemented as a single tagged-variant switch rather than an inheritance
// chain (spec §9).
func (e *Enemy) applyPassive(path *Path, dtMs float64, rng *rand.Rand, others []*Enemy, defenses []*Defense) {
	switch e.Kind {
	case EnemyScriptKiddie:
		jitterScale := e.effectiveSpeed() * 0.3 * dtMs / 1000.0
		e.Position.X += randomRange(rng, -jitterScale, jitterScale)
		e.Position.Y += randomRange(rng, -jitterScale, jitterScale)

	case EnemyCorporateSaboteur:
		if rng.Float64() < 0.01 {
			e.Status.Apply(EffectStealthed, 2000, 0)
		}

	case EnemyAISurveillance:
		repulsion := vec2{}
		for _, d := range defenses {
			if d == nil || d.Sold {
				continue
			}
			d2 := distance(e.Position, d.Center)
			if d2 > 0 && d2 < 300 {
				dir := e.Position.sub(d.Center).normalized()
				repulsion = repulsion.add(dir.scale(200 / d2))
			}
		}
		if repulsion.length() > 0 {
			candidate := e.Position.add(repulsion.scale(dtMs / 1000.0))
			// Bounded so the push away from defenses can never shove the
			// enemy back across a waypoint it already reached.
			minReached := 0.0
			if e.WaypointIndex > 0 {
				minReached = path.cumulative[minInt(e.WaypointIndex-1, len(path.cumulative)-1)]
			}
			if pathProgress(path, e.WaypointIndex, candidate)*path.length >= minReached {
				e.Position = candidate
			}
		}

	case EnemyQuantumHacker:
		if rng.Float64() < 0.005 {
			e.Progress = clampFloat(e.Progress+0.1, 0, 1)
			targetX, targetY, _ := path.PositionAt(e.Progress)
			e.Position = vec2{X: targetX, Y: targetY}
			e.WaypointIndex = waypointForProgress(path, e.Progress)
		}

	case EnemyCorruptedMonk:
		for _, other := range others {
			if other == nil || other == e || other.Dead || other.Kind != EnemyCorruptedMonk {
				continue
			}
			if distance(e.Position, other.Position) <= 100 {
				other.Health = clampFloat(other.Health+0.01*dtMs, 0, other.MaxHealth)
			}
		}
		for _, d := range defenses {
			if d == nil || d.Sold {
				continue
			}
			if distance(e.Position, d.Center) <= 80 {
				d.Debuffs.Apply(EffectCorrupted, 1000, 0)
			}
		}
	}
}

func waypointForProgress(path *Path, progress float64) int {
	target := progress * path.length
	for i := 1; i < len(path.cumulative); i++ {
		if target <= path.cumulative[i] {
			return i - 1
		}
	}
	return path.WaypointCount() - 1
}
