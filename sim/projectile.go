package sim

import (
	"context"

	"ctrlspike/towerdefense/logging"
	"ctrlspike/towerdefense/logging/combat"
)

// ProjectileKind carries the special semantics inherited from the firing
// defense (spec §3).
type ProjectileKind string

const (
	ProjectilePlain    ProjectileKind = "plain"
	ProjectilePiercing ProjectileKind = "piercing"
	ProjectileHoming   ProjectileKind = "homing"
	ProjectileSplash   ProjectileKind = "splash"
	ProjectileCloaking ProjectileKind = "cloaking"
)

func projectileKindFor(defenseKind DefenseKind) ProjectileKind {
	switch defenseKind {
	case DefenseEncryption:
		return ProjectilePiercing
	case DefenseMirror:
		return ProjectileHoming
	case DefenseDistributor:
		return ProjectileSplash
	case DefenseAnonymity:
		return ProjectileCloaking
	default:
		return ProjectilePlain
	}
}

// Projectile is a kinematic actor traveling from a defense toward a target
// (spec §3).
type Projectile struct {
	ID       string
	Position vec2
	Velocity vec2
	Radius   float64
	Damage   float64
	Kind     ProjectileKind

	Origin Handle
	Target Handle

	Hit []string // enemy IDs already struck, for piercing dedupe

	Encrypted   bool
	EncryptedMs float64

	Active bool
}

// NewProjectile spawns a projectile at the defense's center, aimed at the
// target's current position, inheriting kind semantics from defenseKind.
func NewProjectile(id string, d *Defense, target *Enemy, originHandle, targetHandle Handle) *Projectile {
	dir := target.Position.sub(d.Center).normalized()
	speed := d.effectiveProjectileSpeed()
	return &Projectile{
		ID:       id,
		Position: d.Center,
		Velocity: dir.scale(speed),
		Radius:   4,
		Damage:   d.effectiveDamage(),
		Kind:     projectileKindFor(d.Kind),
		Origin:   originHandle,
		Target:   targetHandle,
		Active:   true,
	}
}

func (p *Projectile) alreadyHit(id string) bool {
	for _, h := range p.Hit {
		if h == id {
			return true
		}
	}
	return false
}

// Update advances one tick of motion and resolves collision (spec §4.5).
// fieldWidth/fieldHeight bound the out-of-bounds expiry margin.
func (p *Projectile) Update(
	ctx context.Context,
	pub logging.Publisher,
	tick uint64,
	dtMs float64,
	target *Enemy,
	enemies []*Enemy,
	enemyArena *arena,
	fieldWidth, fieldHeight float64,
	applyHit func(p *Projectile, target *Enemy),
) {
	if !p.Active {
		return
	}

	if p.Kind == ProjectileHoming {
		if target != nil && !target.Dead {
			dir := target.Position.sub(p.Position).normalized()
			p.Velocity = dir.scale(p.Velocity.length())
		} else {
			nearest := nearestAlive(p.Position, enemies)
			if nearest != nil {
				dir := nearest.Position.sub(p.Position).normalized()
				p.Velocity = dir.scale(p.Velocity.length())
				// Rebind the lock itself, not just this tick's heading: a
				// dead-but-unpruned target still resolves as alive for one
				// more tick, and once it's pruned p.Target would resolve to
				// nothing forever and the collision check below would never
				// fire again.
				p.Target = enemyArena.handleFor(nearest.ID)
				target = nearest
			}
		}
	}

	p.Position = p.Position.add(p.Velocity.scale(dtMs / 1000.0))

	if p.EncryptedMs > 0 {
		p.EncryptedMs -= dtMs
		if p.EncryptedMs <= 0 {
			p.Encrypted = false
		}
	}

	const margin = 50.0
	if p.Position.X < -margin || p.Position.X > fieldWidth+margin ||
		p.Position.Y < -margin || p.Position.Y > fieldHeight+margin {
		p.Active = false
		return
	}

	if p.Kind == ProjectilePiercing {
		// A piercing bolt sweeps every enemy along its path in one tick, not
		// just the enemy it locked onto at spawn (spec §4.5 scenario S3).
		for _, e := range enemies {
			if e == nil || e.Dead || e.ReachedEnd || p.alreadyHit(e.ID) {
				continue
			}
			if distance(p.Position, e.Position) <= e.Radius+p.Radius {
				applyHit(p, e)
				p.Hit = append(p.Hit, e.ID)
				combat.Hit(ctx, pub, tick,
					logging.EntityRef{ID: p.ID, Kind: logging.EntityKindProjectile},
					logging.EntityRef{ID: e.ID, Kind: logging.EntityKindEnemy},
					combat.HitPayload{ProjectileID: p.ID, Damage: p.Damage, RemainingHP: e.Health, Piercing: true},
				)
			}
		}
		return
	}

	if target != nil && !target.Dead && !p.alreadyHit(target.ID) {
		if distance(p.Position, target.Position) <= target.Radius+p.Radius {
			applyHit(p, target)
			p.Hit = append(p.Hit, target.ID)
			p.Active = false
			combat.Hit(ctx, pub, tick,
				logging.EntityRef{ID: p.ID, Kind: logging.EntityKindProjectile},
				logging.EntityRef{ID: target.ID, Kind: logging.EntityKindEnemy},
				combat.HitPayload{ProjectileID: p.ID, Damage: p.Damage, RemainingHP: target.Health, Piercing: false},
			)
		}
	}
}

func nearestAlive(from vec2, enemies []*Enemy) *Enemy {
	var best *Enemy
	bestDist := -1.0
	for _, e := range enemies {
		if e == nil || e.Dead || e.ReachedEnd {
			continue
		}
		d := distance(from, e.Position)
		if best == nil || d < bestDist {
			best = e
			bestDist = d
		}
	}
	return best
}

// ApplyHitEffects mirrors spec §4.4's side-effect table at impact time and
// resolves splash damage, which excludes the original target.
func ApplyHitEffects(kind DefenseKind, target *Enemy, position vec2, enemies []*Enemy, defenses []*Defense, baseDamage float64) {
	switch kind {
	case DefenseEncryption:
		target.Status.Apply(EffectScrambled, 1000, 0)
	case DefenseAnonymity:
		target.Status.Apply(EffectStealthed, 500, 0)
	case DefenseDistributor:
		splashDamage := baseDamage * 0.5
		for _, e := range enemies {
			if e == nil || e == target || e.Dead || e.ReachedEnd {
				continue
			}
			if distance(position, e.Position) <= 50 {
				e.ApplyDamage(splashDamage, DamageSplash)
			}
		}
		for _, d := range defenses {
			if d == nil || d.Sold {
				continue
			}
			if distance(position, d.Center) <= 100 {
				d.Buffs.Apply(EffectBoosted, 1000, 0)
			}
		}
	}
}
