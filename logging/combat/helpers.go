// Package combat publishes structured events for targeting, firing, and
// projectile impacts.
package combat

import (
	"context"

	"ctrlspike/towerdefense/logging"
)

const (
	// EventFired is emitted when a defense launches a projectile.
	EventFired logging.EventType = "combat.defense_fired"
	// EventHit is emitted when a projectile strikes an enemy.
	EventHit logging.EventType = "combat.projectile_hit"
	// EventKilled is emitted when an enemy's health reaches zero.
	EventKilled logging.EventType = "combat.enemy_killed"
	// EventReachedEnd is emitted when an enemy reaches the final waypoint.
	EventReachedEnd logging.EventType = "combat.enemy_reached_end"
	// EventPlaced is emitted when a defense is successfully placed.
	EventPlaced logging.EventType = "combat.defense_placed"
)

// PlacedPayload captures the defense a placement command just created.
type PlacedPayload struct {
	DefenseKind string `json:"defenseKind"`
	GridX       int    `json:"gridX"`
	GridY       int    `json:"gridY"`
}

// Placed publishes a defense-placed event.
func Placed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PlacedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPlaced,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// FiredPayload captures the projectile a defense just launched.
type FiredPayload struct {
	DefenseKind   string `json:"defenseKind"`
	ProjectileID  string `json:"projectileId"`
	TargetID      string `json:"targetId,omitempty"`
}

// HitPayload captures the outcome of a single projectile impact.
type HitPayload struct {
	ProjectileID string  `json:"projectileId"`
	Damage       float64 `json:"damage"`
	RemainingHP  float64 `json:"remainingHp"`
	Piercing     bool    `json:"piercing"`
}

// KilledPayload captures the reward credited for a kill.
type KilledPayload struct {
	EnemyKind      string `json:"enemyKind"`
	RewardDharma   int    `json:"rewardDharma"`
	RewardBandwidth int   `json:"rewardBandwidth"`
	RewardAnonymity int   `json:"rewardAnonymity"`
}

// ReachedEndPayload captures the life debit an escaping enemy causes.
type ReachedEndPayload struct {
	EnemyKind  string `json:"enemyKind"`
	LivesLost  int    `json:"livesLost"`
	LivesLeft  int    `json:"livesLeft"`
}

// Fired publishes a defense-fired event.
func Fired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload FiredPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventFired,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// Hit publishes a projectile-hit event.
func Hit(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload HitPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventHit,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// Killed publishes an enemy-killed event.
func Killed(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload KilledPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventKilled,
		Tick:     tick,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// ReachedEnd publishes an enemy-reached-end event.
func ReachedEnd(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload ReachedEndPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventReachedEnd,
		Tick:     tick,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityWarn,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}
