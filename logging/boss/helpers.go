// Package boss publishes structured events for boss phase transitions and
// shield state (spec §4.7).
package boss

import (
	"context"

	"ctrlspike/towerdefense/logging"
)

const (
	// EventPhaseChange is emitted exactly once per threshold crossing.
	EventPhaseChange logging.EventType = "boss.phase_change"
	// EventShieldBroken is emitted when a boss's shield is depleted.
	EventShieldBroken logging.EventType = "boss.shield_broken"
)

// PhaseChangePayload describes a phase transition.
type PhaseChangePayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// ShieldBrokenPayload describes the overflow damage that carried through.
type ShieldBrokenPayload struct {
	OverflowDamage float64 `json:"overflowDamage"`
}

// PhaseChange publishes a boss-phase-change event.
func PhaseChange(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload PhaseChangePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventPhaseChange,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

// ShieldBroken publishes a shield-broken event.
func ShieldBroken(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ShieldBrokenPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventShieldBroken,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
