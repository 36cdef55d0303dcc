// Package statuseffects publishes structured events for the status-effect
// pipeline (spec §4.6).
package statuseffects

import (
	"context"

	"ctrlspike/towerdefense/logging"
)

// EventApplied is emitted when a status effect is applied or refreshed on an actor.
const EventApplied logging.EventType = "status_effects.applied"

// AppliedPayload captures details about a status effect application.
type AppliedPayload struct {
	Kind       string `json:"kind"`
	SourceID   string `json:"sourceId,omitempty"`
	DurationMs int64  `json:"durationMs,omitempty"`
	Refreshed  bool   `json:"refreshed"`
}

// Applied publishes a status-effect-applied event.
func Applied(ctx context.Context, pub logging.Publisher, tick uint64, actor, target logging.EntityRef, payload AppliedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventApplied,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}
