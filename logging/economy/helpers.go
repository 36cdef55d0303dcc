// Package economy publishes structured events for the resources ledger.
package economy

import (
	"context"

	"ctrlspike/towerdefense/logging"
)

const (
	// EventCredited is emitted when resources are credited to the ledger.
	EventCredited logging.EventType = "economy.credited"
	// EventDebited is emitted when resources are debited from the ledger.
	EventDebited logging.EventType = "economy.debited"
	// EventCommandRejected is emitted when a command is rejected for a
	// precondition violation (insufficient funds, occupied cell, ...).
	EventCommandRejected logging.EventType = "economy.command_rejected"
)

// ResourcesPayload mirrors the resources triple for logging purposes.
type ResourcesPayload struct {
	Dharma     int    `json:"dharma"`
	Bandwidth  int    `json:"bandwidth"`
	Anonymity  int    `json:"anonymity"`
	Reason     string `json:"reason,omitempty"`
}

// CommandRejectedPayload describes why a command was refused.
type CommandRejectedPayload struct {
	Command string `json:"command"`
	Code    string `json:"code"`
	Reason  string `json:"reason"`
}

// Credited publishes a resources-credited event.
func Credited(ctx context.Context, pub logging.Publisher, tick uint64, payload ResourcesPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCredited,
		Tick:     tick,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// Debited publishes a resources-debited event.
func Debited(ctx context.Context, pub logging.Publisher, tick uint64, payload ResourcesPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDebited,
		Tick:     tick,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}

// CommandRejected publishes a rejected-command diagnostic (spec §7).
func CommandRejected(ctx context.Context, pub logging.Publisher, tick uint64, payload CommandRejectedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventCommandRejected,
		Tick:     tick,
		Severity: logging.SeverityWarn,
		Category: logging.CategorySystem,
		Payload:  payload,
	})
}
