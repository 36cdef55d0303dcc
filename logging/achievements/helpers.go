// Package achievements publishes structured events for the achievement monitor.
package achievements

import (
	"context"

	"ctrlspike/towerdefense/logging"
)

// EventUnlocked is emitted the first time an achievement's threshold is crossed.
const EventUnlocked logging.EventType = "achievements.unlocked"

// UnlockedPayload describes the achievement that was just latched.
type UnlockedPayload struct {
	ID              string `json:"id"`
	RewardDharma    int    `json:"rewardDharma"`
	RewardBandwidth int    `json:"rewardBandwidth"`
	RewardAnonymity int    `json:"rewardAnonymity"`
}

// Unlocked publishes an achievement-unlocked event.
func Unlocked(ctx context.Context, pub logging.Publisher, tick uint64, payload UnlockedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventUnlocked,
		Tick:     tick,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryGameplay,
		Payload:  payload,
	})
}
