// Package waves publishes structured events for wave scheduling.
package waves

import (
	"context"

	"ctrlspike/towerdefense/logging"
)

const (
	// EventStarted is emitted when a wave begins spawning.
	EventStarted logging.EventType = "waves.started"
	// EventCompleted is emitted when a wave's groups are exhausted and no
	// enemies remain.
	EventCompleted logging.EventType = "waves.completed"
	// EventSpawned is emitted for each enemy spawn.
	EventSpawned logging.EventType = "waves.enemy_spawned"
	// EventVictory is emitted once the final wave is completed.
	EventVictory logging.EventType = "waves.victory"
	// EventGameOver is emitted once lives reach zero.
	EventGameOver logging.EventType = "waves.game_over"
)

// StartedPayload describes the wave that just began.
type StartedPayload struct {
	Wave int `json:"wave"`
}

// CompletedPayload describes the bonus credited on wave completion.
type CompletedPayload struct {
	Wave            int `json:"wave"`
	BonusDharma     int `json:"bonusDharma"`
	BonusBandwidth  int `json:"bonusBandwidth"`
	BonusAnonymity  int `json:"bonusAnonymity"`
}

// SpawnedPayload describes a single enemy spawn.
type SpawnedPayload struct {
	EnemyKind string  `json:"enemyKind"`
	Health    float64 `json:"health"`
	IsBoss    bool    `json:"isBoss"`
}

// Started publishes a wave-started event.
func Started(ctx context.Context, pub logging.Publisher, tick uint64, payload StartedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{Type: EventStarted, Tick: tick, Severity: logging.SeverityInfo, Category: logging.CategoryGameplay, Payload: payload})
}

// Completed publishes a wave-completed event.
func Completed(ctx context.Context, pub logging.Publisher, tick uint64, payload CompletedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{Type: EventCompleted, Tick: tick, Severity: logging.SeverityInfo, Category: logging.CategoryGameplay, Payload: payload})
}

// Spawned publishes an enemy-spawned event.
func Spawned(ctx context.Context, pub logging.Publisher, tick uint64, target logging.EntityRef, payload SpawnedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{Type: EventSpawned, Tick: tick, Targets: []logging.EntityRef{target}, Severity: logging.SeverityDebug, Category: logging.CategoryGameplay, Payload: payload})
}

// Victory publishes the terminal victory event.
func Victory(ctx context.Context, pub logging.Publisher, tick uint64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{Type: EventVictory, Tick: tick, Severity: logging.SeverityInfo, Category: logging.CategoryGameplay})
}

// GameOver publishes the terminal game-over event.
func GameOver(ctx context.Context, pub logging.Publisher, tick uint64) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{Type: EventGameOver, Tick: tick, Severity: logging.SeverityWarn, Category: logging.CategoryGameplay})
}
