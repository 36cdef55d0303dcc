package sim

import (
	"context"
	"time"

	"ctrlspike/towerdefense/logging"
)

// CommandType names one of the engine's accepted commands (spec §6).
type CommandType string

const (
	CommandStartWave       CommandType = "start_wave"
	CommandPlaceDefense    CommandType = "place_defense"
	CommandUpgradeDefense  CommandType = "upgrade_defense"
	CommandSellDefense     CommandType = "sell_defense"
	CommandActivateSpecial CommandType = "activate_special"
)

// Command wraps a decoded client instruction with the tick and wall-clock
// time it was issued at, so a command applied several ticks after it was
// sent (queued behind a slow client, or replayed from a recording) can be
// told apart from one applied the tick it arrived. Grounded on the
// teacher's Command/CommandType in simulation.go.
type Command struct {
	Type       CommandType
	OriginTick uint64
	IssuedAt   time.Time

	// Params, populated according to Type.
	GX, GY   int
	Kind     DefenseKind
	EntityID string
}

// Dispatch validates and applies cmd against the engine's synchronous
// command methods, then records how many ticks elapsed between issue and
// apply. Dispatch never changes state that the equivalent direct method
// call (PlaceDefense, UpgradeDefense, ...) wouldn't already change.
func (e *Engine) Dispatch(ctx context.Context, cmd Command) *CommandError {
	var cmdErr *CommandError
	switch cmd.Type {
	case CommandStartWave:
		cmdErr = e.StartWave(ctx)
	case CommandPlaceDefense:
		_, cmdErr = e.PlaceDefense(ctx, cmd.GX, cmd.GY, cmd.Kind)
	case CommandUpgradeDefense:
		cmdErr = e.UpgradeDefense(ctx, cmd.EntityID)
	case CommandSellDefense:
		cmdErr = e.SellDefense(ctx, cmd.EntityID)
	case CommandActivateSpecial:
		cmdErr = e.ActivateSpecial(ctx, cmd.EntityID)
	default:
		return e.reject(ctx, string(cmd.Type), RejectNotFound, "no such command")
	}
	if cmdErr == nil && e.Tick > cmd.OriginTick {
		e.pub.Publish(ctx, logging.Event{
			Type:     "COMMAND_APPLIED",
			Tick:     e.Tick,
			Severity: logging.SeverityDebug,
			Category: logging.CategorySystem,
			Payload: map[string]any{
				"command":    string(cmd.Type),
				"originTick": cmd.OriginTick,
				"lagTicks":   e.Tick - cmd.OriginTick,
			},
		})
	}
	return cmdErr
}

// RejectCode is the typed reason a command was refused (spec §7:
// "command rejected with a typed reason; no state change").
type RejectCode string

const (
	RejectCellOccupied        RejectCode = "CELL_OCCUPIED"
	RejectOnPath              RejectCode = "ON_PATH"
	RejectOutOfBounds         RejectCode = "OUT_OF_BOUNDS"
	RejectInsufficientFunds   RejectCode = "INSUFFICIENT_RESOURCES"
	RejectMaxLevel            RejectCode = "MAX_LEVEL"
	RejectNotFound            RejectCode = "NOT_FOUND"
	RejectWaveInProgress      RejectCode = "WAVE_IN_PROGRESS"
	RejectWaveOutOfSequence   RejectCode = "WAVE_OUT_OF_SEQUENCE"
	RejectAllWavesComplete    RejectCode = "ALL_WAVES_COMPLETE"
	RejectOnCooldown          RejectCode = "ON_COOLDOWN"
	RejectGameOver            RejectCode = "GAME_OVER"
	RejectInvalidSaveDocument RejectCode = "INVALID_SAVE_DOCUMENT"
	RejectVersionMismatch     RejectCode = "VERSION_MISMATCH"
)

// CommandError reports a rejected command with its typed reason (spec §7).
// It is returned to the caller; the engine's command methods and Dispatch
// also publish it as a COMMAND_REJECTED diagnostic on the event stream.
// LoadSaveDocument returns it without publishing.
type CommandError struct {
	Command string
	Code    RejectCode
	Reason  string
}

func (e *CommandError) Error() string {
	return e.Reason
}

func newCommandError(command string, code RejectCode, reason string) *CommandError {
	return &CommandError{Command: command, Code: code, Reason: reason}
}
