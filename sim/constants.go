package sim

import "time"

// Protocol and tick timing constants, grounded on the teacher's
// constants.go (tickRate, moveSpeed, worldWidth/Height, disconnectAfter).
const (
	ProtocolVersion = "1.0"

	// TickRate is the fixed simulation rate; dt defaults to 1000/TickRate ms.
	TickRate = 15

	// DefaultFieldWidth and DefaultFieldHeight size the playfield the path
	// generator lays waypoints across.
	DefaultFieldWidth  = 960.0
	DefaultFieldHeight = 640.0

	// PathHalfWidth is the minimum clearance a defense's cell center must
	// keep from the path (spec §4.1).
	PathHalfWidth = 20.0

	// GridSize is the size of a grid cell in world units; CompactGridSize is
	// the alternate "compact" layout named in spec §6.
	GridSize        = 40.0
	CompactGridSize = 30.0

	InterWaveDelayMs        = 5000
	DefaultGroupSpawnDelayMs = 1000
	MaxWaves                = 20
	BossWaveInterval        = 5

	InitialLives = 20

	MaxDefenseLevel = 5

	// WaypointArrivalTolerance is how close an enemy must be to a waypoint
	// before it is considered reached (spec §4.3).
	WaypointArrivalTolerance = 2.0

	SpecialAbilityActiveMs   = 5000
	SpecialAbilityCooldownMs = 30000
)

// InitialResources is the starting resources triple (spec §6).
var InitialResources = Resources{Dharma: 100, Bandwidth: 50, Anonymity: 75}

func defaultTickDuration() time.Duration {
	return time.Second / TickRate
}
