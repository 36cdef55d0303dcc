package sim

import (
	"strings"

	"ctrlspike/towerdefense/logging"
)

const defaultSimSeed = "prototype"

// SimConfig captures every toggle a fresh game can be started with: the
// world generation seed and shape, the playfield dimensions, how many
// waves the run has, the fixed tick rate, and where its events go.
// Grounded on the teacher's worldConfig/normalized/defaultWorldConfig in
// world_config.go.
type SimConfig struct {
	Seed        string
	PathShape   PathShape
	FieldWidth  float64
	FieldHeight float64
	MaxWaves    int
	TickRate    int
	Logging     logging.Config
}

// DefaultSimConfig enables the default path shape at the field dimensions
// and tick rate constants.go carries, running the full MaxWaves ladder
// with the default logging configuration.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Seed:        defaultSimSeed,
		PathShape:   PathDefault,
		FieldWidth:  DefaultFieldWidth,
		FieldHeight: DefaultFieldHeight,
		MaxWaves:    MaxWaves,
		TickRate:    TickRate,
		Logging:     logging.DefaultConfig(),
	}
}

// normalized returns cfg with defaults substituted for every zero-valued
// field, the same trim-then-substitute pattern as worldConfig.normalized.
func (cfg SimConfig) normalized() SimConfig {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = defaultSimSeed
	}
	if normalized.PathShape == "" {
		normalized.PathShape = PathDefault
	}
	if normalized.FieldWidth <= 0 {
		normalized.FieldWidth = DefaultFieldWidth
	}
	if normalized.FieldHeight <= 0 {
		normalized.FieldHeight = DefaultFieldHeight
	}
	if normalized.MaxWaves <= 0 {
		normalized.MaxWaves = MaxWaves
	}
	if normalized.TickRate <= 0 {
		normalized.TickRate = TickRate
	}
	if len(normalized.Logging.EnabledSinks) == 0 {
		normalized.Logging = logging.DefaultConfig()
	}
	return normalized
}
