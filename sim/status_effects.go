package sim

// EffectKind is the fixed enumeration of status-effect kinds (spec §3, §9's
// guidance to use a dense small array over a map of named effects).
type EffectKind uint8

const (
	EffectFrozen EffectKind = iota
	EffectBurning
	EffectPoisoned
	EffectSlowed
	EffectHasted
	EffectStealthed
	EffectScrambled
	EffectCloaked
	EffectBoosted
	EffectCorrupted
	EffectEMP
	EffectReflection
	EffectEncrypted

	effectKindCount
)

// Effect is a tagged, timed modifier on an actor (spec §3).
type Effect struct {
	RemainingMs float64
	Magnitude   float64
}

// StatusEffects is a uniform fixed-size table per actor: at most one active
// instance per kind (spec §4.6).
type StatusEffects struct {
	effects [effectKindCount]*Effect
}

// Apply installs or refreshes an effect: remaining_ms becomes the max of the
// existing and new duration, magnitude likewise (spec §4.6).
func (s *StatusEffects) Apply(kind EffectKind, durationMs, magnitude float64) {
	existing := s.effects[kind]
	if existing == nil {
		s.effects[kind] = &Effect{RemainingMs: durationMs, Magnitude: magnitude}
		return
	}
	if durationMs > existing.RemainingMs {
		existing.RemainingMs = durationMs
	}
	if magnitude > existing.Magnitude {
		existing.Magnitude = magnitude
	}
}

// Tick decrements every active effect by dtMs and expires any that reach
// zero or below. Expiry fires no events (spec §4.6).
func (s *StatusEffects) Tick(dtMs float64) {
	for k := range s.effects {
		e := s.effects[k]
		if e == nil {
			continue
		}
		e.RemainingMs -= dtMs
		if e.RemainingMs <= 0 {
			s.effects[k] = nil
		}
	}
}

// Has reports whether kind is currently active.
func (s *StatusEffects) Has(kind EffectKind) bool {
	return s.effects[kind] != nil
}

// Get returns the active effect for kind, or nil.
func (s *StatusEffects) Get(kind EffectKind) *Effect {
	return s.effects[kind]
}

// All returns every currently active (kind, effect) pair.
func (s *StatusEffects) All() map[EffectKind]Effect {
	out := make(map[EffectKind]Effect)
	for k, e := range s.effects {
		if e != nil {
			out[EffectKind(k)] = *e
		}
	}
	return out
}

// Clear removes every active effect (used on enemy death, spec §4.3).
func (s *StatusEffects) Clear() {
	for k := range s.effects {
		s.effects[k] = nil
	}
}

// SpeedMultiplier folds the movement-affecting effects into a single factor
// (spec §4.3: slowed => 0.5, hasted => 1.5, frozen => 0).
func (s *StatusEffects) SpeedMultiplier() float64 {
	if s.Has(EffectFrozen) {
		return 0
	}
	multiplier := 1.0
	if s.Has(EffectSlowed) {
		multiplier *= 0.5
	}
	if s.Has(EffectHasted) {
		multiplier *= 1.5
	}
	return multiplier
}
