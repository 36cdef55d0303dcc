package sim

// Handle is a generation-tagged weak reference into an entity arena (spec
// §9's redesign guidance replacing the source's cyclic object references).
// A handle resolved against a generation older than the slot's current
// generation yields "no target" without panicking (spec §7, Runtime
// corruption clause).
type Handle struct {
	ID         string
	generation uint32
	valid      bool
}

// NoHandle is the zero-value handle; it never resolves to a live entity.
var NoHandle = Handle{}

func (h Handle) IsZero() bool {
	return !h.valid && h.ID == ""
}

// slot tracks the current generation for one entity ID inside an arena, so
// that recycled IDs (or plain removal) invalidate outstanding handles.
type slot struct {
	generation uint32
	alive      bool
}

// arena issues and validates generation-tagged handles for one entity kind.
// The Entity Store composes one arena per collection (enemies, defenses,
// projectiles) and is the exclusive owner of live-actor collections (spec
// §3 Ownership).
type arena struct {
	slots map[string]*slot
}

func newArena() *arena {
	return &arena{slots: make(map[string]*slot)}
}

// register creates a slot for a brand-new id, or revives a retired one,
// minting a new generation either way. It must only be called when an
// entity is entering the store for the first time (or being reinstated
// after removal) — calling it again for an id that is still alive would
// bump its generation and silently invalidate every handle already
// pointing at it. Callers that just need a handle to something already
// live (targeting, projectile spawn) must use handleFor instead.
func (a *arena) register(id string) Handle {
	s, ok := a.slots[id]
	if !ok {
		s = &slot{}
		a.slots[id] = s
	}
	if !s.alive {
		s.generation++
		s.alive = true
	}
	return Handle{ID: id, generation: s.generation, valid: true}
}

// handleFor returns a handle to an id that is presumed already live, at
// its current generation, without minting a new one. It does not create a
// slot: an unknown or retired id yields NoHandle.
func (a *arena) handleFor(id string) Handle {
	s, ok := a.slots[id]
	if !ok || !s.alive {
		return NoHandle
	}
	return Handle{ID: id, generation: s.generation, valid: true}
}

// retire invalidates the handle for id; existing handles referencing it will
// no longer resolve.
func (a *arena) retire(id string) {
	if s, ok := a.slots[id]; ok {
		s.alive = false
	}
}

// resolve reports whether h still points at a live slot.
func (a *arena) resolve(h Handle) bool {
	if !h.valid || h.ID == "" {
		return false
	}
	s, ok := a.slots[h.ID]
	if !ok || !s.alive {
		return false
	}
	return s.generation == h.generation
}
