package sim

import "testing"

func TestArenaRegisterResolve(t *testing.T) {
	a := newArena()
	h := a.register("enemy-1")
	if !a.resolve(h) {
		t.Fatalf("freshly registered handle should resolve")
	}
	if NoHandle.IsZero() != true {
		t.Fatalf("NoHandle should report zero")
	}
	if h.IsZero() {
		t.Fatalf("a live handle should not be zero")
	}
}

func TestArenaRetireInvalidatesHandle(t *testing.T) {
	a := newArena()
	h := a.register("enemy-1")
	a.retire("enemy-1")
	if a.resolve(h) {
		t.Fatalf("retired handle should not resolve")
	}
}

func TestArenaReRegisterBumpsGeneration(t *testing.T) {
	a := newArena()
	stale := a.register("enemy-1")
	a.retire("enemy-1")
	fresh := a.register("enemy-1") // recycled ID
	if a.resolve(stale) {
		t.Fatalf("stale handle from before recycling must not resolve")
	}
	if !a.resolve(fresh) {
		t.Fatalf("freshly re-registered handle should resolve")
	}
}

func TestArenaRegisterWhileAliveDoesNotBumpGeneration(t *testing.T) {
	a := newArena()
	first := a.register("enemy-1")
	second := a.register("enemy-1") // still alive: must not mint a new generation
	if first != second {
		t.Fatalf("re-registering a live id should return the same handle, got %v and %v", first, second)
	}
	if !a.resolve(first) {
		t.Fatalf("expected the original handle to still resolve after a redundant register")
	}
}

func TestArenaHandleForDoesNotMutateOrCreate(t *testing.T) {
	a := newArena()
	if h := a.handleFor("never-registered"); h != NoHandle {
		t.Fatalf("expected NoHandle for an id with no slot, got %v", h)
	}

	h := a.register("enemy-1")
	if got := a.handleFor("enemy-1"); got != h {
		t.Fatalf("expected handleFor to return the current live handle, got %v want %v", got, h)
	}

	a.retire("enemy-1")
	if got := a.handleFor("enemy-1"); got != NoHandle {
		t.Fatalf("expected NoHandle once the slot is retired, got %v", got)
	}
}

func TestArenaResolveUnknownID(t *testing.T) {
	a := newArena()
	h := Handle{ID: "never-registered", generation: 1, valid: true}
	if a.resolve(h) {
		t.Fatalf("handle for unknown id should not resolve")
	}
}
