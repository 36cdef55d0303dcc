package sim

import "testing"

func TestGeneratePathEndpointsOnPath(t *testing.T) {
	for _, shape := range []PathShape{PathDefault, PathSpiral, PathZigzag, PathLoop, PathCross} {
		p := GeneratePath("seed-a", shape, DefaultFieldWidth, DefaultFieldHeight)
		if p.WaypointCount() < 2 {
			t.Fatalf("%s: expected at least 2 waypoints, got %d", shape, p.WaypointCount())
		}
		if !p.IsOnPath(p.FirstWaypoint()) {
			t.Fatalf("%s: first waypoint should be on its own path", shape)
		}
		if !p.IsOnPath(p.LastWaypoint()) {
			t.Fatalf("%s: last waypoint should be on its own path", shape)
		}
	}
}

func TestGeneratePathDeterministic(t *testing.T) {
	a := GeneratePath("same-seed", PathDefault, DefaultFieldWidth, DefaultFieldHeight)
	b := GeneratePath("same-seed", PathDefault, DefaultFieldWidth, DefaultFieldHeight)
	if a.WaypointCount() != b.WaypointCount() {
		t.Fatalf("expected identical waypoint counts, got %d vs %d", a.WaypointCount(), b.WaypointCount())
	}
	for i := 0; i < a.WaypointCount(); i++ {
		if a.Waypoint(i) != b.Waypoint(i) {
			t.Fatalf("waypoint %d diverged: %v vs %v", i, a.Waypoint(i), b.Waypoint(i))
		}
	}
}

func TestGeneratePathDegenerateFallsBackToStraightLine(t *testing.T) {
	p := newPath([]vec2{{X: 5, Y: 5}})
	if !degenerate(p.points) {
		t.Fatalf("single point should be degenerate")
	}
	fallback := GeneratePath("whatever", PathShape("unknown-shape-that-somehow-collapses"), 0, 100)
	if fallback.WaypointCount() < 2 {
		t.Fatalf("expected straight-line fallback, got %d waypoints", fallback.WaypointCount())
	}
}

func TestPositionAtInterpolatesAlongLength(t *testing.T) {
	p := newPath([]vec2{{X: 0, Y: 0}, {X: 10, Y: 0}})
	x, y, _ := p.PositionAt(0.5)
	if x != 5 || y != 0 {
		t.Fatalf("expected midpoint (5,0), got (%v,%v)", x, y)
	}
	x0, y0, _ := p.PositionAt(0)
	if x0 != 0 || y0 != 0 {
		t.Fatalf("expected start (0,0), got (%v,%v)", x0, y0)
	}
	x1, y1, _ := p.PositionAt(1)
	if x1 != 10 || y1 != 0 {
		t.Fatalf("expected end (10,0), got (%v,%v)", x1, y1)
	}
}

func TestDistanceToPath(t *testing.T) {
	p := newPath([]vec2{{X: 0, Y: 0}, {X: 10, Y: 0}})
	if d := p.DistanceToPath(vec2{X: 5, Y: 0}); d != 0 {
		t.Fatalf("expected 0 for on-path point, got %v", d)
	}
	if d := p.DistanceToPath(vec2{X: 5, Y: PathHalfWidth + 1}); d <= PathHalfWidth {
		t.Fatalf("expected off-path distance beyond half-width, got %v", d)
	}
}
