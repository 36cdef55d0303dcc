package sim

import (
	"math"
	"math/rand"
)

// PathShape selects the waypoint layout algorithm (spec §4.1).
type PathShape string

const (
	PathDefault PathShape = "default"
	PathSpiral  PathShape = "spiral"
	PathZigzag  PathShape = "zigzag"
	PathLoop    PathShape = "loop"
	PathCross   PathShape = "cross"
)

// Path is an immutable ordered polyline enemies traverse waypoint by
// waypoint. Constructed once per game from (seed, shape, width, height) and
// never mutated thereafter (spec §3).
type Path struct {
	points     []vec2
	cumulative []float64 // cumulative arc length up to and including points[i]
	length     float64
}

// GeneratePath builds a Path for the given shape, falling back to a
// straight center line on degenerate geometry (spec §4.1 Failure clause).
func GeneratePath(rootSeed string, shape PathShape, width, height float64) *Path {
	rng := newDeterministicRNG(rootSeed, "path")

	var pts []vec2
	switch shape {
	case PathSpiral:
		pts = spiralWaypoints(width, height)
	case PathZigzag:
		pts = zigzagWaypoints(width, height)
	case PathLoop:
		pts = loopWaypoints(width, height)
	case PathCross:
		pts = crossWaypoints(width, height)
	default:
		pts = defaultWaypoints(rng, width, height)
	}

	if degenerate(pts) {
		pts = []vec2{{X: 0, Y: height / 2}, {X: width, Y: height / 2}}
	}

	return newPath(pts)
}

func degenerate(pts []vec2) bool {
	if len(pts) < 2 {
		return true
	}
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += distance(pts[i-1], pts[i])
	}
	return total <= 0
}

func newPath(pts []vec2) *Path {
	p := &Path{points: pts, cumulative: make([]float64, len(pts))}
	running := 0.0
	for i := 1; i < len(pts); i++ {
		running += distance(pts[i-1], pts[i])
		p.cumulative[i] = running
	}
	p.length = running
	return p
}

// defaultWaypoints draws 6 control points across the field with vertical
// jitter, then smooths with quadratic Bezier interpolation at 10 samples
// per segment (spec §4.1).
func defaultWaypoints(rng *rand.Rand, width, height float64) []vec2 {
	const controlCount = 6
	controls := make([]vec2, controlCount)
	for i := 0; i < controlCount; i++ {
		x := width * float64(i) / float64(controlCount-1)
		jitter := (rng.Float64()*2 - 1) * height * 0.25
		y := height/2 + jitter
		controls[i] = vec2{X: x, Y: clampFloat(y, height*0.1, height*0.9)}
	}

	const samplesPerSegment = 10
	pts := make([]vec2, 0, controlCount*samplesPerSegment)
	for i := 0; i+2 < controlCount; i += 2 {
		p0, p1, p2 := controls[i], controls[i+1], controls[i+2]
		for s := 0; s <= samplesPerSegment; s++ {
			t := float64(s) / float64(samplesPerSegment)
			pts = append(pts, quadraticBezier(p0, p1, p2, t))
		}
	}
	if len(controls)%2 == 0 {
		pts = append(pts, controls[len(controls)-1])
	}
	return pts
}

func quadraticBezier(p0, p1, p2 vec2, t float64) vec2 {
	u := 1 - t
	x := u*u*p0.X + 2*u*t*p1.X + t*t*p2.X
	y := u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y
	return vec2{X: x, Y: y}
}

func spiralWaypoints(width, height float64) []vec2 {
	centerX, centerY := width/2, height/2
	maxRadius := math.Min(width, height) / 2 * 0.9
	const turns = 2.5
	const samples = 48
	pts := make([]vec2, 0, samples+1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		angle := t * turns * 2 * math.Pi
		radius := maxRadius * (1 - t)
		pts = append(pts, vec2{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		})
	}
	return pts
}

func zigzagWaypoints(width, height float64) []vec2 {
	const legs = 6
	pts := make([]vec2, 0, legs+1)
	for i := 0; i <= legs; i++ {
		x := width * float64(i) / float64(legs)
		y := height * 0.15
		if i%2 == 1 {
			y = height * 0.85
		}
		pts = append(pts, vec2{X: x, Y: y})
	}
	return pts
}

func loopWaypoints(width, height float64) []vec2 {
	entryX := width * 0.1
	loopCenter := vec2{X: width * 0.5, Y: height * 0.5}
	loopRadius := math.Min(width, height) * 0.3
	const samples = 24
	pts := []vec2{{X: 0, Y: height / 2}, {X: entryX, Y: height / 2}}
	for i := 0; i <= samples; i++ {
		angle := math.Pi + float64(i)/float64(samples)*2*math.Pi
		pts = append(pts, vec2{
			X: loopCenter.X + loopRadius*math.Cos(angle),
			Y: loopCenter.Y + loopRadius*math.Sin(angle),
		})
	}
	pts = append(pts, vec2{X: width, Y: height / 2})
	return pts
}

func crossWaypoints(width, height float64) []vec2 {
	return []vec2{
		{X: 0, Y: height / 2},
		{X: width * 0.4, Y: height / 2},
		{X: width * 0.4, Y: height * 0.1},
		{X: width * 0.6, Y: height * 0.1},
		{X: width * 0.6, Y: height * 0.9},
		{X: width * 0.4, Y: height * 0.9},
		{X: width * 0.4, Y: height / 2},
		{X: width, Y: height / 2},
	}
}

// PositionAt linearly interpolates along arc length for progress in [0,1],
// returning world position and the tangent angle of travel.
func (p *Path) PositionAt(progress float64) (x, y, tangent float64) {
	progress = clampFloat(progress, 0, 1)
	if len(p.points) == 0 {
		return 0, 0, 0
	}
	if len(p.points) == 1 || p.length == 0 {
		pt := p.points[0]
		return pt.X, pt.Y, 0
	}
	target := progress * p.length
	for i := 1; i < len(p.points); i++ {
		if target <= p.cumulative[i] || i == len(p.points)-1 {
			segStart := p.cumulative[i-1]
			segLen := p.cumulative[i] - segStart
			t := 0.0
			if segLen > 0 {
				t = (target - segStart) / segLen
			}
			a, b := p.points[i-1], p.points[i]
			pt := vec2{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
			return pt.X, pt.Y, angleTo(a, b)
		}
	}
	last := p.points[len(p.points)-1]
	return last.X, last.Y, 0
}

// DistanceToPath returns the minimum perpendicular distance from point to
// any segment of the path.
func (p *Path) DistanceToPath(point vec2) float64 {
	if len(p.points) < 2 {
		if len(p.points) == 1 {
			return distance(point, p.points[0])
		}
		return math.Inf(1)
	}
	min := math.Inf(1)
	for i := 1; i < len(p.points); i++ {
		d := distanceToSegment(point, p.points[i-1], p.points[i])
		if d < min {
			min = d
		}
	}
	return min
}

// IsOnPath reports whether point lies within PathHalfWidth of the path.
func (p *Path) IsOnPath(point vec2) bool {
	return p.DistanceToPath(point) <= PathHalfWidth
}

// WaypointCount returns the number of discrete waypoints in the polyline.
func (p *Path) WaypointCount() int {
	return len(p.points)
}

// Waypoint returns the world position of waypoint i.
func (p *Path) Waypoint(i int) vec2 {
	if i < 0 {
		i = 0
	}
	if i >= len(p.points) {
		i = len(p.points) - 1
	}
	return p.points[i]
}

// FirstWaypoint and LastWaypoint are convenience accessors used by invariant
// checks (spec §8, invariant 8: is_on_path holds at both endpoints).
func (p *Path) FirstWaypoint() vec2 { return p.Waypoint(0) }
func (p *Path) LastWaypoint() vec2  { return p.Waypoint(len(p.points) - 1) }
