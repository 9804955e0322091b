package algorithms

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vec2 - planar vector. The engine's Z axis is stored in Y.
type Vec2 = r2.Vec

// V - shorthand constructor for an (x, z) vector
func V(x, z float64) Vec2 {
	return r2.Vec{X: x, Y: z}
}

// Distance - Euclidean distance between two points
func Distance(a, b Vec2) float64 {
	return r2.Norm(r2.Sub(a, b))
}

// Direction - unit vector for a heading in degrees
func Direction(headingDeg float64) Vec2 {
	rad := headingDeg * math.Pi / 180
	return r2.Vec{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Advance - point reached by moving dist along heading
func Advance(p Vec2, headingDeg, dist float64) Vec2 {
	return r2.Add(p, r2.Scale(dist, Direction(headingDeg)))
}

// NormalizeDegrees - map an angle into [0, 360)
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// AngleDelta - signed shortest rotation from a to b, in (-180, 180]
func AngleDelta(a, b float64) float64 {
	d := NormalizeDegrees(b - a)
	if d > 180 {
		d -= 360
	}
	return d
}

// Clamp - clamp v into [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ========================================
// Rect
// ========================================

// Rect - axis-aligned rectangle anchored at its minimum corner
type Rect struct {
	MinX, MinZ   float64
	Width, Depth float64
}

// MaxX - right edge
func (r Rect) MaxX() float64 { return r.MinX + r.Width }

// MaxZ - far edge
func (r Rect) MaxZ() float64 { return r.MinZ + r.Depth }

// Contains - point inside or on the edge
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX() && p.Y >= r.MinZ && p.Y <= r.MaxZ()
}

// ClosestPoint - point of the rectangle closest to p
func (r Rect) ClosestPoint(p Vec2) Vec2 {
	return r2.Vec{
		X: Clamp(p.X, r.MinX, r.MaxX()),
		Y: Clamp(p.Y, r.MinZ, r.MaxZ()),
	}
}

// DistanceTo - 0 when p is inside
func (r Rect) DistanceTo(p Vec2) float64 {
	return Distance(p, r.ClosestPoint(p))
}

// IntersectsCircle - closest-point test; touching is not an intersection
func (r Rect) IntersectsCircle(c Circle) bool {
	return r.DistanceTo(c.Center) < c.Radius
}

// Inset - rectangle shrunk by margin on every side
func (r Rect) Inset(margin float64) Rect {
	return Rect{
		MinX:  r.MinX + margin,
		MinZ:  r.MinZ + margin,
		Width: r.Width - 2*margin,
		Depth: r.Depth - 2*margin,
	}
}

// ========================================
// Circle
// ========================================

// Circle - disc given by centre and radius
type Circle struct {
	Center Vec2
	Radius float64
}

// Contains - strict containment
func (c Circle) Contains(p Vec2) bool {
	return Distance(c.Center, p) < c.Radius
}

// Overlaps - two discs intersect (touching does not count)
func (c Circle) Overlaps(o Circle) bool {
	return Distance(c.Center, o.Center) < c.Radius+o.Radius
}

// ========================================
// Ray
// ========================================

// MarchRay walks from origin along dir in fixed steps and returns the first
// step distance where hit reports true, or maxRange when nothing is hit.
func MarchRay(origin, dir Vec2, step, maxRange float64, hit func(Vec2) bool) float64 {
	if step <= 0 {
		return maxRange
	}
	for d := step; d <= maxRange; d += step {
		if hit(r2.Add(origin, r2.Scale(d, dir))) {
			return d
		}
	}
	return maxRange
}
