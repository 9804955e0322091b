package simulation

import (
	"robosim-backend/algorithms"
	"robosim-backend/models"
)

// Arena - static geometry a tick is resolved against
type Arena struct {
	Bounds    algorithms.Rect
	Obstacles []algorithms.Rect
}

// NewArena builds the collision geometry for a challenge.
func NewArena(ch *models.Challenge, p Params) Arena {
	size := p.ArenaFor(ch)
	a := Arena{
		Bounds: algorithms.Rect{Width: size.Width, Depth: size.Depth},
	}
	if ch != nil {
		a.Obstacles = make([]algorithms.Rect, 0, len(ch.Obstacles))
		for _, o := range ch.Obstacles {
			a.Obstacles = append(a.Obstacles, algorithms.Rect{MinX: o.X, MinZ: o.Z, Width: o.Width, Depth: o.Depth})
		}
	}
	return a
}

// TryMove reports whether a robot disc of the given radius may stand at
// candidate: at least radius away from every arena edge and from the closest
// point of every obstacle.
func TryMove(candidate algorithms.Vec2, radius float64, a Arena) bool {
	if !a.Bounds.Inset(radius).Contains(candidate) {
		return false
	}
	body := algorithms.Circle{Center: candidate, Radius: radius}
	for _, o := range a.Obstacles {
		if o.IntersectsCircle(body) {
			return false
		}
	}
	return true
}

// Blocked - point outside the arena or inside an obstacle
func (a Arena) Blocked(p algorithms.Vec2) bool {
	if !a.Bounds.Contains(p) {
		return true
	}
	for _, o := range a.Obstacles {
		if o.Contains(p) {
			return true
		}
	}
	return false
}
