package simulation

import (
	"gonum.org/v1/gonum/spatial/r2"

	"robosim-backend/algorithms"
	"robosim-backend/models"
)

// ApplyPush displaces a pushable touched by the robot. Contact means the
// centres are closer than the sum of the radii; the object then moves a fixed
// distance along the robot→object direction. When the centres coincide the
// robot heading is used. The second result reports contact.
func ApplyPush(robot models.Pose, robotRadius float64, obj models.Pushable, current models.Point, distance float64) (models.Point, bool) {
	rp := algorithms.V(robot.X, robot.Z)
	op := algorithms.V(current.X, current.Z)

	robotBody := algorithms.Circle{Center: rp, Radius: robotRadius}
	if !robotBody.Overlaps(algorithms.Circle{Center: op, Radius: obj.Radius}) {
		return current, false
	}

	dir := r2.Sub(op, rp)
	if r2.Norm(dir) == 0 {
		dir = algorithms.Direction(robot.Heading)
	} else {
		dir = r2.Unit(dir)
	}
	np := r2.Add(op, r2.Scale(distance, dir))
	return models.Point{X: np.X, Z: np.Y}, true
}

// OutsideRing - object centre beyond the ring radius
func OutsideRing(p models.Point, ring models.Ring) bool {
	return algorithms.Distance(algorithms.V(p.X, p.Z), algorithms.V(ring.X, ring.Z)) > ring.Radius
}
