package simulation

import (
	"robosim-backend/algorithms"
	"robosim-backend/models"
)

// RayDistance casts the forward distance sensor from the robot centre along
// its heading. The result is the first step distance that leaves the arena or
// enters an obstacle, or maxRange when the ray stays clear.
func RayDistance(pose models.Pose, a Arena, step, maxRange float64) float64 {
	origin := algorithms.V(pose.X, pose.Z)
	return algorithms.MarchRay(origin, algorithms.Direction(pose.Heading), step, maxRange, a.Blocked)
}
