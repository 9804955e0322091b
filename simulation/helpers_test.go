package simulation

import (
	"robosim-backend/models"
)

func openArena() *models.Challenge {
	return &models.Challenge{
		ID:           "open",
		Start:        models.Pose{X: 200, Z: 200},
		Goal:         models.Goal{X: 1000, Z: 1000, Radius: 1},
		WinCondition: models.WinReachGoal,
	}
}

func caminoRecto() *models.Challenge {
	return &models.Challenge{
		ID:   "camino-recto",
		Name: "Camino Recto",
		Obstacles: []models.Obstacle{
			{X: 40, Z: 100, Width: 320, Depth: 20},
			{X: 40, Z: 280, Width: 320, Depth: 20},
		},
		Start:        models.Pose{X: 70, Z: 200, Heading: 0},
		Goal:         models.Goal{X: 330, Z: 200, Radius: 35},
		WinCondition: models.WinReachGoal,
	}
}

func sumo() *models.Challenge {
	return &models.Challenge{
		ID:           "sumo",
		Start:        models.Pose{X: 200, Z: 280, Heading: 270},
		Pushables:    []models.Pushable{{ID: "box", X: 200, Z: 150, Kind: "crate", Radius: 25}},
		Ring:         &models.Ring{X: 200, Z: 200, Radius: 150},
		WinCondition: models.WinPushAllOut,
	}
}

func forward(ms int) models.Command {
	return models.Command{Type: models.CommandMoveForward, DurationMs: ms}
}

func turn(t models.CommandType, angle float64, ms int) models.Command {
	return models.Command{Type: t, Params: map[string]any{"angle": angle}, DurationMs: ms}
}

func stepN(s *Scheduler, n int) []StepResult {
	out := make([]StepResult, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, s.Step())
	}
	return out
}
