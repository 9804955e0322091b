package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robosim-backend/models"
)

func TestWinConditionMet(t *testing.T) {
	atGoal := func(ch *models.Challenge) *Session {
		s := NewSession(ch)
		s.Robot.Pose = models.Pose{X: ch.Goal.X, Z: ch.Goal.Z}
		return s
	}
	withCondition := func(wc models.WinCondition) *models.Challenge {
		ch := caminoRecto()
		ch.WinCondition = wc
		return ch
	}

	tests := []struct {
		name string
		ch   *models.Challenge
		at   func(*models.Challenge) *Session
		want bool
	}{
		{"reach_goal inside radius", caminoRecto(), atGoal, true},
		{"reach_goal at start", caminoRecto(), NewSession, false},
		{"unknown condition at goal", withCondition("collect_all"), atGoal, false},
		{"empty condition at goal", withCondition(""), atGoal, false},
		{"push_all_out without pushables", withCondition(models.WinPushAllOut), atGoal, false},
		{"push_all_out with object still in", sumo(), NewSession, false},
		{"push_all_out with every object out", sumo(), func(ch *models.Challenge) *Session {
			s := NewSession(ch)
			s.OutOfRing = withID(s.OutOfRing, "box")
			return s
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, winConditionMet(tt.ch, tt.at(tt.ch)))
		})
	}
}

func TestUnknownWinConditionNeverSolves(t *testing.T) {
	ch := caminoRecto()
	ch.WinCondition = "collect_all"
	s := NewScheduler(DefaultParams(), ch)
	require.NoError(t, s.Run([]models.Command{forward(4350)}))

	ticks := s.RunUntilDone(0, func(r StepResult) {
		assert.False(t, r.Has(EventSolved), "tick %d", r.Tick)
	})

	assert.Equal(t, 87, ticks, "the whole program runs")
	assert.Equal(t, RunCompleted, s.State())
	assert.False(t, s.Session().Solved)
	assert.Zero(t, s.Session().SolvedTick)
}
