package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robosim-backend/algorithms"
	"robosim-backend/models"
)

func TestTicksFor(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		ms   int
		want int
	}{
		{0, 1}, {-20, 1}, {1, 1}, {50, 1}, {51, 2}, {1000, 20}, {4350, 87},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, p.TicksFor(tc.ms), "duration %d", tc.ms)
	}

	p.TickPeriod = 30 * time.Millisecond
	assert.Equal(t, 9, p.TicksFor(250))

	p.TickPeriod = 0
	assert.Equal(t, int64(1), p.TickMs())
}

func TestTurnCompletesAcrossTickPeriods(t *testing.T) {
	tests := []struct {
		name  string
		tick  time.Duration
		cmd   models.Command
		want  float64
		ticks int
	}{
		{"50ms right", 50 * time.Millisecond, turn(models.CommandTurnRight, 90, 1000), 90, 20},
		{"20ms right", 20 * time.Millisecond, turn(models.CommandTurnRight, 90, 1000), 90, 50},
		{"30ms left", 30 * time.Millisecond, turn(models.CommandTurnLeft, 45, 250), 315, 9},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			p.TickPeriod = tc.tick
			s := NewScheduler(p, openArena())
			require.NoError(t, s.Run([]models.Command{tc.cmd}))

			n := s.RunUntilDone(0, nil)

			assert.Equal(t, tc.ticks, n)
			assert.Equal(t, RunCompleted, s.State())
			assert.InDelta(t, tc.want, s.Session().Robot.Pose.Heading, 1e-9)
			assert.Equal(t, 200.0, s.Session().Robot.Pose.X, "turning in place")
		})
	}
}

func TestTurnDefaultsAngle(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	require.NoError(t, s.Run([]models.Command{{Type: models.CommandTurnRight, DurationMs: 500}}))
	s.RunUntilDone(0, nil)
	assert.InDelta(t, 90.0, s.Session().Robot.Pose.Heading, 1e-9)
}

func TestJog(t *testing.T) {
	t.Run("turn uses constant rate", func(t *testing.T) {
		s := NewScheduler(DefaultParams(), openArena())
		require.NoError(t, s.Jog(models.JogTurnRight))
		assert.Equal(t, 4, s.RunUntilDone(0, nil))
		assert.InDelta(t, 12.0, s.Session().Robot.Pose.Heading, 1e-9)

		require.NoError(t, s.Jog(models.JogTurnLeft))
		s.RunUntilDone(0, nil)
		require.NoError(t, s.Jog(models.JogTurnLeft))
		s.RunUntilDone(0, nil)
		assert.InDelta(t, 348.0, s.Session().Robot.Pose.Heading, 1e-9)
	})

	t.Run("forward", func(t *testing.T) {
		s := NewScheduler(DefaultParams(), openArena())
		require.NoError(t, s.Jog(models.JogForward))
		assert.True(t, s.Snapshot().Jogging)
		s.RunUntilDone(0, nil)
		assert.InDelta(t, 212.0, s.Session().Robot.Pose.X, 1e-9)
		assert.False(t, s.Snapshot().Jogging)
	})

	t.Run("stop is a single tick", func(t *testing.T) {
		s := NewScheduler(DefaultParams(), openArena())
		require.NoError(t, s.Jog(models.JogStop))
		assert.Equal(t, 1, s.RunUntilDone(0, nil))
	})

	t.Run("unknown directive", func(t *testing.T) {
		s := NewScheduler(DefaultParams(), openArena())
		err := s.Jog("sideways")
		assert.ErrorIs(t, err, ErrUnknownDirective)
		assert.Equal(t, RunIdle, s.State())
	})

	t.Run("new jog replaces jog in flight", func(t *testing.T) {
		s := NewScheduler(DefaultParams(), openArena())
		require.NoError(t, s.Jog(models.JogForward))
		s.Step()
		require.NoError(t, s.Jog(models.JogBackward))
		s.RunUntilDone(0, nil)
		assert.InDelta(t, 191.0, s.Session().Robot.Pose.X, 1e-9)
	})
}

func TestRunRejections(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	assert.ErrorIs(t, s.Run(nil), ErrNothingToRun)
	assert.ErrorIs(t, s.Run([]models.Command{}), ErrNothingToRun)

	require.NoError(t, s.Run([]models.Command{forward(500)}))
	s.Step()
	assert.ErrorIs(t, s.Run([]models.Command{forward(500)}), ErrBusy)
	assert.ErrorIs(t, s.Jog(models.JogForward), ErrBusy)

	s.RunUntilDone(0, nil)
	require.NoError(t, s.Jog(models.JogForward))
	s.Step()
	assert.NoError(t, s.Run([]models.Command{forward(100)}), "a program may replace a jog")
	assert.False(t, s.Snapshot().Jogging)
}

func TestJogStopPausesProgram(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	require.NoError(t, s.Run([]models.Command{forward(500)}))
	s.Step()
	require.InDelta(t, 203.0, s.Session().Robot.Pose.X, 1e-9)

	require.NoError(t, s.Jog(models.JogStop))
	assert.Equal(t, RunRunning, s.State(), "takes effect at the next tick")

	res := s.Step()
	assert.True(t, res.Has(EventPaused))
	assert.Equal(t, RunPaused, s.State())
	robot := s.Session().Robot
	assert.InDelta(t, 203.0, robot.Pose.X, 1e-9)
	assert.Zero(t, robot.LeftWheelSpeed)
	assert.Zero(t, robot.RightWheelSpeed)
	assert.False(t, robot.IsMoving)
	assert.False(t, s.Snapshot().Jogging)

	require.NoError(t, s.Resume())
	assert.Equal(t, 10, s.RunUntilDone(0, nil), "restart policy replays the program")
	assert.InDelta(t, 233.0, s.Session().Robot.Pose.X, 1e-9)
}

func TestRunCopiesCommands(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	cmds := []models.Command{forward(100)}
	require.NoError(t, s.Run(cmds))
	cmds[0] = models.Command{Type: models.CommandDelay, DurationMs: 100}

	s.RunUntilDone(0, nil)
	assert.InDelta(t, 206.0, s.Session().Robot.Pose.X, 1e-9)
}

func TestUnknownCommandConsumesDuration(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	require.NoError(t, s.Run([]models.Command{
		{Type: "dance", DurationMs: 100},
		forward(50),
	}))

	var unknown int
	n := s.RunUntilDone(0, func(r StepResult) {
		for _, ev := range r.Events {
			if ev.Kind == EventUnknownCommand {
				unknown++
				assert.Equal(t, "dance", ev.Subject)
			}
		}
	})

	assert.Equal(t, 3, n)
	assert.Equal(t, 2, unknown)
	assert.InDelta(t, 203.0, s.Session().Robot.Pose.X, 1e-9)
}

func TestPauseResume(t *testing.T) {
	tests := []struct {
		name   string
		policy ResumePolicy
		ticks  uint64
		finalX float64
	}{
		{"restart", ResumeRestart, 25, 275},
		{"cursor", ResumeFromCursor, 20, 260},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			p.Resume = tc.policy
			s := NewScheduler(p, openArena())
			require.NoError(t, s.Run([]models.Command{forward(1000)}))
			stepN(s, 5)

			s.Pause()
			assert.Equal(t, RunRunning, s.State(), "pause lands on the next tick")
			res := s.Step()
			assert.True(t, res.Has(EventPaused))
			assert.False(t, res.Advanced)
			assert.Equal(t, RunPaused, s.State())
			assert.Equal(t, uint64(5), s.Tick())
			assert.False(t, s.Session().Robot.IsMoving)

			idle := s.Step()
			assert.False(t, idle.Advanced)
			assert.InDelta(t, 215.0, s.Session().Robot.Pose.X, 1e-9)

			require.NoError(t, s.Resume())
			s.RunUntilDone(0, nil)
			assert.Equal(t, RunCompleted, s.State())
			assert.Equal(t, tc.ticks, s.Tick())
			assert.InDelta(t, tc.finalX, s.Session().Robot.Pose.X, 1e-9)
		})
	}
}

func TestResumeCancelsPendingPause(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	assert.ErrorIs(t, s.Resume(), ErrNotPaused)

	require.NoError(t, s.Run([]models.Command{forward(100)}))
	s.Pause()
	require.NoError(t, s.Resume())
	res := s.Step()
	assert.True(t, res.Advanced)
	assert.False(t, res.Has(EventPaused))
}

func TestCollisionFlagIsIdempotent(t *testing.T) {
	ch := openArena()
	ch.Start = models.Pose{X: 362, Z: 200, Heading: 0}
	s := NewScheduler(DefaultParams(), ch)
	require.NoError(t, s.Run([]models.Command{
		forward(200),
		{Type: models.CommandDelay, DurationMs: 100},
		{Type: models.CommandMoveBackward, DurationMs: 50},
	}))

	var collisions int
	var flags []bool
	s.RunUntilDone(0, func(r StepResult) {
		if r.Has(EventCollision) {
			collisions++
		}
		flags = append(flags, s.Session().Robot.ObstacleDetected)
	})

	assert.Equal(t, 1, collisions)
	assert.Equal(t, []bool{false, true, true, true, true, true, false}, flags)
	assert.InDelta(t, 362.0, s.Session().Robot.Pose.X, 1e-9)
}

func TestRobotStaysInBounds(t *testing.T) {
	p := DefaultParams()
	ch := caminoRecto()
	ch.Goal = models.Goal{X: 1000, Z: 1000, Radius: 1} // unreachable, the whole program runs
	s := NewScheduler(p, ch)
	arena := NewArena(ch, p)
	program := []models.Command{
		forward(6000),
		turn(models.CommandTurnLeft, 90, 500),
		forward(3000),
		turn(models.CommandTurnLeft, 135, 500),
		forward(8000),
		turn(models.CommandTurnRight, 60, 300),
		{Type: models.CommandMoveBackward, DurationMs: 9000},
	}
	require.NoError(t, s.Run(program))

	want := 0
	for _, cmd := range program {
		want += p.TicksFor(cmd.DurationMs)
	}

	var collisions int
	ticks := s.RunUntilDone(0, func(r StepResult) {
		if r.Has(EventCollision) {
			collisions++
		}
		pose := s.Session().Robot.Pose
		assert.True(t, TryMove(algorithms.V(pose.X, pose.Z), p.RobotRadius, arena), "tick %d pose %+v", r.Tick, pose)
		assert.GreaterOrEqual(t, pose.X, p.RobotRadius)
		assert.LessOrEqual(t, pose.X, p.Arena.Width-p.RobotRadius)
		assert.GreaterOrEqual(t, pose.Z, p.RobotRadius)
		assert.LessOrEqual(t, pose.Z, p.Arena.Depth-p.RobotRadius)
		assert.GreaterOrEqual(t, pose.Heading, 0.0)
		assert.Less(t, pose.Heading, 360.0)
	})

	assert.Equal(t, want, ticks)
	assert.Equal(t, RunCompleted, s.State())
	assert.False(t, s.Session().Solved)
	index, _ := s.Cursor()
	assert.Equal(t, len(program), index)
	assert.Positive(t, collisions, "the program drives into the wall and the obstacles")
}

func TestActuators(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	require.NoError(t, s.Run([]models.Command{
		{Type: models.CommandLEDOn, Params: map[string]any{"pin": "7"}, DurationMs: 50},
		{Type: models.CommandServo, Params: map[string]any{"angle": 45}, DurationMs: 50},
		{Type: models.CommandBuzzer, Params: map[string]any{"frequency": 880.0}, DurationMs: 100},
		{Type: models.CommandLEDOff, Params: map[string]any{"pin": "7"}, DurationMs: 50},
	}))

	s.Step()
	before := s.Snapshot()
	assert.True(t, before.Robot.LEDs["7"])

	s.Step()
	assert.Equal(t, 45.0, s.Session().Robot.ServoAngle)

	s.Step()
	assert.Equal(t, 880.0, s.Session().Robot.BuzzerHz)

	s.RunUntilDone(0, nil)
	robot := s.Session().Robot
	assert.False(t, robot.LEDs["7"])
	assert.Zero(t, robot.BuzzerHz)
	assert.True(t, before.Robot.LEDs["7"], "earlier snapshot is unaffected")
}

func TestMoveSetsWheelSpeeds(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	require.NoError(t, s.Run([]models.Command{
		{Type: models.CommandMoveBackward, Params: map[string]any{"speed": 60}, DurationMs: 100},
		{Type: models.CommandStop, DurationMs: 50},
	}))

	s.Step()
	robot := s.Session().Robot
	assert.Equal(t, -60.0, robot.LeftWheelSpeed)
	assert.Equal(t, -60.0, robot.RightWheelSpeed)
	assert.True(t, robot.IsMoving)

	s.RunUntilDone(0, nil)
	robot = s.Session().Robot
	assert.Zero(t, robot.LeftWheelSpeed)
	assert.False(t, robot.IsMoving)
}

func TestRunUntilDoneLimit(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	require.NoError(t, s.Run([]models.Command{forward(10000)}))
	assert.Equal(t, 10, s.RunUntilDone(10, nil))
	assert.Equal(t, RunRunning, s.State())
	idx, elapsed := s.Cursor()
	assert.Equal(t, 0, idx)
	assert.Equal(t, 10, elapsed)
}

func TestResetStartsFreshSession(t *testing.T) {
	s := NewScheduler(DefaultParams(), openArena())
	first := s.Session().ID
	require.NoError(t, s.Run([]models.Command{forward(200)}))
	s.RunUntilDone(0, nil)

	s.Reset()

	assert.NotEqual(t, first, s.Session().ID)
	assert.Equal(t, RunIdle, s.State())
	assert.Zero(t, s.Tick())
	assert.Equal(t, models.Pose{X: 200, Z: 200}, s.Session().Robot.Pose)
}

func TestSnapshot(t *testing.T) {
	ch := sumo()
	ch.Pushables = append(ch.Pushables, models.Pushable{ID: "alpha", X: 100, Z: 100, Radius: 10})
	s := NewScheduler(DefaultParams(), ch)
	require.NoError(t, s.Run([]models.Command{forward(100), forward(100)}))
	stepN(s, 3)

	snap := s.Snapshot()
	assert.Equal(t, "sumo", snap.ChallengeID)
	assert.Equal(t, uint64(3), snap.Tick)
	assert.Equal(t, int64(150), snap.ElapsedMs)
	assert.Equal(t, 1, snap.CommandIndex)
	assert.Equal(t, 2, snap.CommandCount)
	require.Len(t, snap.Pushables, 2)
	assert.Equal(t, "alpha", snap.Pushables[0].ID)
	assert.Equal(t, "box", snap.Pushables[1].ID)
	assert.Equal(t, 2, snap.Progress.PushablesTotal)
	assert.NotNil(t, snap.Collected)
}
