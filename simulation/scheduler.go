package simulation

import (
	"errors"
	"fmt"

	"robosim-backend/models"
)

// RunState - scheduler state machine
type RunState string

const (
	RunIdle      RunState = "idle"
	RunRunning   RunState = "running"
	RunPaused    RunState = "paused"
	RunCompleted RunState = "completed"
)

var (
	ErrNothingToRun     = errors.New("simulation: nothing to run")
	ErrSessionSolved    = errors.New("simulation: session already solved")
	ErrBusy             = errors.New("simulation: a program is running")
	ErrNotPaused        = errors.New("simulation: run is not paused")
	ErrUnknownDirective = errors.New("simulation: unknown jog directive")
)

// Scheduler interprets a command list one fixed tick at a time. It is the
// only writer of its Session. Not safe for concurrent use; hosts serialise
// access.
type Scheduler struct {
	params    Params
	challenge *models.Challenge
	arena     Arena
	session   *Session

	commands []models.Command
	index    int // current command
	elapsed  int // ticks spent in the current command
	jogging  bool

	state          RunState
	tick           uint64
	pauseRequested bool
}

// NewScheduler - 챌린지 로드 (새 세션 생성)
func NewScheduler(p Params, ch *models.Challenge) *Scheduler {
	s := &Scheduler{
		params:    p,
		challenge: ch,
		arena:     NewArena(ch, p),
	}
	s.Reset()
	return s
}

// Reset discards the session and program and starts a fresh attempt.
func (s *Scheduler) Reset() {
	s.session = NewSession(s.challenge)
	s.session.Robot.SensorDistance = RayDistance(s.session.Robot.Pose, s.arena, s.params.SensorStep, s.params.SensorMaxRange)
	s.commands = nil
	s.index, s.elapsed = 0, 0
	s.jogging = false
	s.state = RunIdle
	s.tick = 0
	s.pauseRequested = false
}

// Challenge - loaded challenge
func (s *Scheduler) Challenge() *models.Challenge { return s.challenge }

// Session - current session; read only for callers
func (s *Scheduler) Session() *Session { return s.session }

// State - current run state
func (s *Scheduler) State() RunState { return s.state }

// Tick - ticks simulated since the session started
func (s *Scheduler) Tick() uint64 { return s.tick }

// Params - engine tuning in use
func (s *Scheduler) Params() Params { return s.params }

// Cursor - current command index and ticks already spent in it
func (s *Scheduler) Cursor() (index, elapsed int) { return s.index, s.elapsed }

// Run starts a program from its first command. The list is copied.
func (s *Scheduler) Run(commands []models.Command) error {
	if len(commands) == 0 {
		return ErrNothingToRun
	}
	if s.session.Solved {
		return ErrSessionSolved
	}
	if s.state == RunRunning && !s.jogging {
		return ErrBusy
	}
	s.start(append([]models.Command(nil), commands...), false)
	return nil
}

// Jog queues a single transient command for a manual control button. A new
// jog replaces a jog in flight. Motion jogs never interrupt a running
// program; JogStop pauses it at the next tick, so Resume can continue it.
func (s *Scheduler) Jog(d models.JogDirective) error {
	cmd, err := s.jogCommand(d)
	if err != nil {
		return err
	}
	if s.session.Solved {
		return ErrSessionSolved
	}
	if s.state == RunRunning && !s.jogging {
		if d == models.JogStop {
			s.Pause()
			return nil
		}
		return ErrBusy
	}
	s.start([]models.Command{cmd}, true)
	return nil
}

func (s *Scheduler) jogCommand(d models.JogDirective) (models.Command, error) {
	duration := int(s.params.JogDuration.Milliseconds())
	speed := map[string]any{"speed": s.params.DefaultSpeed}
	switch d {
	case models.JogForward:
		return models.Command{Type: models.CommandMoveForward, Params: speed, DurationMs: duration}, nil
	case models.JogBackward:
		return models.Command{Type: models.CommandMoveBackward, Params: speed, DurationMs: duration}, nil
	case models.JogTurnLeft:
		return models.Command{Type: models.CommandTurnLeft, Params: speed, DurationMs: duration, TurnPolicy: models.TurnConstantRate}, nil
	case models.JogTurnRight:
		return models.Command{Type: models.CommandTurnRight, Params: speed, DurationMs: duration, TurnPolicy: models.TurnConstantRate}, nil
	case models.JogStop:
		return models.Command{Type: models.CommandStop}, nil
	}
	return models.Command{}, fmt.Errorf("%w: %q", ErrUnknownDirective, d)
}

func (s *Scheduler) start(commands []models.Command, jog bool) {
	s.commands = commands
	s.index, s.elapsed = 0, 0
	s.jogging = jog
	s.pauseRequested = false
	s.state = RunRunning
}

// Pause requests a pause; it takes effect at the next tick boundary.
func (s *Scheduler) Pause() {
	if s.state == RunRunning {
		s.pauseRequested = true
	}
}

// Resume continues a paused run. Under ResumeRestart the cursor goes back to
// the first command; ResumeFromCursor keeps it.
func (s *Scheduler) Resume() error {
	if s.state == RunRunning && s.pauseRequested {
		s.pauseRequested = false
		return nil
	}
	if s.state != RunPaused {
		return ErrNotPaused
	}
	if s.session.Solved {
		return ErrSessionSolved
	}
	if s.params.Resume != ResumeFromCursor {
		s.index, s.elapsed = 0, 0
	}
	s.state = RunRunning
	return nil
}

// Step advances the simulation by one tick. Outside RunRunning it is a no-op.
func (s *Scheduler) Step() StepResult {
	res := StepResult{Tick: s.tick, State: s.state}
	if s.state != RunRunning {
		return res
	}

	if s.pauseRequested {
		s.pauseRequested = false
		s.state = RunPaused
		haltMotors(&s.session.Robot)
		res.State = s.state
		res.Events = []Event{{Kind: EventPaused, Tick: s.tick, Index: s.index}}
		return res
	}

	s.tick++
	res.Tick = s.tick
	res.Advanced = true

	cmd := s.commands[s.index]
	ticks := s.params.TicksFor(cmd.DurationMs)
	if s.elapsed == 0 {
		res.Events = append(res.Events, Event{Kind: EventCommandStarted, Tick: s.tick, Subject: string(cmd.Type), Index: s.index})
	}

	robot := s.session.Robot
	res.Events = append(res.Events, applyKinematics(&robot, cmd, ticks, s.arena, s.params, s.tick)...)
	robot.SensorDistance = RayDistance(robot.Pose, s.arena, s.params.SensorStep, s.params.SensorMaxRange)
	s.session.Robot = robot

	res.Events = append(res.Events, Evaluate(s.challenge, s.session, s.params, s.tick)...)
	s.elapsed++

	switch {
	case s.session.Solved:
		s.finish()
		res.Events = append(res.Events, Event{Kind: EventCompleted, Tick: s.tick, Subject: string(EventSolved), Index: s.index})
	case s.elapsed >= ticks:
		s.index++
		s.elapsed = 0
		if s.index >= len(s.commands) {
			s.finish()
			res.Events = append(res.Events, Event{Kind: EventCompleted, Tick: s.tick, Index: s.index})
		}
	}
	res.State = s.state
	return res
}

func (s *Scheduler) finish() {
	s.state = RunCompleted
	s.jogging = false
	haltMotors(&s.session.Robot)
}

// RunUntilDone steps until the run leaves RunRunning or maxTicks ticks have
// elapsed (maxTicks <= 0 means no limit). Hosts without a wall clock, such as
// batch runners and tests, drive the engine this way.
func (s *Scheduler) RunUntilDone(maxTicks int, observe func(StepResult)) int {
	n := 0
	for s.state == RunRunning {
		if maxTicks > 0 && n >= maxTicks {
			break
		}
		res := s.Step()
		if res.Advanced {
			n++
		}
		if observe != nil {
			observe(res)
		}
	}
	return n
}
