// Package simulation is the headless robot simulation engine: kinematics,
// collision, distance sensing, push physics, the command scheduler and the
// challenge evaluator. It never logs and never blocks; hosts call
// Scheduler.Step at their own cadence and read snapshots.
package simulation

import (
	"math"
	"time"

	"robosim-backend/models"
)

// ResumePolicy - what Resume does with the command cursor
type ResumePolicy string

const (
	// ResumeRestart starts the paused program over from its first command.
	ResumeRestart ResumePolicy = "restart"
	// ResumeFromCursor continues at the command and tick where the pause hit.
	ResumeFromCursor ResumePolicy = "cursor"
)

// Params - engine tuning constants
type Params struct {
	TickPeriod time.Duration
	Arena      models.ArenaSize

	RobotRadius    float64
	MoveStep       float64 // units per tick for move commands
	ManualTurnRate float64 // degrees per tick for jog turns

	SensorStep     float64
	SensorMaxRange float64

	PickupRadius float64
	PushDistance float64

	JogDuration      time.Duration
	DefaultSpeed     float64
	DefaultTurnAngle float64

	Resume ResumePolicy
}

// DefaultParams returns the tuning the bundled challenges were built against.
func DefaultParams() Params {
	return Params{
		TickPeriod:       50 * time.Millisecond,
		Arena:            models.ArenaSize{Width: 400, Depth: 400},
		RobotRadius:      35,
		MoveStep:         3,
		ManualTurnRate:   3,
		SensorStep:       5,
		SensorMaxRange:   300,
		PickupRadius:     40,
		PushDistance:     4,
		JogDuration:      200 * time.Millisecond,
		DefaultSpeed:     100,
		DefaultTurnAngle: 90,
		Resume:           ResumeRestart,
	}
}

// TickMs - tick period in milliseconds, never below 1
func (p Params) TickMs() int64 {
	ms := p.TickPeriod.Milliseconds()
	if ms < 1 {
		return 1
	}
	return ms
}

// TicksFor - ticks a command of durationMs occupies: ceil(duration/tick), at least one.
func (p Params) TicksFor(durationMs int) int {
	n := int(math.Ceil(float64(durationMs) / float64(p.TickMs())))
	if n < 1 {
		return 1
	}
	return n
}

// ArenaFor - the challenge's own arena size, falling back to the default
func (p Params) ArenaFor(ch *models.Challenge) models.ArenaSize {
	size := p.Arena
	if ch != nil && ch.Arena.Width > 0 && ch.Arena.Depth > 0 {
		size = ch.Arena
	}
	return size
}
