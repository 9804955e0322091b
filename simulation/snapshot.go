package simulation

import (
	"sort"

	"robosim-backend/models"
)

// PushableSnapshot - current position of a pushable object
type PushableSnapshot struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Z      float64 `json:"z"`
	Radius float64 `json:"radius"`
	Out    bool    `json:"out"`
}

// Snapshot - read-only view of the engine after a tick, handed to renderers
type Snapshot struct {
	SessionID   string   `json:"session_id"`
	ChallengeID string   `json:"challenge_id"`
	Tick        uint64   `json:"tick"`
	ElapsedMs   int64    `json:"elapsed_ms"`
	State       RunState `json:"state"`

	CommandIndex int  `json:"command_index"`
	CommandCount int  `json:"command_count"`
	Jogging      bool `json:"jogging"`

	Robot     models.RobotState  `json:"robot"`
	Collected []string           `json:"collected"`
	Pushables []PushableSnapshot `json:"pushables"`

	Solved     bool     `json:"solved"`
	SolvedTick uint64   `json:"solved_tick,omitempty"`
	Progress   Progress `json:"progress"`
}

// Snapshot captures the current state. The robot's LED bank is shared with
// the session, which only ever replaces it.
func (s *Scheduler) Snapshot() Snapshot {
	sess := s.session
	snap := Snapshot{
		SessionID:    sess.ID,
		ChallengeID:  s.challenge.ID,
		Tick:         s.tick,
		ElapsedMs:    int64(s.tick) * s.params.TickMs(),
		State:        s.state,
		CommandIndex: s.index,
		CommandCount: len(s.commands),
		Jogging:      s.jogging,
		Robot:        sess.Robot,
		Collected:    sortedIDs(sess.Collected),
		Pushables:    make([]PushableSnapshot, 0, len(s.challenge.Pushables)),
		Solved:       sess.Solved,
		SolvedTick:   sess.SolvedTick,
		Progress:     ProgressOf(s.challenge, sess),
	}
	for _, obj := range s.challenge.Pushables {
		pos := sess.PushablePositions[obj.ID]
		snap.Pushables = append(snap.Pushables, PushableSnapshot{
			ID:     obj.ID,
			Kind:   obj.Kind,
			X:      pos.X,
			Z:      pos.Z,
			Radius: obj.Radius,
			Out:    sess.OutOfRing[obj.ID],
		})
	}
	sort.Slice(snap.Pushables, func(i, j int) bool { return snap.Pushables[i].ID < snap.Pushables[j].ID })
	return snap
}
