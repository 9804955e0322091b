package simulation

// EventKind - what happened during a tick
type EventKind string

const (
	EventCommandStarted EventKind = "command_started"
	EventUnknownCommand EventKind = "unknown_command"
	EventCollision      EventKind = "collision"
	EventCollected      EventKind = "collected"
	EventPushed         EventKind = "pushed"
	EventPushedOut      EventKind = "pushed_out"
	EventSolved         EventKind = "solved"
	EventPaused         EventKind = "paused"
	EventCompleted      EventKind = "completed"
)

// Event - one observable engine occurrence
type Event struct {
	Kind    EventKind `json:"kind"`
	Tick    uint64    `json:"tick"`
	Subject string    `json:"subject,omitempty"` // collectible / pushable id, command type
	Index   int       `json:"index,omitempty"`   // command index for command events
}

// StepResult - outcome of a single Scheduler.Step call
type StepResult struct {
	Tick     uint64   `json:"tick"`
	State    RunState `json:"state"`
	Advanced bool     `json:"advanced"` // a tick of simulated time elapsed
	Events   []Event  `json:"events,omitempty"`
}

// Has reports whether the step emitted an event of the given kind.
func (r StepResult) Has(kind EventKind) bool {
	for _, ev := range r.Events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}
