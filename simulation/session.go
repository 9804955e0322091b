package simulation

import (
	"sort"

	"github.com/google/uuid"

	"robosim-backend/models"
)

// Session is the mutable state of one challenge attempt. It is owned by the
// Scheduler; the id-keyed collections are replaced on change, never written in
// place, so a Snapshot may share them.
type Session struct {
	ID          string
	ChallengeID string

	Robot models.RobotState

	Collected         map[string]bool
	PushablePositions map[string]models.Point
	OutOfRing         map[string]bool

	Solved     bool
	SolvedTick uint64
}

// NewSession - 챌린지 시작 상태로 세션 생성
func NewSession(ch *models.Challenge) *Session {
	s := &Session{
		ID:                uuid.NewString(),
		ChallengeID:       ch.ID,
		Robot:             models.NewRobotState(ch.Start),
		Collected:         map[string]bool{},
		PushablePositions: make(map[string]models.Point, len(ch.Pushables)),
		OutOfRing:         map[string]bool{},
	}
	for _, p := range ch.Pushables {
		s.PushablePositions[p.ID] = models.Point{X: p.X, Z: p.Z}
	}
	return s
}

func withID(set map[string]bool, id string) map[string]bool {
	out := make(map[string]bool, len(set)+1)
	for k := range set {
		out[k] = true
	}
	out[id] = true
	return out
}

func withPosition(m map[string]models.Point, id string, p models.Point) map[string]models.Point {
	out := make(map[string]models.Point, len(m))
	for k, v := range m {
		out[k] = v
	}
	out[id] = p
	return out
}

func sortedIDs(set map[string]bool) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Progress - UI summary of an attempt
type Progress struct {
	Collected         int  `json:"collected"`
	CollectiblesTotal int  `json:"collectibles_total"`
	PushedOut         int  `json:"pushed_out"`
	PushablesTotal    int  `json:"pushables_total"`
	Solved            bool `json:"solved"`
}

// ProgressOf summarises a session against its challenge.
func ProgressOf(ch *models.Challenge, s *Session) Progress {
	return Progress{
		Collected:         len(s.Collected),
		CollectiblesTotal: len(ch.Collectibles),
		PushedOut:         len(s.OutOfRing),
		PushablesTotal:    len(ch.Pushables),
		Solved:            s.Solved,
	}
}
