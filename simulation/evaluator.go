package simulation

import (
	"robosim-backend/algorithms"
	"robosim-backend/models"
)

// Evaluate runs the per-tick challenge checks after the pose update: push
// physics, collectible pickup and the win condition. solved flips at most once.
func Evaluate(ch *models.Challenge, s *Session, p Params, tick uint64) []Event {
	var events []Event
	events = append(events, applyPushes(ch, s, p, tick)...)
	events = append(events, collect(ch, s, p, tick)...)

	if s.Solved {
		return events
	}
	if winConditionMet(ch, s) {
		s.Solved = true
		s.SolvedTick = tick
		events = append(events, Event{Kind: EventSolved, Tick: tick, Subject: ch.ID})
	}
	return events
}

func applyPushes(ch *models.Challenge, s *Session, p Params, tick uint64) []Event {
	var events []Event
	for _, obj := range ch.Pushables {
		if s.OutOfRing[obj.ID] {
			continue
		}
		current, ok := s.PushablePositions[obj.ID]
		if !ok {
			current = models.Point{X: obj.X, Z: obj.Z}
		}
		next, contact := ApplyPush(s.Robot.Pose, p.RobotRadius, obj, current, p.PushDistance)
		if !contact {
			continue
		}
		s.PushablePositions = withPosition(s.PushablePositions, obj.ID, next)
		events = append(events, Event{Kind: EventPushed, Tick: tick, Subject: obj.ID})

		if ch.Ring != nil && OutsideRing(next, *ch.Ring) {
			s.OutOfRing = withID(s.OutOfRing, obj.ID)
			events = append(events, Event{Kind: EventPushedOut, Tick: tick, Subject: obj.ID})
		}
	}
	return events
}

func collect(ch *models.Challenge, s *Session, p Params, tick uint64) []Event {
	var events []Event
	robot := algorithms.V(s.Robot.Pose.X, s.Robot.Pose.Z)
	for _, c := range ch.Collectibles {
		if s.Collected[c.ID] {
			continue
		}
		if algorithms.Distance(robot, algorithms.V(c.X, c.Z)) < p.PickupRadius {
			s.Collected = withID(s.Collected, c.ID)
			events = append(events, Event{Kind: EventCollected, Tick: tick, Subject: c.ID})
		}
	}
	return events
}

func winConditionMet(ch *models.Challenge, s *Session) bool {
	switch ch.WinCondition {
	case models.WinPushAllOut:
		if len(ch.Pushables) == 0 {
			return false
		}
		for _, obj := range ch.Pushables {
			if !s.OutOfRing[obj.ID] {
				return false
			}
		}
		return true

	case models.WinReachGoal:
		robot := algorithms.V(s.Robot.Pose.X, s.Robot.Pose.Z)
		if algorithms.Distance(robot, algorithms.V(ch.Goal.X, ch.Goal.Z)) >= ch.Goal.Radius {
			return false
		}
		if ch.RequireAllCollectibles && len(s.Collected) < len(ch.Collectibles) {
			return false
		}
		return true
	}
	return false
}
