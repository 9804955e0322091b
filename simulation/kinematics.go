package simulation

import (
	"robosim-backend/algorithms"
	"robosim-backend/models"
)

// applyKinematics performs the single per-tick increment of cmd on robot.
// ticks is the total tick count the command occupies.
func applyKinematics(robot *models.RobotState, cmd models.Command, ticks int, a Arena, p Params, tick uint64) []Event {
	robot.BuzzerHz = 0
	robot.IsMoving = cmd.IsMotion()

	switch cmd.Type {
	case models.CommandMoveForward, models.CommandMoveBackward:
		speed := cmd.Float("speed", p.DefaultSpeed)
		sign := 1.0
		if cmd.Type == models.CommandMoveBackward {
			sign = -1
		}
		robot.LeftWheelSpeed = sign * speed
		robot.RightWheelSpeed = sign * speed
		return moveStep(robot, sign*p.MoveStep, a, p, tick)

	case models.CommandTurnLeft, models.CommandTurnRight:
		speed := cmd.Float("speed", p.DefaultSpeed)
		step := turnStep(cmd, ticks, p)
		if cmd.Type == models.CommandTurnLeft {
			robot.LeftWheelSpeed, robot.RightWheelSpeed = -speed, speed
			step = -step
		} else {
			robot.LeftWheelSpeed, robot.RightWheelSpeed = speed, -speed
		}
		robot.Pose.Heading = algorithms.NormalizeDegrees(robot.Pose.Heading + step)

	case models.CommandStop:
		robot.LeftWheelSpeed, robot.RightWheelSpeed = 0, 0

	case models.CommandLEDOn, models.CommandLEDOff:
		pin := cmd.String("pin", "13")
		robot.LEDs = robot.WithLED(pin, cmd.Type == models.CommandLEDOn)

	case models.CommandServo:
		robot.ServoAngle = cmd.Float("angle", robot.ServoAngle)

	case models.CommandBuzzer:
		robot.BuzzerHz = cmd.Float("frequency", 440)

	case models.CommandDelay:
		// consumes ticks only

	default:
		return []Event{{Kind: EventUnknownCommand, Tick: tick, Subject: string(cmd.Type)}}
	}
	return nil
}

// turnStep - degrees per tick under the command's turn policy
func turnStep(cmd models.Command, ticks int, p Params) float64 {
	if cmd.TurnPolicy == models.TurnConstantRate {
		return p.ManualTurnRate
	}
	return cmd.Float("angle", p.DefaultTurnAngle) / float64(ticks)
}

// moveStep advances the pose along the heading when the collision resolver
// accepts it. A rejected move leaves the pose and raises the obstacle flag; an
// accepted one re-evaluates the flag at the new position.
func moveStep(robot *models.RobotState, dist float64, a Arena, p Params, tick uint64) []Event {
	from := algorithms.V(robot.Pose.X, robot.Pose.Z)
	candidate := algorithms.Advance(from, robot.Pose.Heading, dist)

	if !TryMove(candidate, p.RobotRadius, a) {
		wasBlocked := robot.ObstacleDetected
		robot.ObstacleDetected = true
		if !wasBlocked {
			return []Event{{Kind: EventCollision, Tick: tick}}
		}
		return nil
	}

	robot.Pose.X, robot.Pose.Z = candidate.X, candidate.Y
	robot.ObstacleDetected = !TryMove(candidate, p.RobotRadius, a)
	return nil
}

// haltMotors - wheels off, pose untouched
func haltMotors(robot *models.RobotState) {
	robot.LeftWheelSpeed, robot.RightWheelSpeed = 0, 0
	robot.IsMoving = false
	robot.BuzzerHz = 0
}
