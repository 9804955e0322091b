package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"robosim-backend/models"
	"robosim-backend/services"
	"robosim-backend/simulation"
)

// ErrUnknownMessage - 처리할 수 없는 제어 메시지 타입
var ErrUnknownMessage = errors.New("unknown control message")

// Runner / Catalog - main에서 Init으로 주입
var (
	Runner  *services.SimulationRunner
	Catalog *services.Catalog
)

// Init wires the handlers to the running services.
func Init(runner *services.SimulationRunner, catalog *services.Catalog) {
	Runner = runner
	Catalog = catalog
}

// dispatchControl applies a websocket control message to the runner.
func dispatchControl(msg models.WebSocketMessage) error {
	switch msg.Type {
	case models.MessageTypeLoadChallenge:
		var req models.LoadChallengeRequest
		if err := decodeData(msg.Data, &req); err != nil {
			return err
		}
		_, err := Runner.LoadChallenge(req.ChallengeID)
		return err

	case models.MessageTypeRun:
		var req models.RunRequest
		if err := decodeData(msg.Data, &req); err != nil {
			return err
		}
		return Runner.Run(req.Commands)

	case models.MessageTypeJog:
		var req models.JogRequest
		if err := decodeData(msg.Data, &req); err != nil {
			return err
		}
		return Runner.Jog(req.Directive)

	case models.MessageTypePause:
		return Runner.Pause()
	case models.MessageTypeResume:
		return Runner.Resume()
	case models.MessageTypeReset:
		return Runner.Reset()
	}
	return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
}

// statusFor maps service and engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrChallengeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrNoChallenge),
		errors.Is(err, simulation.ErrBusy),
		errors.Is(err, simulation.ErrSessionSolved),
		errors.Is(err, simulation.ErrNotPaused):
		return fiber.StatusConflict
	case errors.Is(err, simulation.ErrNothingToRun),
		errors.Is(err, simulation.ErrUnknownDirective),
		errors.Is(err, ErrUnknownMessage):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNoPath):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrDatabaseDisabled):
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// fail - 오류 응답
func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
