package handlers

import (
	"github.com/gofiber/fiber/v2"

	"robosim-backend/models"
)

// HandleLoadChallenge - POST /api/session/load
func HandleLoadChallenge(c *fiber.Ctx) error {
	var req models.LoadChallengeRequest
	if err := c.BodyParser(&req); err != nil || req.ChallengeID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "challenge_id is required",
		})
	}

	ch, err := Runner.LoadChallenge(req.ChallengeID)
	if err != nil {
		return fail(c, err)
	}
	return respondSnapshot(c, fiber.Map{"challenge": ch})
}

// HandleRun - POST /api/session/run
func HandleRun(c *fiber.Ctx) error {
	var req models.RunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid program: " + err.Error(),
		})
	}
	if err := Runner.Run(req.Commands); err != nil {
		return fail(c, err)
	}
	return respondSnapshot(c, fiber.Map{"commands": len(req.Commands)})
}

// HandleJog - POST /api/session/jog
//
// Motion directives are refused with 409 while a program runs; "stop"
// pauses the program instead.
func HandleJog(c *fiber.Ctx) error {
	var req models.JogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid jog request",
		})
	}
	if err := Runner.Jog(req.Directive); err != nil {
		return fail(c, err)
	}
	return respondSnapshot(c, nil)
}

// HandlePause - POST /api/session/pause
func HandlePause(c *fiber.Ctx) error {
	if err := Runner.Pause(); err != nil {
		return fail(c, err)
	}
	return respondSnapshot(c, nil)
}

// HandleResume - POST /api/session/resume
func HandleResume(c *fiber.Ctx) error {
	if err := Runner.Resume(); err != nil {
		return fail(c, err)
	}
	return respondSnapshot(c, nil)
}

// HandleReset - POST /api/session/reset
func HandleReset(c *fiber.Ctx) error {
	if err := Runner.Reset(); err != nil {
		return fail(c, err)
	}
	return respondSnapshot(c, nil)
}

// HandleSnapshot - GET /api/session/snapshot
func HandleSnapshot(c *fiber.Ctx) error {
	return respondSnapshot(c, nil)
}

func respondSnapshot(c *fiber.Ctx, extra fiber.Map) error {
	snap, err := Runner.Snapshot()
	if err != nil {
		return fail(c, err)
	}
	body := fiber.Map{"success": true, "snapshot": snap}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(body)
}
