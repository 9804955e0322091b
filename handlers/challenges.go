package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GenerateRequest - 연습 챌린지 생성 요청 (seed 생략 시 현재 시각)
type GenerateRequest struct {
	Seed *int64 `json:"seed"`
}

// HandleListChallenges - GET /api/challenges
func HandleListChallenges(c *fiber.Ctx) error {
	list := Catalog.List()
	return c.JSON(fiber.Map{
		"success":    true,
		"count":      len(list),
		"challenges": list,
	})
}

// HandleGetChallenge - GET /api/challenges/:id
func HandleGetChallenge(c *fiber.Ctx) error {
	ch, err := Catalog.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "challenge": ch})
}

// HandleChallengePath - GET /api/challenges/:id/path
func HandleChallengePath(c *fiber.Ctx) error {
	ch, err := Catalog.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	path, err := Catalog.PlanPath(ch)
	if err != nil {
		slog.Info("❌ 경로 힌트 없음", "challenge", ch.ID, "err", err)
		return fail(c, err)
	}

	slog.Debug("✅ 경로 힌트", "challenge", ch.ID, "waypoints", len(path))
	return c.JSON(fiber.Map{
		"success":      true,
		"challenge_id": ch.ID,
		"path":         path,
	})
}

// HandleGenerateChallenge - POST /api/challenges/generate
func HandleGenerateChallenge(c *fiber.Ctx) error {
	var req GenerateRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "invalid generate request",
			})
		}
	}
	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	ch, err := Catalog.Generate(seed)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":   true,
		"seed":      seed,
		"challenge": ch,
	})
}
