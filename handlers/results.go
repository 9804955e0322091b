package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"robosim-backend/services"
)

func queryLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	return limit
}

// HandleRecentResults - 최근 제출 기록 조회
func HandleRecentResults(c *fiber.Ctx) error {
	results, err := services.GetRecentResults(queryLimit(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(results),
		"results": results,
	})
}

// HandleChallengeResults - 챌린지별 기록 (최단 틱 순)
func HandleChallengeResults(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := Catalog.Get(id); err != nil {
		return fail(c, err)
	}

	results, err := services.GetResultsByChallenge(id, queryLimit(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success":      true,
		"challenge_id": id,
		"count":        len(results),
		"results":      results,
	})
}

// HandleResultStats - 챌린지별 통계
func HandleResultStats(c *fiber.Ctx) error {
	stats, err := services.GetResultStats()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
