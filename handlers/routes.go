package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SetupRoutes registers the REST API and the viewer websocket on app.
func SetupRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("RoboSim 서버가 실행 중입니다.")
	})

	api := app.Group("/api")
	api.Get("/health", HandleHealth)

	// 챌린지
	challenges := api.Group("/challenges")
	challenges.Get("/", HandleListChallenges)
	challenges.Post("/generate", HandleGenerateChallenge)
	challenges.Get("/:id", HandleGetChallenge)
	challenges.Get("/:id/path", HandleChallengePath)

	// 세션 제어
	session := api.Group("/session")
	session.Post("/load", HandleLoadChallenge)
	session.Post("/run", HandleRun)
	session.Post("/pause", HandlePause)
	session.Post("/resume", HandleResume)
	session.Post("/reset", HandleReset)
	session.Post("/jog", HandleJog)
	session.Get("/snapshot", HandleSnapshot)

	// 제출 기록
	results := api.Group("/results")
	results.Get("/recent", HandleRecentResults)
	results.Get("/stats", HandleResultStats)
	results.Get("/challenge/:id", HandleChallengeResults)

	// WebSocket
	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/websocket/viewer", websocket.New(HandleViewerWebSocket))
}

// HandleHealth - 서버 상태
func HandleHealth(c *fiber.Ctx) error {
	body := fiber.Map{
		"status":  "OK",
		"viewers": Manager.GetClientCount(),
		"time":    time.Now().Format(time.RFC3339),
	}
	if Runner != nil {
		body["ticking"] = Runner.IsRunning()
		if ch := Runner.Challenge(); ch != nil {
			body["challenge_id"] = ch.ID
		}
	}
	return c.JSON(body)
}
