package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"robosim-backend/config"
	"robosim-backend/handlers"
	"robosim-backend/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", os.Getenv("ROBOSIM_CONFIG"), "YAML config file (defaults are embedded)")
	debug := flag.Bool("debug", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// .env 파일 로드
	if err := godotenv.Load(); err != nil {
		slog.Warn("⚠️ .env 파일을 찾을 수 없습니다.")
	}

	if err := run(*configPath); err != nil {
		slog.Error("❌ 서버 오류", "err", err)
		os.Exit(1)
	}
}

// run wires the services and serves until shutdown. Every resource it opens
// is released before it returns, on error paths too.
func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	params := cfg.Engine.Params()

	// DB 연결 (driver가 비어 있으면 기록 저장 비활성)
	if err := services.InitDatabase(cfg.Database); err != nil {
		return fmt.Errorf("DB 초기화 실패: %w", err)
	}
	defer services.CloseDatabase()

	catalog, err := services.LoadCatalog(params, cfg.Engine.PlanningCell, cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("챌린지 카탈로그 로드 실패: %w", err)
	}

	// 제출 기록 버퍼 (종료 시 남은 기록 저장)
	results := services.NewResultBuffer(services.NewResultSink(services.GetDB()), cfg.Results.FlushSize, cfg.Results.FlushInterval())
	results.Start()
	defer results.Stop()

	runner := services.NewSimulationRunner(params, catalog, handlers.Manager.BroadcastMessage)
	runner.SetResultBuffer(results)

	announcer := services.NewAnnouncer(cfg.Announcer.Cooldown(), handlers.Manager.BroadcastMessage)
	announcer.SetEnabled(cfg.Announcer.Enabled)
	announcer.Start()
	defer announcer.Stop()
	runner.SetAnnouncer(announcer)

	handlers.Init(runner, catalog)
	go handlers.Manager.Start()
	runner.Start()
	defer runner.Stop()

	app := fiber.New(fiber.Config{AppName: "RoboSim"})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	handlers.SetupRoutes(app)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("🛑 서버 종료 중")
		if err := app.Shutdown(); err != nil {
			slog.Warn("종료 오류", "err", err)
		}
	}()

	slog.Info("🚀 서버 시작", "addr", cfg.Server.Addr, "challenges", len(catalog.List()), "tickMs", params.TickMs())
	slog.Info("📡 WebSocket: /websocket/viewer")
	return app.Listen(cfg.Server.Addr)
}
