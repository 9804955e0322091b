// Command simrun replays a compiled block program against a challenge without
// a server and reports whether it solves it. With -trace it writes one CSV row
// per tick; with -save the result goes to the configured database.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"robosim-backend/config"
	"robosim-backend/models"
	"robosim-backend/services"
	"robosim-backend/simulation"
)

func main() {
	configPath := flag.String("config", os.Getenv("ROBOSIM_CONFIG"), "YAML config file (defaults are embedded)")
	challengeID := flag.String("challenge", "", "challenge id")
	programPath := flag.String("program", "", "JSON program: a command array or {\"commands\": [...]}")
	maxTicks := flag.Int("max-ticks", 10000, "stop after this many ticks (0 = no limit)")
	tracePath := flag.String("trace", "", "write a per-tick CSV trace to this file")
	save := flag.Bool("save", false, "store a solved run in the results database")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	_ = godotenv.Load()

	if err := run(*configPath, *challengeID, *programPath, *tracePath, *maxTicks, *save); err != nil {
		slog.Error("❌ simrun 실패", "err", err)
		os.Exit(1)
	}
}

func run(configPath, challengeID, programPath, tracePath string, maxTicks int, save bool) error {
	if challengeID == "" || programPath == "" {
		return errors.New("-challenge and -program are required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	params := cfg.Engine.Params()

	catalog, err := services.LoadCatalog(params, cfg.Engine.PlanningCell, cfg.Catalog.Path)
	if err != nil {
		return err
	}
	ch, err := catalog.Get(challengeID)
	if err != nil {
		return err
	}

	commands, err := readProgram(programPath)
	if err != nil {
		return err
	}

	var trace *services.TraceWriter
	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			return err
		}
		defer f.Close()
		trace = services.NewTraceWriter(f)
	}

	sched := simulation.NewScheduler(params, ch)
	if err := sched.Run(commands); err != nil {
		return err
	}

	var traceErr error
	ticks := sched.RunUntilDone(maxTicks, func(res simulation.StepResult) {
		if traceErr == nil {
			traceErr = trace.Write(services.NewTraceRecord(res, sched.Snapshot()))
		}
		for _, ev := range res.Events {
			if ev.Kind != simulation.EventCommandStarted {
				slog.Debug("event", "tick", ev.Tick, "kind", ev.Kind, "subject", ev.Subject)
			}
		}
	})
	if traceErr != nil {
		return fmt.Errorf("trace: %w", traceErr)
	}

	snap := sched.Snapshot()
	slog.Info("🏁 실행 완료",
		"challenge", ch.ID,
		"state", snap.State,
		"ticks", ticks,
		"solved", snap.Solved,
		"solvedTick", snap.SolvedTick,
		"x", snap.Robot.Pose.X,
		"z", snap.Robot.Pose.Z,
		"heading", snap.Robot.Pose.Heading,
		"traceRows", trace.Rows(),
	)

	if !snap.Solved {
		return fmt.Errorf("challenge %s not solved after %d ticks", ch.ID, ticks)
	}
	if save {
		return saveResult(cfg.Database, services.NewChallengeResult(ch, snap, services.SourceBatch))
	}
	return nil
}

func readProgram(path string) ([]models.Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	if len(data) > 0 && data[0] == '[' {
		var commands []models.Command
		if err := json.Unmarshal(data, &commands); err != nil {
			return nil, fmt.Errorf("program %s: %w", path, err)
		}
		return commands, nil
	}
	var req models.RunRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("program %s: %w", path, err)
	}
	return req.Commands, nil
}

func saveResult(dbCfg config.DatabaseConfig, result models.ChallengeResult) error {
	if err := services.InitDatabase(dbCfg); err != nil {
		return err
	}
	defer services.CloseDatabase()
	if services.GetDB() == nil {
		return services.ErrDatabaseDisabled
	}
	return services.NewResultSink(services.GetDB()).SaveResults([]models.ChallengeResult{result})
}
