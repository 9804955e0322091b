package services

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"robosim-backend/models"
	"robosim-backend/simulation"
)

// ErrNoChallenge - 로드된 챌린지 없음
var ErrNoChallenge = errors.New("no challenge loaded")

// Result sources
const (
	SourceProgram = "program"
	SourceJog     = "jog"
	SourceBatch   = "batch" // cmd/simrun
)

// SimulationRunner hosts the single simulation session: it owns the
// scheduler, steps it on a wall-clock ticker and fans the results out to
// viewers, the announcer and the submission buffer.
type SimulationRunner struct {
	params  simulation.Params
	catalog *Catalog

	broadcastFunc func(models.WebSocketMessage)
	announcer     *Announcer
	results       *ResultBuffer

	// 시뮬레이션 상태
	scheduler *simulation.Scheduler
	source    string

	// 제어
	isRunning bool
	stopChan  chan struct{}
	done      chan struct{}
	mu        sync.Mutex

	// publishMu orders state changes together with their broadcasts, so a
	// snapshot of a replaced session never reaches viewers after the new one.
	// Lock order: publishMu, then mu.
	publishMu sync.Mutex
}

// NewSimulationRunner - 러너 생성 (챌린지 미로드 상태)
func NewSimulationRunner(p simulation.Params, catalog *Catalog, broadcastFunc func(models.WebSocketMessage)) *SimulationRunner {
	return &SimulationRunner{
		params:        p,
		catalog:       catalog,
		broadcastFunc: broadcastFunc,
		source:        SourceProgram,
	}
}

// SetAnnouncer - 안내 서비스 연결
func (r *SimulationRunner) SetAnnouncer(a *Announcer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announcer = a
	slog.Info("🎙️ 러너에 안내 서비스 연결됨")
}

// SetResultBuffer - 제출 기록 버퍼 연결
func (r *SimulationRunner) SetResultBuffer(rb *ResultBuffer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = rb
}

// Params - engine tuning in use
func (r *SimulationRunner) Params() simulation.Params { return r.params }

// Start - 틱 루프 시작
func (r *SimulationRunner) Start() {
	r.mu.Lock()
	if r.isRunning {
		r.mu.Unlock()
		return
	}
	r.isRunning = true
	r.stopChan = make(chan struct{})
	r.done = make(chan struct{})
	r.mu.Unlock()

	slog.Info("🚀 시뮬레이션 러너 시작", "tick", r.params.TickPeriod)
	go r.loop()
}

// Stop - 틱 루프 중지
func (r *SimulationRunner) Stop() {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return
	}
	r.isRunning = false
	stop, done := r.stopChan, r.done
	r.mu.Unlock()

	close(stop)
	<-done
	slog.Info("🛑 시뮬레이션 러너 중지")
}

// IsRunning - 틱 루프 동작 여부
func (r *SimulationRunner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}

func (r *SimulationRunner) loop() {
	defer close(r.done)
	ticker := time.NewTicker(r.params.TickPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.Tick()
		}
	}
}

// Tick advances the session by one step and publishes what happened. The
// ticker loop calls it; tests call it directly.
func (r *SimulationRunner) Tick() simulation.StepResult {
	r.publishMu.Lock()
	defer r.publishMu.Unlock()

	r.mu.Lock()
	if r.scheduler == nil {
		r.mu.Unlock()
		return simulation.StepResult{}
	}
	res := r.scheduler.Step()
	if !res.Advanced && len(res.Events) == 0 {
		r.mu.Unlock()
		return res
	}

	ch := r.scheduler.Challenge()
	snap := r.scheduler.Snapshot()
	announcer, results, source := r.announcer, r.results, r.source
	r.mu.Unlock()

	now := time.Now().UnixMilli()
	for _, ev := range res.Events {
		r.logEvent(ch, snap, ev)
		if ev.Kind != simulation.EventCommandStarted {
			r.broadcast(models.WebSocketMessage{Type: models.MessageTypeRunEvent, Data: ev, Timestamp: now})
		}
		if announcer != nil {
			announcer.QueueEvent(ev, ch)
		}
		if ev.Kind == simulation.EventSolved && results != nil {
			results.Add(NewChallengeResult(ch, snap, source))
		}
	}
	r.broadcast(models.WebSocketMessage{Type: models.MessageTypeSnapshot, Data: snap, Timestamp: now})
	return res
}

// logEvent - 이벤트별 로그 레벨
func (r *SimulationRunner) logEvent(ch *models.Challenge, snap simulation.Snapshot, ev simulation.Event) {
	attrs := []any{"challenge", ch.ID, "session", snap.SessionID, "tick", ev.Tick}
	if ev.Subject != "" {
		attrs = append(attrs, "subject", ev.Subject)
	}
	switch ev.Kind {
	case simulation.EventSolved:
		slog.Info("🏆 챌린지 해결", append(attrs, "elapsedMs", snap.ElapsedMs)...)
	case simulation.EventCollected, simulation.EventPushedOut:
		slog.Info("⭐ 진행", append(attrs, "kind", ev.Kind)...)
	case simulation.EventCollision:
		slog.Info("💥 충돌", append(attrs, "x", snap.Robot.Pose.X, "z", snap.Robot.Pose.Z)...)
	case simulation.EventUnknownCommand:
		slog.Warn("⚠️ 알 수 없는 명령", attrs...)
	default:
		slog.Debug("🔁 실행 이벤트", append(attrs, "kind", ev.Kind, "index", ev.Index)...)
	}
}

func (r *SimulationRunner) broadcast(msg models.WebSocketMessage) {
	if r.broadcastFunc != nil {
		r.broadcastFunc(msg)
	}
}

// ========================================
// 제어
// ========================================

// LoadChallenge replaces the session with a fresh one for the given challenge.
func (r *SimulationRunner) LoadChallenge(id string) (*models.Challenge, error) {
	ch, err := r.catalog.Get(id)
	if err != nil {
		return nil, err
	}

	r.publishMu.Lock()
	defer r.publishMu.Unlock()

	r.mu.Lock()
	r.scheduler = simulation.NewScheduler(r.params, ch)
	r.source = SourceProgram
	snap := r.scheduler.Snapshot()
	r.mu.Unlock()

	slog.Info("📥 챌린지 로드", "challenge", ch.ID, "session", snap.SessionID)
	now := time.Now().UnixMilli()
	r.broadcast(models.WebSocketMessage{Type: models.MessageTypeChallengeLoad, Data: ch, Timestamp: now})
	r.broadcast(models.WebSocketMessage{Type: models.MessageTypeSnapshot, Data: snap, Timestamp: now})
	return ch, nil
}

// Run starts a compiled program on the current session.
func (r *SimulationRunner) Run(commands []models.Command) error {
	return r.control("run", func(s *simulation.Scheduler) error {
		if err := s.Run(commands); err != nil {
			return err
		}
		r.source = SourceProgram
		slog.Info("▶️ 프로그램 실행", "commands", len(commands), "session", s.Session().ID)
		return nil
	})
}

// Jog queues a manual control directive.
func (r *SimulationRunner) Jog(d models.JogDirective) error {
	return r.control("jog", func(s *simulation.Scheduler) error {
		if err := s.Jog(d); err != nil {
			return err
		}
		r.source = SourceJog
		return nil
	})
}

// Pause requests a pause at the next tick.
func (r *SimulationRunner) Pause() error {
	return r.control("pause", func(s *simulation.Scheduler) error {
		s.Pause()
		return nil
	})
}

// Resume continues a paused run.
func (r *SimulationRunner) Resume() error {
	return r.control("resume", func(s *simulation.Scheduler) error {
		return s.Resume()
	})
}

// Reset starts a fresh attempt at the loaded challenge.
func (r *SimulationRunner) Reset() error {
	return r.control("reset", func(s *simulation.Scheduler) error {
		s.Reset()
		r.source = SourceProgram
		slog.Info("🔄 세션 초기화", "challenge", s.Challenge().ID, "session", s.Session().ID)
		return nil
	})
}

// control runs op under the lock and broadcasts the resulting snapshot.
func (r *SimulationRunner) control(name string, op func(*simulation.Scheduler) error) error {
	r.publishMu.Lock()
	defer r.publishMu.Unlock()

	r.mu.Lock()
	if r.scheduler == nil {
		r.mu.Unlock()
		return ErrNoChallenge
	}
	if err := op(r.scheduler); err != nil {
		r.mu.Unlock()
		return fmt.Errorf("%s: %w", name, err)
	}
	snap := r.scheduler.Snapshot()
	r.mu.Unlock()

	r.broadcast(models.WebSocketMessage{Type: models.MessageTypeSnapshot, Data: snap, Timestamp: time.Now().UnixMilli()})
	return nil
}

// Snapshot - 현재 상태
func (r *SimulationRunner) Snapshot() (simulation.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduler == nil {
		return simulation.Snapshot{}, ErrNoChallenge
	}
	return r.scheduler.Snapshot(), nil
}

// Challenge - 로드된 챌린지 (없으면 nil)
func (r *SimulationRunner) Challenge() *models.Challenge {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.scheduler == nil {
		return nil
	}
	return r.scheduler.Challenge()
}
