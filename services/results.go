package services

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"robosim-backend/models"
	"robosim-backend/simulation"
)

// ResultSink persists a batch of submission records.
type ResultSink interface {
	SaveResults(results []models.ChallengeResult) error
}

// ResultSinkFunc adapts a function to ResultSink.
type ResultSinkFunc func([]models.ChallengeResult) error

func (f ResultSinkFunc) SaveResults(results []models.ChallengeResult) error { return f(results) }

// DBResultSink - GORM 일괄 저장
type DBResultSink struct {
	DB *gorm.DB
}

// SaveResults writes the batch in chunks of 100 rows.
func (s DBResultSink) SaveResults(results []models.ChallengeResult) error {
	if s.DB == nil {
		return ErrDatabaseDisabled
	}
	return s.DB.CreateInBatches(results, 100).Error
}

// logSink - DB 없이 실행할 때 기록을 로그로만 남김
type logSink struct{}

func (logSink) SaveResults(results []models.ChallengeResult) error {
	for _, r := range results {
		slog.Info("🏁 제출 기록", "challenge", r.ChallengeID, "session", r.SessionID, "ticks", r.Ticks, "source", r.Source)
	}
	return nil
}

// NewResultSink picks the database sink when a store is open.
func NewResultSink(conn *gorm.DB) ResultSink {
	if conn == nil {
		return logSink{}
	}
	return DBResultSink{DB: conn}
}

// ========================================
// 버퍼 (비동기 일괄 처리)
// ========================================

// ResultBuffer batches submission records and flushes them by size or on a
// timer so the tick loop never waits on the database.
type ResultBuffer struct {
	results   []models.ChallengeResult
	mu        sync.Mutex
	flushMu   sync.Mutex
	sink      ResultSink
	flushSize int           // 일괄 저장 크기
	flushTime time.Duration // 자동 플러시 시간

	stopChan chan struct{}
	done     chan struct{}
}

// NewResultBuffer - 버퍼 생성 (Start 전에는 Add/Flush만 동작)
func NewResultBuffer(sink ResultSink, flushSize int, flushInterval time.Duration) *ResultBuffer {
	if flushSize <= 0 {
		flushSize = 1
	}
	return &ResultBuffer{
		results:   make([]models.ChallengeResult, 0, flushSize),
		sink:      sink,
		flushSize: flushSize,
		flushTime: flushInterval,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start - 자동 플러시 고루틴 시작
func (rb *ResultBuffer) Start() {
	go rb.autoFlush()
	slog.Info("✅ 제출 기록 버퍼 시작", "flushSize", rb.flushSize, "flushInterval", rb.flushTime)
}

func (rb *ResultBuffer) autoFlush() {
	defer close(rb.done)
	interval := rb.flushTime
	if interval <= 0 {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rb.Flush()
		case <-rb.stopChan:
			rb.Flush() // 종료 시 남은 기록 저장
			return
		}
	}
}

// Add queues a record and flushes in the background once the buffer is full.
func (rb *ResultBuffer) Add(r models.ChallengeResult) {
	rb.mu.Lock()
	rb.results = append(rb.results, r)
	size := len(rb.results)
	rb.mu.Unlock()

	if size >= rb.flushSize {
		go rb.Flush()
	}
}

// Pending - 아직 저장되지 않은 기록 수
func (rb *ResultBuffer) Pending() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return len(rb.results)
}

// Flush hands everything buffered to the sink. Failed batches are put back.
func (rb *ResultBuffer) Flush() error {
	rb.flushMu.Lock()
	defer rb.flushMu.Unlock()

	rb.mu.Lock()
	if len(rb.results) == 0 {
		rb.mu.Unlock()
		return nil
	}
	batch := make([]models.ChallengeResult, len(rb.results))
	copy(batch, rb.results)
	rb.results = rb.results[:0]
	rb.mu.Unlock()

	if err := rb.sink.SaveResults(batch); err != nil {
		rb.mu.Lock()
		rb.results = append(batch, rb.results...)
		rb.mu.Unlock()
		slog.Error("❌ 제출 기록 저장 실패", "count", len(batch), "err", err)
		return fmt.Errorf("saving %d results: %w", len(batch), err)
	}
	slog.Debug("💾 제출 기록 저장 완료", "count", len(batch))
	return nil
}

// Stop flushes what is left and stops the timer goroutine.
func (rb *ResultBuffer) Stop() {
	close(rb.stopChan)
	<-rb.done
	slog.Info("🛑 제출 기록 버퍼 종료")
}

// NewChallengeResult builds the submission record for a solved snapshot.
func NewChallengeResult(ch *models.Challenge, snap simulation.Snapshot, source string) models.ChallengeResult {
	return models.ChallengeResult{
		CreatedAt:         time.Now(),
		SessionID:         snap.SessionID,
		ChallengeID:       ch.ID,
		ChallengeName:     ch.Name,
		WinCondition:      string(ch.WinCondition),
		Source:            source,
		Ticks:             snap.SolvedTick,
		SimulatedMs:       snap.ElapsedMs,
		CommandCount:      snap.CommandCount,
		Collected:         snap.Progress.Collected,
		CollectiblesTotal: snap.Progress.CollectiblesTotal,
		PushedOut:         snap.Progress.PushedOut,
		PushablesTotal:    snap.Progress.PushablesTotal,
		FinalX:            snap.Robot.Pose.X,
		FinalZ:            snap.Robot.Pose.Z,
		FinalHeading:      snap.Robot.Pose.Heading,
	}
}

// ========================================
// 조회
// ========================================

// GetRecentResults - 최근 제출 기록
func GetRecentResults(limit int) ([]models.ChallengeResult, error) {
	if db == nil {
		return nil, ErrDatabaseDisabled
	}
	var results []models.ChallengeResult
	err := db.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&results).Error
	return results, err
}

// GetResultsByChallenge - 챌린지별 기록 (빠른 순)
func GetResultsByChallenge(challengeID string, limit int) ([]models.ChallengeResult, error) {
	if db == nil {
		return nil, ErrDatabaseDisabled
	}
	var results []models.ChallengeResult
	err := db.Where("challenge_id = ?", challengeID).
		Order("ticks ASC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

// GetResultStats - 챌린지별 해결 횟수, 최단/평균 틱
func GetResultStats() ([]models.ResultStats, error) {
	if db == nil {
		return nil, ErrDatabaseDisabled
	}
	var stats []models.ResultStats
	err := db.Model(&models.ChallengeResult{}).
		Select("challenge_id, COUNT(*) AS count, MIN(ticks) AS best_ticks, AVG(ticks) AS avg_ticks").
		Group("challenge_id").
		Order("challenge_id").
		Scan(&stats).Error
	return stats, err
}
