package models

import (
	"time"
)

// ChallengeResult - 해결된 챌린지 제출 기록
type ChallengeResult struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	SessionID     string `gorm:"index;size:64" json:"session_id"`
	ChallengeID   string `gorm:"index;size:64" json:"challenge_id"`
	ChallengeName string `json:"challenge_name"`
	WinCondition  string `json:"win_condition"`
	Source        string `json:"source"` // "program" | "jog"

	// 실행 정보
	Ticks        uint64 `json:"ticks"`
	SimulatedMs  int64  `json:"simulated_ms"`
	CommandCount int    `json:"command_count"`

	// 진행도
	Collected         int `json:"collected"`
	CollectiblesTotal int `json:"collectibles_total"`
	PushedOut         int `json:"pushed_out"`
	PushablesTotal    int `json:"pushables_total"`

	// 최종 위치
	FinalX       float64 `json:"final_x"`
	FinalZ       float64 `json:"final_z"`
	FinalHeading float64 `json:"final_heading"`
}

// ResultStats - 챌린지별 통계
type ResultStats struct {
	ChallengeID string  `json:"challenge_id"`
	Count       int64   `json:"count"`
	BestTicks   uint64  `json:"best_ticks"`
	AvgTicks    float64 `json:"avg_ticks"`
}
