package models

import "time"

// ========================================
// 메시지 타입 상수
// ========================================
const (
	// Server → Viewer
	MessageTypeSnapshot       = "snapshot"        // 매 틱 시뮬레이션 스냅샷
	MessageTypeRunEvent       = "run_event"       // 엔진 이벤트 (수집, 충돌, 해결...)
	MessageTypeAnnouncement   = "announcement"    // 이벤트 안내 문구
	MessageTypeChallengeLoad  = "challenge_load"  // 챌린지 변경
	MessageTypeSystemInfo     = "system_info"     // 시스템 정보
	MessageTypeControlFailure = "control_failure" // 제어 요청 실패

	// Viewer → Server
	MessageTypeLoadChallenge = "load_challenge"
	MessageTypeRun           = "run"
	MessageTypePause         = "pause"
	MessageTypeResume        = "resume"
	MessageTypeReset         = "reset"
	MessageTypeJog           = "jog"
)

// ========================================
// 공통 WebSocket 메시지 형식
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// ========================================
// 제어 요청
// ========================================

// LoadChallengeRequest - 챌린지 선택
type LoadChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

// RunRequest - 블록 프로그램 실행
type RunRequest struct {
	Commands []Command `json:"commands"`
}

// JogRequest - 수동 조작
type JogRequest struct {
	Directive JogDirective `json:"directive"`
}

// ========================================
// 안내 / 시스템 정보
// ========================================

// Announcement - short text describing a simulation event
type Announcement struct {
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Priority  int    `json:"priority"`
	Tick      uint64 `json:"tick"`
	Timestamp int64  `json:"timestamp"`
}

// ControlFailure - error reply for a control message
type ControlFailure struct {
	Request string `json:"request"`
	Error   string `json:"error"`
}

// SystemInfo - 서버 상태 요약
type SystemInfo struct {
	ConnectedViewers int       `json:"connected_viewers"`
	ChallengeID      string    `json:"challenge_id"`
	ServerTime       time.Time `json:"server_time"`
	TickMs           int64     `json:"tick_ms"`
}
