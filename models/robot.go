package models

// ========================================
// Pose / 로봇 위치
// ========================================

// Pose - planar robot pose. Heading is in degrees, 0 = +X, 90 = +Z.
type Pose struct {
	X       float64 `json:"x" yaml:"x"`
	Z       float64 `json:"z" yaml:"z"`
	Heading float64 `json:"heading" yaml:"heading"`
}

// ========================================
// 로봇 전체 상태
// ========================================

// RobotState - kinematic and actuator snapshot of the simulated robot
type RobotState struct {
	// 위치 정보
	Pose Pose `json:"pose"`

	// 모터
	LeftWheelSpeed  float64 `json:"left_wheel_speed"`  // -100 ~ 100
	RightWheelSpeed float64 `json:"right_wheel_speed"` // -100 ~ 100
	IsMoving        bool    `json:"is_moving"`

	// 액추에이터
	ServoAngle float64         `json:"servo_angle"` // degrees
	LEDs       map[string]bool `json:"leds"`        // pin -> on
	BuzzerHz   float64         `json:"buzzer_hz"`   // 0 when silent

	// 센서
	SensorDistance   float64 `json:"sensor_distance"`
	ObstacleDetected bool    `json:"obstacle_detected"`
}

// NewRobotState - 시작 위치에서 정지 상태의 로봇 생성
func NewRobotState(start Pose) RobotState {
	return RobotState{
		Pose: start,
		LEDs: map[string]bool{},
	}
}

// WithLED returns a copy of the LED bank with pin set. The receiver's map is
// never written, so snapshots that share it stay stable.
func (r RobotState) WithLED(pin string, on bool) map[string]bool {
	leds := make(map[string]bool, len(r.LEDs)+1)
	for k, v := range r.LEDs {
		leds[k] = v
	}
	leds[pin] = on
	return leds
}
