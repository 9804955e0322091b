package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CommandType - block compiler command names
type CommandType string

const (
	CommandMoveForward  CommandType = "move_forward"
	CommandMoveBackward CommandType = "move_backward"
	CommandTurnLeft     CommandType = "turn_left"
	CommandTurnRight    CommandType = "turn_right"
	CommandStop         CommandType = "stop"
	CommandLEDOn        CommandType = "led_on"
	CommandLEDOff       CommandType = "led_off"
	CommandServo        CommandType = "servo"
	CommandBuzzer       CommandType = "buzzer"
	CommandDelay        CommandType = "delay"
)

// TurnPolicy - how a turn command spreads its rotation over ticks
type TurnPolicy string

const (
	// TurnProportional rotates angle/ticks per tick (scripted programs).
	TurnProportional TurnPolicy = "proportional"
	// TurnConstantRate rotates a fixed number of degrees per tick (jog control).
	TurnConstantRate TurnPolicy = "constant_rate"
)

// Command - one entry of a compiled block program
type Command struct {
	Type       CommandType    `json:"type" yaml:"type"`
	Params     map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	DurationMs int            `json:"duration_ms" yaml:"duration_ms"`
	TurnPolicy TurnPolicy     `json:"turn_policy,omitempty" yaml:"turn_policy,omitempty"`
}

// IsMotion reports whether the command drives the wheels.
func (c Command) IsMotion() bool {
	switch c.Type {
	case CommandMoveForward, CommandMoveBackward, CommandTurnLeft, CommandTurnRight:
		return true
	}
	return false
}

// Float - 숫자 파라미터 조회 (JSON, YAML 양쪽 타입 허용)
func (c Command) Float(key string, def float64) float64 {
	v, ok := c.Params[key]
	if !ok || v == nil {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// String - 문자열 파라미터 조회. Numbers are formatted, so pin 13 and "13" match.
func (c Command) String(key, def string) string {
	v, ok := c.Params[key]
	if !ok || v == nil {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return fmt.Sprint(s)
	}
}

// ========================================
// 수동 조작 (jog)
// ========================================

// JogDirective - manual control button
type JogDirective string

const (
	JogForward   JogDirective = "forward"
	JogBackward  JogDirective = "backward"
	JogTurnLeft  JogDirective = "turn_left"
	JogTurnRight JogDirective = "turn_right"
	JogStop      JogDirective = "stop"
)
