package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"robosim-backend/simulation"
)

// TraceRecord - one CSV row per simulated tick
type TraceRecord struct {
	Tick       uint64  `csv:"tick"`
	State      string  `csv:"state"`
	Command    int     `csv:"command"`
	X          float64 `csv:"x"`
	Z          float64 `csv:"z"`
	Heading    float64 `csv:"heading"`
	LeftWheel  float64 `csv:"left_wheel"`
	RightWheel float64 `csv:"right_wheel"`
	Sensor     float64 `csv:"sensor"`
	Obstacle   bool    `csv:"obstacle"`
	Collected  int     `csv:"collected"`
	PushedOut  int     `csv:"pushed_out"`
	Solved     bool    `csv:"solved"`
	Events     string  `csv:"events"`
}

// TraceWriter streams per-tick records as CSV. A nil *TraceWriter discards
// everything, so callers need no enabled checks.
type TraceWriter struct {
	out           io.Writer
	headerWritten bool
	rows          int
}

// NewTraceWriter returns nil when out is nil.
func NewTraceWriter(out io.Writer) *TraceWriter {
	if out == nil {
		return nil
	}
	return &TraceWriter{out: out}
}

// NewTraceRecord flattens a step and the snapshot taken after it.
func NewTraceRecord(res simulation.StepResult, snap simulation.Snapshot) TraceRecord {
	return TraceRecord{
		Tick:       res.Tick,
		State:      string(res.State),
		Command:    snap.CommandIndex,
		X:          snap.Robot.Pose.X,
		Z:          snap.Robot.Pose.Z,
		Heading:    snap.Robot.Pose.Heading,
		LeftWheel:  snap.Robot.LeftWheelSpeed,
		RightWheel: snap.Robot.RightWheelSpeed,
		Sensor:     snap.Robot.SensorDistance,
		Obstacle:   snap.Robot.ObstacleDetected,
		Collected:  snap.Progress.Collected,
		PushedOut:  snap.Progress.PushedOut,
		Solved:     snap.Solved,
		Events:     formatEvents(res.Events),
	}
}

// formatEvents - "kind:subject|kind" 형태
func formatEvents(events []simulation.Event) string {
	parts := make([]string, 0, len(events))
	for _, ev := range events {
		if ev.Subject != "" {
			parts = append(parts, string(ev.Kind)+":"+ev.Subject)
		} else {
			parts = append(parts, string(ev.Kind))
		}
	}
	return strings.Join(parts, "|")
}

// Write appends one record, emitting the header before the first row.
func (tw *TraceWriter) Write(rec TraceRecord) error {
	if tw == nil {
		return nil
	}
	records := []TraceRecord{rec}
	if !tw.headerWritten {
		if err := gocsv.Marshal(records, tw.out); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		tw.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, tw.out); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}
	tw.rows++
	return nil
}

// Rows - 기록된 행 수
func (tw *TraceWriter) Rows() int {
	if tw == nil {
		return 0
	}
	return tw.rows
}
