package sim

import (
	"time"

	"minotaur/internal/core"
)

// State is the phase of the loop's per-tick pipeline.
type State int

const (
	Idle State = iota
	Running
	RuleUpdate
	PathCheck
	RepairLoop
	AgentStep
	Render
)

var stateNames = [...]string{
	Idle:       "idle",
	Running:    "running",
	RuleUpdate: "rule-update",
	PathCheck:  "path-check",
	RepairLoop: "repair-loop",
	AgentStep:  "agent-step",
	Render:     "render",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Fallback names the last-resort measure taken after the repair limit.
type Fallback string

const (
	FallbackNone     Fallback = ""
	FallbackBreach   Fallback = "breach"
	FallbackCorridor Fallback = "corridor"
)

// Frame is what the presentation layer receives at the end of a tick. Grid
// and Path are owned by the loop and only valid until the next tick.
type Frame struct {
	Tick      uint64
	Grid      *core.Grid
	Path      core.Path
	HasPath   bool
	Agent     core.Coord
	Landmarks core.Landmarks
}

// Publisher receives a Frame once per tick.
type Publisher interface {
	Publish(Frame)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Frame)

// Publish calls f.
func (f PublisherFunc) Publish(fr Frame) { f(fr) }

// TickReport summarises one tick for telemetry.
type TickReport struct {
	Tick        uint64
	Elapsed     time.Duration
	Clock       time.Duration
	Generation  int
	RuleUpdated bool
	RepairSteps int
	Fallback    Fallback
	PathSteps   int
	Agent       core.Coord
	AtGoal      bool
	WallDensity float64
}

// Recorder persists tick reports. Record errors are logged, never fatal.
type Recorder interface {
	Record(TickReport) error
}
