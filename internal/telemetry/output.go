// Package telemetry writes per-tick records and summarises runs.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"minotaur/internal/config"
	"minotaur/internal/sim"
)

// TickRow is the CSV form of a sim.TickReport.
type TickRow struct {
	Tick        uint64  `csv:"tick"`
	ClockMS     int64   `csv:"clock_ms"`
	Generation  int     `csv:"generation"`
	RuleUpdated bool    `csv:"rule_updated"`
	RepairSteps int     `csv:"repair_steps"`
	Fallback    string  `csv:"fallback"`
	PathSteps   int     `csv:"path_steps"`
	AgentX      int     `csv:"agent_x"`
	AgentY      int     `csv:"agent_y"`
	AtGoal      bool    `csv:"at_goal"`
	WallDensity float64 `csv:"wall_density"`
}

// RowFromReport flattens r for CSV output.
func RowFromReport(r sim.TickReport) TickRow {
	return TickRow{
		Tick:        r.Tick,
		ClockMS:     r.Clock.Milliseconds(),
		Generation:  r.Generation,
		RuleUpdated: r.RuleUpdated,
		RepairSteps: r.RepairSteps,
		Fallback:    string(r.Fallback),
		PathSteps:   r.PathSteps,
		AgentX:      r.Agent.X,
		AgentY:      r.Agent.Y,
		AtGoal:      r.AtGoal,
		WallDensity: r.WallDensity,
	}
}

// CSVRecorder streams tick reports as CSV and keeps them for Summarize. It
// implements sim.Recorder.
type CSVRecorder struct {
	w             io.Writer
	headerWritten bool
	reports       []sim.TickReport
}

// NewCSVRecorder writes to w. A nil writer only collects reports.
func NewCSVRecorder(w io.Writer) *CSVRecorder {
	return &CSVRecorder{w: w}
}

// Record appends r to the output.
func (c *CSVRecorder) Record(r sim.TickReport) error {
	c.reports = append(c.reports, r)
	if c.w == nil {
		return nil
	}
	records := []TickRow{RowFromReport(r)}
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.w); err != nil {
			return fmt.Errorf("writing tick: %w", err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.w); err != nil {
		return fmt.Errorf("writing tick: %w", err)
	}
	return nil
}

// Reports returns everything recorded so far.
func (c *CSVRecorder) Reports() []sim.TickReport { return c.reports }

// Summary summarises the recorded reports.
func (c *CSVRecorder) Summary() Summary { return Summarize(c.reports) }

// Output owns a run directory holding ticks.csv and config.yaml.
type Output struct {
	dir   string
	ticks *os.File
	*CSVRecorder
}

// NewOutput creates dir and opens ticks.csv inside it. An empty dir disables
// file output; the returned Output then only collects reports.
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return &Output{CSVRecorder: NewCSVRecorder(nil)}, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "ticks.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating ticks.csv: %w", err)
	}
	return &Output{dir: dir, ticks: f, CSVRecorder: NewCSVRecorder(f)}, nil
}

// Dir returns the output directory, empty when disabled.
func (o *Output) Dir() string { return o.dir }

// WriteConfig saves cfg as config.yaml next to the tick log.
func (o *Output) WriteConfig(cfg *config.Config) error {
	if o.dir == "" {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(o.dir, "config.yaml"))
}

// Close flushes and closes ticks.csv.
func (o *Output) Close() error {
	if o.ticks == nil {
		return nil
	}
	err := o.ticks.Close()
	o.ticks = nil
	return err
}
