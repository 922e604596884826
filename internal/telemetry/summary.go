package telemetry

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"minotaur/internal/sim"
)

// Summary aggregates a run.
type Summary struct {
	Ticks int

	MeanWallDensity float64
	StdWallDensity  float64
	MeanPathSteps   float64
	StdPathSteps    float64

	// RepairTicks counts ticks that needed at least one repair generation.
	RepairTicks     int
	MeanRepairSteps float64
	MaxRepairSteps  int

	Degraded int
	Arrivals int
}

// Summarize computes means and standard deviations over reports.
func Summarize(reports []sim.TickReport) Summary {
	s := Summary{Ticks: len(reports)}
	if len(reports) == 0 {
		return s
	}
	density := make([]float64, len(reports))
	steps := make([]float64, len(reports))
	repairs := make([]float64, len(reports))
	for i, r := range reports {
		density[i] = r.WallDensity
		steps[i] = float64(r.PathSteps)
		repairs[i] = float64(r.RepairSteps)
		if r.RepairSteps > 0 {
			s.RepairTicks++
		}
		if r.RepairSteps > s.MaxRepairSteps {
			s.MaxRepairSteps = r.RepairSteps
		}
		if r.Fallback != sim.FallbackNone {
			s.Degraded++
		}
		if r.AtGoal {
			s.Arrivals++
		}
	}
	s.MeanWallDensity, s.StdWallDensity = meanStd(density)
	s.MeanPathSteps, s.StdPathSteps = meanStd(steps)
	s.MeanRepairSteps = stat.Mean(repairs, nil)
	return s
}

// meanStd reports a zero deviation for a single sample.
func meanStd(x []float64) (float64, float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"ticks=%d walls=%.3f±%.3f path=%.1f±%.1f repair_ticks=%d repair_mean=%.2f repair_max=%d degraded=%d arrivals=%d",
		s.Ticks,
		s.MeanWallDensity, s.StdWallDensity,
		s.MeanPathSteps, s.StdPathSteps,
		s.RepairTicks, s.MeanRepairSteps, s.MaxRepairSteps,
		s.Degraded, s.Arrivals,
	)
}
