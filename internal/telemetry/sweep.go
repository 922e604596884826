package telemetry

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"minotaur/internal/sim"
)

// SweepPlan describes a replenish-rate sweep.
type SweepPlan struct {
	Base    sim.Config
	Rates   []float64
	Seeds   []int64
	Ticks   int
	Tick    time.Duration
	Workers int
}

// SweepResult aggregates every seed run at one replenish rate.
type SweepResult struct {
	Rate            float64 `csv:"replenish_rate"`
	Runs            int     `csv:"runs"`
	MeanWallDensity float64 `csv:"wall_density_mean"`
	StdWallDensity  float64 `csv:"wall_density_std"`
	MeanPathSteps   float64 `csv:"path_steps_mean"`
	MeanRepairSteps float64 `csv:"repair_steps_mean"`
	StdRepairSteps  float64 `csv:"repair_steps_std"`
	RepairTicks     int     `csv:"repair_ticks"`
	Degraded        int     `csv:"degraded_ticks"`
	Arrivals        int     `csv:"arrivals"`
}

func (r SweepResult) String() string {
	return fmt.Sprintf("rate=%.3f runs=%d walls=%.3f±%.3f path=%.1f repair=%.2f±%.2f repair_ticks=%d degraded=%d arrivals=%d",
		r.Rate, r.Runs, r.MeanWallDensity, r.StdWallDensity, r.MeanPathSteps,
		r.MeanRepairSteps, r.StdRepairSteps, r.RepairTicks, r.Degraded, r.Arrivals)
}

type sweepJob struct {
	rate float64
	seed int64
}

type sweepRun struct {
	job     sweepJob
	summary Summary
	err     error
}

// Sweep runs one independent loop per (rate, seed) pair on a worker pool and
// returns results ordered by rate.
func Sweep(plan SweepPlan) ([]SweepResult, error) {
	if len(plan.Rates) == 0 || len(plan.Seeds) == 0 {
		return nil, errors.New("sweep needs at least one rate and one seed")
	}
	if plan.Ticks <= 0 {
		return nil, fmt.Errorf("sweep ticks %d must be positive", plan.Ticks)
	}
	workers := plan.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan sweepJob)
	runs := make(chan sweepRun)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				summary, err := runSweepJob(plan, job)
				runs <- sweepRun{job: job, summary: summary, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(runs)
	}()
	go func() {
		for _, rate := range plan.Rates {
			for _, seed := range plan.Seeds {
				jobs <- sweepJob{rate: rate, seed: seed}
			}
		}
		close(jobs)
	}()

	byRate := map[float64][]Summary{}
	var errs []error
	for run := range runs {
		if run.err != nil {
			errs = append(errs, fmt.Errorf("rate %v seed %d: %w", run.job.rate, run.job.seed, run.err))
			continue
		}
		byRate[run.job.rate] = append(byRate[run.job.rate], run.summary)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	results := make([]SweepResult, 0, len(byRate))
	for rate, summaries := range byRate {
		results = append(results, aggregate(rate, summaries))
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Rate < results[j].Rate })
	return results, nil
}

func runSweepJob(plan SweepPlan, job sweepJob) (Summary, error) {
	cfg := plan.Base
	cfg.Maze.Seed = job.seed
	cfg.Maze.Params.ReplenishRate = job.rate
	rec := NewCSVRecorder(nil)
	l, err := sim.New(cfg, sim.WithRecorder(rec))
	if err != nil {
		return Summary{}, err
	}
	for i := 0; i < plan.Ticks; i++ {
		if err := l.OnTick(plan.Tick); err != nil && !errors.Is(err, sim.ErrRepairExhausted) {
			return Summary{}, err
		}
	}
	return rec.Summary(), nil
}

func aggregate(rate float64, summaries []Summary) SweepResult {
	res := SweepResult{Rate: rate, Runs: len(summaries)}
	density := make([]float64, len(summaries))
	path := make([]float64, len(summaries))
	repair := make([]float64, len(summaries))
	for i, s := range summaries {
		density[i] = s.MeanWallDensity
		path[i] = s.MeanPathSteps
		repair[i] = s.MeanRepairSteps
		res.RepairTicks += s.RepairTicks
		res.Degraded += s.Degraded
		res.Arrivals += s.Arrivals
	}
	res.MeanWallDensity, res.StdWallDensity = meanStd(density)
	res.MeanPathSteps = stat.Mean(path, nil)
	res.MeanRepairSteps, res.StdRepairSteps = meanStd(repair)
	return res
}

// WriteSweepCSV writes results with a header row.
func WriteSweepCSV(w io.Writer, results []SweepResult) error {
	if err := gocsv.Marshal(results, w); err != nil {
		return fmt.Errorf("writing sweep: %w", err)
	}
	return nil
}
