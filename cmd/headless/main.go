package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"minotaur/internal/config"
	"minotaur/internal/render"
	"minotaur/internal/sim"
	"minotaur/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "YAML config file layered over the defaults")
	envFile := flag.String("env", ".env", "dotenv file with MINOTAUR_* overrides")
	ticks := flag.Int("ticks", 0, "ticks to run, overriding the config")
	out := flag.String("out", "", "output directory for ticks.csv, config.yaml and snapshot.png")
	snapshotScale := flag.Int("snapshot-scale", 4, "pixels per cell in snapshot.png")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("load config", "err", err)
	}
	if err := cfg.ApplyEnv(*envFile); err != nil {
		log.Fatal("apply env", "err", err)
	}
	if *ticks > 0 {
		cfg.Run.Ticks = *ticks
	}
	if *out != "" {
		cfg.Run.OutputDir = *out
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", "err", err)
	}
	logger := cfg.Logger("headless")

	summary, err := run(cfg, logger, *snapshotScale)
	if err != nil {
		logger.Fatal("run failed", "err", err)
	}
	fmt.Println(summary)
}

// run executes the configured ticks. The output directory is closed before
// run returns, whether or not the run succeeded.
func run(cfg *config.Config, logger *log.Logger, snapshotScale int) (summary telemetry.Summary, err error) {
	output, err := telemetry.NewOutput(cfg.Run.OutputDir)
	if err != nil {
		return summary, fmt.Errorf("open output: %w", err)
	}
	defer func() {
		if cerr := output.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()
	if err := output.WriteConfig(cfg); err != nil {
		return summary, fmt.Errorf("write config: %w", err)
	}

	loop, err := sim.New(cfg.SimConfig(),
		sim.WithName(cfg.Layout),
		sim.WithLogger(logger),
		sim.WithRecorder(output),
	)
	if err != nil {
		return summary, fmt.Errorf("build sim: %w", err)
	}

	size := loop.Size()
	logger.Info("run started",
		"layout", loop.Name(),
		"size", fmt.Sprintf("%dx%d", size.W, size.H),
		"seed", cfg.Maze.Seed,
		"ticks", cfg.Run.Ticks,
	)
	elapsed := time.Duration(cfg.Run.TickMS) * time.Millisecond
	progressEvery := max(cfg.Run.Ticks/10, 1)
	start := time.Now()
	for i := 1; i <= cfg.Run.Ticks; i++ {
		if err := loop.OnTick(elapsed); err != nil {
			if !errors.Is(err, sim.ErrRepairExhausted) {
				return summary, fmt.Errorf("tick %d: %w", i, err)
			}
			logger.Debug("degraded tick", "err", err)
		}
		if i%progressEvery == 0 {
			r := loop.LastReport()
			logger.Info("progress",
				"tick", i,
				"generation", r.Generation,
				"agent", r.Agent,
				"path", r.PathSteps,
				"walls", fmt.Sprintf("%.3f", r.WallDensity),
			)
		}
	}

	if dir := output.Dir(); dir != "" {
		if err := writeSnapshot(loop, filepath.Join(dir, "snapshot.png"), snapshotScale); err != nil {
			logger.Error("snapshot", "err", err)
		}
	}

	logger.Info("run finished",
		"elapsed", time.Since(start).Round(time.Millisecond),
		"degraded", loop.Degraded(),
		"arrivals", loop.Arrivals(),
	)
	return output.Summary(), nil
}

func writeSnapshot(loop *sim.Loop, path string, scale int) error {
	size := loop.Size()
	fb := render.NewFrameBuffer(size.W, size.H)
	route, _ := loop.CurrentPath()
	fb.Paint(loop.Grid(), route, loop.AgentPosition(), true)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fb.WritePNG(f, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
