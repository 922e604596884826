package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"minotaur/internal/app"
	"minotaur/internal/sim"
	"minotaur/internal/telemetry"
)

func main() {
	ratesFlag := flag.String("rates", "0.2,0.3,0.35,0.411,0.45,0.5,0.6", "comma-separated replenish rates")
	seeds := flag.Int("seeds", 4, "seeds per rate, counting up from -seed")
	seed := flag.Int64("seed", 1337, "first seed")
	ticks := flag.Int("ticks", 600, "ticks per run")
	tickMS := flag.Int("tick-ms", 100, "synthetic milliseconds per tick")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	csvPath := flag.String("csv", "", "write results as CSV to this file")
	overrides := app.KV{}
	flag.Var(overrides, "set", "layout override in key=value form (repeatable)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "sweep"})

	rates, err := parseRates(*ratesFlag)
	if err != nil {
		logger.Fatal("parse rates", "err", err)
	}
	seedList := make([]int64, *seeds)
	for i := range seedList {
		seedList[i] = *seed + int64(i)
	}

	plan := telemetry.SweepPlan{
		Base:    sim.FromMap(overrides),
		Rates:   rates,
		Seeds:   seedList,
		Ticks:   *ticks,
		Tick:    time.Duration(*tickMS) * time.Millisecond,
		Workers: *workers,
	}
	logger.Info("sweeping", "rates", len(rates), "seeds", len(seedList), "workers", *workers, "ticks", *ticks)

	start := time.Now()
	results, err := telemetry.Sweep(plan)
	if err != nil {
		logger.Fatal("sweep", "err", err)
	}
	logger.Info("done", "elapsed", time.Since(start).Round(time.Millisecond))

	for _, r := range results {
		fmt.Println(r)
	}

	if *csvPath != "" {
		f, err := os.Create(*csvPath)
		if err != nil {
			logger.Fatal("create csv", "err", err)
		}
		if err := telemetry.WriteSweepCSV(f, results); err != nil {
			f.Close()
			logger.Fatal("write csv", "err", err)
		}
		if err := f.Close(); err != nil {
			logger.Fatal("close csv", "err", err)
		}
	}
}

func parseRates(s string) ([]float64, error) {
	var rates []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, err
		}
		if r < 0 || r > 1 {
			return nil, fmt.Errorf("rate %v outside [0,1]", r)
		}
		rates = append(rates, r)
	}
	return rates, nil
}
