//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"minotaur/internal/app"
	"minotaur/internal/core"
	"minotaur/internal/sim"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "minotaur"})

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		logger.Fatal("unknown sim", "sim", cfg.Sim, "available", core.SimNames())
	}
	s, err := factory(cfg.Params())
	if err != nil {
		logger.Fatal("build sim", "err", err)
	}
	if l, ok := s.(*sim.Loop); ok {
		l.SetLogger(logger)
	}

	game := app.New(s, cfg, logger)
	size := s.Size()

	ebiten.SetWindowTitle("minotaur: " + s.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("run", "err", err)
	}
}
