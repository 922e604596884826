package sim

import (
	"math"
	"time"

	"minotaur/internal/core"
)

func (l *Loop) Parameters() core.ParameterSnapshot {
	mc := l.cfg.Maze
	p := mc.Params
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Maze",
			Params: []core.Parameter{
				core.IntParam("w", "Width", mc.Width),
				core.IntParam("h", "Height", mc.Height),
				core.Int64Param("seed", "Seed", mc.Seed),
				core.IntParam("rings", "Rings", len(p.Rings)),
				core.FloatParam("meadow_radius", "Meadow radius", p.MeadowRadius),
				core.FloatParam("fill_wall_chance", "Fill wall chance", p.FillWallChance),
			},
		},
		{
			Name: "Automaton",
			Params: []core.Parameter{
				core.FloatParam("replenish_rate", "Replenish rate", p.ReplenishRate),
				core.IntParam("rule_interval_ms", "Rule interval (ms)", int(l.cfg.RuleInterval/time.Millisecond)),
				core.IntParam("generation", "Generation", l.engine.Generation()),
			},
		},
		{
			Name: "Route",
			Params: []core.Parameter{
				core.IntParam("repair_limit", "Repair limit", l.cfg.RepairLimit),
				core.IntParam("path_steps", "Path steps", l.path.Steps()),
				core.IntParam("degraded", "Degraded ticks", l.degraded),
				core.IntParam("arrivals", "Arrivals", l.arrivals),
			},
		},
	}}
}

var loopControls = []core.ParameterControl{
	{Key: "replenish_rate", Label: "Replenish rate", Type: core.ParamTypeFloat, Step: 0.01, Min: 0, Max: 1, HasMin: true, HasMax: true},
	{Key: "rule_interval_ms", Label: "Rule interval (ms)", Type: core.ParamTypeInt, Step: 100, Min: 50, Max: 60000, HasMin: true, HasMax: true},
	{Key: "repair_limit", Label: "Repair limit", Type: core.ParamTypeInt, Step: 8, Min: 0, Max: 4096, HasMin: true, HasMax: true},
}

func (l *Loop) ParameterControls() []core.ParameterControl {
	out := make([]core.ParameterControl, len(loopControls))
	copy(out, loopControls)
	return out
}

func (l *Loop) SetFloatParameter(key string, value float64) bool {
	ctrl, ok := controlFor(key)
	if !ok || ctrl.Type != core.ParamTypeFloat || math.IsNaN(value) {
		return false
	}
	value = ctrl.Clamp(value)
	switch key {
	case "replenish_rate":
		if l.cfg.Maze.Params.ReplenishRate == value {
			return false
		}
		l.cfg.Maze.Params.ReplenishRate = value
		l.engine.SetReplenishRate(value)
		return true
	}
	return false
}

func (l *Loop) SetIntParameter(key string, value int) bool {
	ctrl, ok := controlFor(key)
	if !ok || ctrl.Type != core.ParamTypeInt {
		return false
	}
	value = int(ctrl.Clamp(float64(value)))
	switch key {
	case "rule_interval_ms":
		d := time.Duration(value) * time.Millisecond
		if d == l.cfg.RuleInterval {
			return false
		}
		l.cfg.RuleInterval = d
		l.clock.SetPeriod(d)
		return true
	case "repair_limit":
		if value == l.cfg.RepairLimit {
			return false
		}
		l.cfg.RepairLimit = value
		return true
	}
	return false
}

func controlFor(key string) (core.ParameterControl, bool) {
	for _, c := range loopControls {
		if c.Key == key {
			return c, true
		}
	}
	return core.ParameterControl{}, false
}
