package ui

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	"minotaur/internal/core"
)

// controlState tracks one adjustable HUD row.
type controlState struct {
	control core.ParameterControl
	value   string

	intValue   int
	floatValue float64
	hasValue   bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

func newControlStates(sim core.Sim) []controlState {
	provider, ok := sim.(core.ParameterControlsProvider)
	if !ok {
		return nil
	}
	controls := provider.ParameterControls()
	states := make([]controlState, len(controls))
	for i, ctrl := range controls {
		states[i] = controlState{control: ctrl, value: "--"}
	}
	return states
}

func indexParams(snap core.ParameterSnapshot) map[string]core.Parameter {
	out := map[string]core.Parameter{}
	for _, group := range snap.Groups {
		for _, p := range group.Params {
			out[p.Key] = p
		}
	}
	return out
}

// refresh loads the displayed value from the latest snapshot.
func (s *controlState) refresh(params map[string]core.Parameter) {
	s.hasValue = false
	s.value = "--"
	param, ok := params[s.control.Key]
	if !ok {
		return
	}
	switch s.control.Type {
	case core.ParamTypeInt:
		parsed, err := strconv.Atoi(param.Value)
		if err != nil {
			return
		}
		s.intValue = parsed
		s.floatValue = float64(parsed)
		s.value = strconv.Itoa(parsed)
		s.hasValue = true
	case core.ParamTypeFloat:
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			return
		}
		s.floatValue = parsed
		s.value = formatFloat(s.control, parsed)
		s.hasValue = true
	}
}

func (s *controlState) step() float64 {
	if s.control.Type == core.ParamTypeInt {
		step := math.Round(s.control.Step)
		if step <= 0 {
			step = 1
		}
		return step
	}
	if s.control.Step <= 0 {
		return 0.05
	}
	return s.control.Step
}

// target returns the value one step in direction, clamped, and whether it
// differs from the current value.
func (s *controlState) target(direction int) (float64, bool) {
	if !s.hasValue || direction == 0 {
		return 0, false
	}
	next := s.control.Clamp(s.floatValue + float64(direction)*s.step())
	if s.control.Type == core.ParamTypeInt {
		next = math.Round(next)
	}
	return next, math.Abs(next-s.floatValue) >= 1e-9
}

// apply pushes one step to the sim through the matching setter.
func (s *controlState) apply(direction int, ints core.IntParameterSetter, floats core.FloatParameterSetter) bool {
	next, ok := s.target(direction)
	if !ok {
		return false
	}
	switch s.control.Type {
	case core.ParamTypeInt:
		if ints == nil || !ints.SetIntParameter(s.control.Key, int(next)) {
			return false
		}
		s.intValue = int(next)
		s.floatValue = next
		s.value = strconv.Itoa(s.intValue)
		return true
	case core.ParamTypeFloat:
		if floats == nil || !floats.SetFloatParameter(s.control.Key, next) {
			return false
		}
		s.floatValue = next
		s.value = formatFloat(s.control, next)
		return true
	}
	return false
}

func formatFloat(ctrl core.ParameterControl, value float64) string {
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	return strings.ToUpper(name[:1]) + name[1:] + " Controls"
}

// StatusLine summarises the run for the HUD footer and window title.
func StatusLine(sim core.Sim, paused, showPath bool) string {
	var b strings.Builder
	pos := sim.AgentPosition()
	fmt.Fprintf(&b, "agent %v", pos)
	if path, ok := sim.CurrentPath(); ok {
		fmt.Fprintf(&b, "  path %d", path.Steps())
	} else {
		b.WriteString("  path --")
	}
	if provider, ok := sim.(core.ParameterProvider); ok {
		params := indexParams(provider.Parameters())
		if p, ok := params["generation"]; ok {
			fmt.Fprintf(&b, "  gen %s", p.Value)
		}
		if p, ok := params["degraded"]; ok && p.Value != "0" {
			fmt.Fprintf(&b, "  degraded %s", p.Value)
		}
	}
	if paused {
		b.WriteString("  [paused]")
	}
	if showPath {
		b.WriteString("  [path]")
	}
	return b.String()
}

// PathOutline returns the route cells drawn by the viewer: everything after
// the agent's cell and its next step.
func PathOutline(path core.Path) []core.Coord {
	if len(path) <= 2 {
		return nil
	}
	return path[2:]
}
