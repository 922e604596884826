package sim

import (
	"errors"
	"testing"
	"time"

	"minotaur/internal/core"
	"minotaur/internal/maze"
	"minotaur/internal/planner"
)

type frames struct{ got []Frame }

func (f *frames) Publish(fr Frame) { f.got = append(f.got, fr) }

type reports struct {
	got []TickReport
	err error
}

func (r *reports) Record(tr TickReport) error {
	r.got = append(r.got, tr)
	return r.err
}

func newLoop(t *testing.T, cfg Config, opts ...Option) *Loop {
	t.Helper()
	l, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

// corridorGrid is an open 14x10 field with the agent at (1,5) and the goal at
// (12,5).
func corridorGrid(t *testing.T) *core.Grid {
	t.Helper()
	start := core.Coord{X: 1, Y: 5}
	g, err := core.NewGrid(14, 10, core.Landmarks{Start: start, Goal: core.Coord{X: 12, Y: 5}, Center: start})
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func wallColumn(g *core.Grid, x int, s core.CellState) {
	for y := 0; y < g.H; y++ {
		_ = g.Set(x, y, s)
	}
}

func TestDefaultRunKeepsInvariants(t *testing.T) {
	pub := &frames{}
	l := newLoop(t, DefaultConfig(), WithPublisher(pub))
	lm := l.Landmarks()
	if l.State() != Idle {
		t.Fatalf("new loop should be idle, got %v", l.State())
	}
	structural := l.Grid().Count(core.StructuralWall)

	for i := 0; i < 300; i++ {
		prev := l.AgentPosition()
		err := l.OnTick(100 * time.Millisecond)
		if err != nil && !errors.Is(err, ErrRepairExhausted) {
			t.Fatalf("tick %d: %v", i, err)
		}
		if l.State() != Running {
			t.Fatalf("tick %d ended in state %v", i, l.State())
		}
		g := l.Grid()
		pos := l.AgentPosition()
		if !g.Traversable(pos) {
			t.Fatalf("tick %d: agent on blocked cell %v", i, pos)
		}
		if abs(pos.X-prev.X)+abs(pos.Y-prev.Y) > 1 {
			t.Fatalf("tick %d: agent jumped from %v to %v", i, prev, pos)
		}
		if !g.Traversable(lm.Start) || !g.Traversable(lm.Goal) {
			t.Fatalf("tick %d: start or goal blocked", i)
		}
		path, ok := l.CurrentPath()
		if !ok || path[0] != prev || path[len(path)-1] != lm.Goal {
			t.Fatalf("tick %d: path %v does not run from %v to the goal", i, path, prev)
		}
		if !planner.Valid(g, path) {
			t.Fatalf("tick %d: invalid path", i)
		}
	}
	if len(pub.got) != 300 {
		t.Fatalf("expected a frame per tick, got %d", len(pub.got))
	}
	if last := pub.got[len(pub.got)-1]; last.Tick != 300 || last.Agent != l.AgentPosition() {
		t.Fatalf("last frame out of date: %+v", last)
	}
	// 30s of synthetic time at a 2s interval.
	if l.Generation() < 15 {
		t.Fatalf("expected at least 15 generations, got %d", l.Generation())
	}
	if l.Degraded() == 0 && l.Grid().Count(core.StructuralWall) != structural {
		t.Fatal("structural walls changed without a fallback")
	}
}

func TestRuleIntervalDropsMissedTime(t *testing.T) {
	l := newLoop(t, DefaultConfig())
	steps := []struct {
		elapsed time.Duration
		want    bool
	}{
		{1500 * time.Millisecond, false},
		{600 * time.Millisecond, true},
		{5 * time.Second, true},
		{time.Second, false},
		{time.Second, true},
		{0, false},
	}
	for i, s := range steps {
		if err := l.OnTick(s.elapsed); err != nil && !errors.Is(err, ErrRepairExhausted) {
			t.Fatalf("step %d: %v", i, err)
		}
		if got := l.LastReport().RuleUpdated; got != s.want {
			t.Fatalf("step %d: rule update %v, want %v", i, got, s.want)
		}
	}
}

func TestEnclosedGoalExhaustsRepairAndCarves(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RepairLimit = 5
	rec := &reports{}
	l := newLoop(t, cfg, WithRecorder(rec))

	g := corridorGrid(t)
	goal := g.Goal()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx != 0 || dy != 0 {
				_ = g.Set(goal.X+dx, goal.Y+dy, core.StructuralWall)
			}
		}
	}
	if err := l.SetGrid(g); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}
	if _, ok := l.CurrentPath(); ok {
		t.Fatal("sealed goal should start without a path")
	}

	err := l.OnTick(0)
	if !errors.Is(err, ErrRepairExhausted) {
		t.Fatalf("expected ErrRepairExhausted, got %v", err)
	}
	r := l.LastReport()
	if r.RepairSteps != 5 || l.Generation() != 5 {
		t.Fatalf("repair should stop at the cap: steps=%d generation=%d", r.RepairSteps, l.Generation())
	}
	if r.Fallback != FallbackCorridor {
		t.Fatalf("expected corridor fallback, got %q", r.Fallback)
	}
	if s, _ := l.CellState(goal.X-1, goal.Y); s != core.Open {
		t.Fatalf("corridor should open the ring west of the goal, got %v", s)
	}
	if s, _ := l.CellState(goal.X, goal.Y-1); s != core.StructuralWall {
		t.Fatalf("corridor must not touch cells off its line, got %v", s)
	}
	if l.AgentPosition() != (core.Coord{X: 2, Y: 5}) {
		t.Fatalf("agent should take the first corridor step, at %v", l.AgentPosition())
	}
	if l.Degraded() != 1 || len(rec.got) != 1 {
		t.Fatalf("degraded=%d reports=%d", l.Degraded(), len(rec.got))
	}

	if err := l.OnTick(0); err != nil {
		t.Fatalf("carved route should hold on the next tick: %v", err)
	}
	if l.LastReport().RepairSteps != 0 {
		t.Fatal("no repair expected once the corridor exists")
	}
}

func TestBreachOpensOnlyPlainWalls(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RepairLimit = 0
	l := newLoop(t, cfg)
	g := corridorGrid(t)
	wallColumn(g, 6, core.Wall)
	if err := l.SetGrid(g); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}

	if err := l.OnTick(0); !errors.Is(err, ErrRepairExhausted) {
		t.Fatalf("expected ErrRepairExhausted, got %v", err)
	}
	if r := l.LastReport(); r.Fallback != FallbackBreach || r.PathSteps != 11 {
		t.Fatalf("expected an 11 step breach, got %+v", r)
	}
	if s, _ := l.CellState(6, 5); s != core.Open {
		t.Fatalf("breach should open (6,5), got %v", s)
	}
	if n := l.Grid().Count(core.Wall); n != g.H-1 {
		t.Fatalf("breach should open exactly one wall, %d remain", n)
	}
}

func TestRepairReopensRouteWithinLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Maze.Params.ReplenishRate = 0
	l := newLoop(t, cfg)
	g := corridorGrid(t)
	wallColumn(g, 6, core.Wall)
	if err := l.SetGrid(g); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}

	if err := l.OnTick(0); err != nil {
		t.Fatalf("OnTick: %v", err)
	}
	r := l.LastReport()
	if r.RepairSteps != 1 || r.Fallback != FallbackNone {
		t.Fatalf("one generation should reopen a route: %+v", r)
	}
	// The column erodes while its flanks are born from three wall neighbours,
	// leaving gaps at the top and bottom rows.
	if s, _ := l.CellState(6, 5); s != core.Open {
		t.Fatalf("column cell should erode, got %v", s)
	}
	if s, _ := l.CellState(5, 0); s != core.Open {
		t.Fatalf("flank corner has two wall neighbours and stays open, got %v", s)
	}
	if n := l.Grid().Count(core.Wall); n != 16 {
		t.Fatalf("expected two flanking runs of 8 walls, got %d", n)
	}
	if l.Degraded() != 0 {
		t.Fatal("repair within the limit is not degraded")
	}
	path, _ := l.CurrentPath()
	if path.Steps() <= 11 {
		t.Fatalf("route should detour around the flanks, got %d steps", path.Steps())
	}
}

func TestAgentReachesGoal(t *testing.T) {
	l := newLoop(t, DefaultConfig())
	g := corridorGrid(t)
	if err := l.SetGrid(g); err != nil {
		t.Fatalf("SetGrid: %v", err)
	}
	for i := 0; i < 11; i++ {
		if err := l.OnTick(0); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
	if l.AgentPosition() != g.Goal() || !l.LastReport().AtGoal || l.Arrivals() != 1 {
		t.Fatalf("agent at %v after 11 ticks, arrivals %d", l.AgentPosition(), l.Arrivals())
	}
	if err := l.OnTick(0); err != nil {
		t.Fatalf("tick at goal: %v", err)
	}
	if path, _ := l.CurrentPath(); path.Len() != 1 {
		t.Fatalf("on the goal the route is a single waypoint, got %v", path)
	}
}

func TestResetIsReproducible(t *testing.T) {
	l := newLoop(t, DefaultConfig())
	first := l.Grid().Clone()
	for i := 0; i < 20; i++ {
		_ = l.OnTick(time.Second)
	}
	if err := l.Restart(); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if l.Tick() != 0 || l.Generation() != 0 || l.AgentPosition() != l.Landmarks().Start {
		t.Fatalf("restart left tick=%d generation=%d agent=%v", l.Tick(), l.Generation(), l.AgentPosition())
	}
	if !sameCells(first, l.Grid()) {
		t.Fatal("restart with the configured seed should rebuild the same maze")
	}
	if err := l.Reset(99); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if sameCells(first, l.Grid()) {
		t.Fatal("a different seed should produce a different maze")
	}
	if l.Config().Maze.Seed != 99 {
		t.Fatalf("reset should record the seed, got %d", l.Config().Maze.Seed)
	}
}

func TestResetHonoursSeedZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Maze.Seed = 0
	want, err := maze.Generate(cfg.Maze, core.NewRNG(0))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	l := newLoop(t, DefaultConfig())
	configured := l.Grid().Clone()
	if err := l.Reset(0); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if !sameCells(want, l.Grid()) {
		t.Fatal("Reset(0) should build the seed 0 maze")
	}
	if sameCells(configured, l.Grid()) {
		t.Fatal("Reset(0) must not fall back to the configured seed")
	}
	if l.Config().Maze.Seed != 0 {
		t.Fatalf("configured seed should now be 0, got %d", l.Config().Maze.Seed)
	}
}

func sameCells(a, b *core.Grid) bool {
	ac, bc := a.Cells(), b.Cells()
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}

func TestRecorderErrorsAreNotFatal(t *testing.T) {
	rec := &reports{err: errors.New("disk full")}
	l := newLoop(t, DefaultConfig(), WithRecorder(rec))
	if err := l.OnTick(0); err != nil && !errors.Is(err, ErrRepairExhausted) {
		t.Fatalf("OnTick: %v", err)
	}
	if len(rec.got) != 1 || rec.got[0].Tick != 1 {
		t.Fatalf("expected one report for tick 1, got %+v", rec.got)
	}
}

func TestRegisteredLayouts(t *testing.T) {
	rings, ok := core.Sims()["rings"]
	if !ok {
		t.Fatal("rings layout not registered")
	}
	big, ok := core.Sims()["bigring"]
	if !ok {
		t.Fatal("bigring layout not registered")
	}
	small, err := rings(map[string]string{"seed": "7"})
	if err != nil {
		t.Fatalf("rings: %v", err)
	}
	if small.Size() != (core.Size{W: 125, H: 112}) || small.Name() != "rings" {
		t.Fatalf("unexpected rings sim %s %v", small.Name(), small.Size())
	}
	large, err := big(nil)
	if err != nil {
		t.Fatalf("bigring: %v", err)
	}
	if large.Size() != (core.Size{W: 250, H: 225}) {
		t.Fatalf("unexpected bigring size %v", large.Size())
	}
	lm := large.Landmarks()
	// Inside the third ring band, away from its east notch.
	if s, _ := large.CellState(lm.Center.X-92, lm.Center.Y); s != core.StructuralWall {
		t.Fatalf("bigring should have a third ring, got %v", s)
	}
	if _, err := rings(map[string]string{"w": "3", "h": "3"}); err == nil {
		t.Fatal("a 3x3 grid cannot place the goal inset and should fail")
	}
}

func TestParameterControls(t *testing.T) {
	l := newLoop(t, DefaultConfig())
	if !l.SetFloatParameter("replenish_rate", 2) {
		t.Fatal("replenish_rate should be settable")
	}
	if got := l.Config().Maze.Params.ReplenishRate; got != 1 {
		t.Fatalf("replenish_rate should clamp to 1, got %v", got)
	}
	if l.engine.Params().ReplenishRate != 1 {
		t.Fatal("engine did not pick up the new rate")
	}
	if l.SetFloatParameter("replenish_rate", 1) {
		t.Fatal("unchanged value should report false")
	}
	if !l.SetIntParameter("rule_interval_ms", 10) || l.Config().RuleInterval != 50*time.Millisecond {
		t.Fatalf("rule interval should clamp to 50ms, got %v", l.Config().RuleInterval)
	}
	if !l.SetIntParameter("repair_limit", 3) || l.Config().RepairLimit != 3 {
		t.Fatal("repair_limit should be settable")
	}
	if l.SetIntParameter("replenish_rate", 1) || l.SetFloatParameter("nope", 1) {
		t.Fatal("mismatched or unknown keys must be rejected")
	}
	p, ok := l.Parameters().Lookup("repair_limit")
	if !ok || p.Value != "3" {
		t.Fatalf("snapshot should reflect repair_limit=3, got %+v", p)
	}
	if _, ok := l.Parameters().Lookup("replenish_rate"); !ok {
		t.Fatal("snapshot missing replenish_rate")
	}
}

func TestFromMapAndValidate(t *testing.T) {
	c := FromMap(map[string]string{"rule_interval_ms": "250", "repair_limit": "0", "rings": "big"})
	if c.RuleInterval != 250*time.Millisecond || c.RepairLimit != 0 || len(c.Maze.Params.Rings) != 3 {
		t.Fatalf("unexpected config %+v", c)
	}
	bad := DefaultConfig()
	bad.RepairLimit = -1
	if bad.Validate() == nil {
		t.Fatal("negative repair limit should be rejected")
	}
	bad = DefaultConfig()
	bad.Maze.Params.Rings = []maze.Ring{{Inner: 2, Outer: 1, Notch: maze.East}}
	if _, err := New(bad); err == nil {
		t.Fatal("New should reject an invalid ring")
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
