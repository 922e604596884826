// Package sim drives the labyrinth: it evolves the maze on a synthetic clock,
// keeps a route to the goal open and walks the agent one cell per tick.
package sim

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"minotaur/internal/agent"
	"minotaur/internal/core"
	"minotaur/internal/maze"
	"minotaur/internal/planner"
)

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for repair and fallback events.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.log = logger
		}
	}
}

// WithPublisher registers the presentation sink.
func WithPublisher(p Publisher) Option {
	return func(l *Loop) { l.pub = p }
}

// WithRecorder registers a telemetry sink.
func WithRecorder(r Recorder) Option {
	return func(l *Loop) { l.rec = r }
}

// WithName overrides the name reported by Name.
func WithName(name string) Option {
	return func(l *Loop) {
		if name != "" {
			l.name = name
		}
	}
}

// Loop owns the grid and runs the tick pipeline. It is not safe for
// concurrent use; run independent loops for parallel work.
type Loop struct {
	cfg  Config
	name string

	log *log.Logger
	pub Publisher
	rec Recorder

	rng     *core.RNG
	grid    *core.Grid
	engine  *maze.Engine
	planner *planner.Planner
	breach  *planner.Planner
	agent   *agent.Controller
	clock   *core.Interval

	state   State
	pos     core.Coord
	path    core.Path
	hasPath bool
	tick    uint64

	degraded int
	arrivals int
	last     TickReport
}

// New builds a Loop and generates its first maze from cfg.Maze.Seed.
func New(cfg Config, opts ...Option) (*Loop, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim config: %w", err)
	}
	l := &Loop{
		cfg:     cfg,
		name:    "rings",
		log:     log.New(io.Discard),
		rng:     core.NewRNG(cfg.Maze.Seed),
		planner: planner.New(),
		breach: planner.New(planner.WithPassable(func(s core.CellState) bool {
			return s != core.StructuralWall
		})),
		clock: core.NewInterval(cfg.RuleInterval),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.agent = agent.NewController(l.rng)
	if err := l.Reset(cfg.Maze.Seed); err != nil {
		return nil, err
	}
	return l, nil
}

// SetLogger replaces the logger after construction, for loops built through
// the factory registry.
func (l *Loop) SetLogger(logger *log.Logger) {
	if logger != nil {
		l.log = logger
	}
}

// Name returns the layout identifier.
func (l *Loop) Name() string { return l.name }

// Size reports the grid dimensions.
func (l *Loop) Size() core.Size { return l.grid.Size() }

// Landmarks returns start, goal and center.
func (l *Loop) Landmarks() core.Landmarks { return l.grid.Landmarks() }

// Grid exposes the live grid. Callers must not mutate it.
func (l *Loop) Grid() *core.Grid { return l.grid }

// Config returns the active configuration, including HUD adjustments.
func (l *Loop) Config() Config { return l.cfg }

// State reports the pipeline phase. Between ticks it is Idle or Running.
func (l *Loop) State() State { return l.state }

// Tick returns the number of completed ticks.
func (l *Loop) Tick() uint64 { return l.tick }

// Generation returns the automaton generation count.
func (l *Loop) Generation() int { return l.engine.Generation() }

// Degraded counts ticks that needed the fallback.
func (l *Loop) Degraded() int { return l.degraded }

// Arrivals counts ticks that ended with the agent on the goal.
func (l *Loop) Arrivals() int { return l.arrivals }

// LastReport returns the report of the most recent tick.
func (l *Loop) LastReport() TickReport { return l.last }

// CellState returns the state at (x, y).
func (l *Loop) CellState(x, y int) (core.CellState, error) { return l.grid.Get(x, y) }

// AgentPosition returns the agent's cell.
func (l *Loop) AgentPosition() core.Coord { return l.pos }

// CurrentPath returns the route computed on the latest tick.
func (l *Loop) CurrentPath() (core.Path, bool) { return l.path, l.hasPath }

// Reset regenerates the maze from seed and puts the agent back on the start.
// Every seed, zero included, is used as given and becomes the configured seed.
func (l *Loop) Reset(seed int64) error {
	l.rng.Reseed(seed)
	mc := l.cfg.Maze
	mc.Seed = seed
	g, err := maze.Generate(mc, l.rng)
	if err != nil {
		return fmt.Errorf("generate maze: %w", err)
	}
	l.cfg.Maze.Seed = seed
	l.install(g)
	return nil
}

// Restart replays the configured seed.
func (l *Loop) Restart() error { return l.Reset(l.cfg.Maze.Seed) }

// SetGrid replaces the maze with g, keeping g's landmarks, and restarts the
// run from its start cell.
func (l *Loop) SetGrid(g *core.Grid) error {
	if g == nil {
		return errors.New("nil grid")
	}
	l.install(g)
	return nil
}

func (l *Loop) install(g *core.Grid) {
	l.grid = g
	l.engine = maze.NewEngine(l.cfg.Maze.Params, l.rng)
	l.clock.SetPeriod(l.cfg.RuleInterval)
	l.clock.Reset()
	l.pos = g.Start()
	l.tick = 0
	l.degraded = 0
	l.arrivals = 0
	l.state = Idle
	l.last = TickReport{}
	l.path, l.hasPath = nil, false
	if path, err := l.plan(); err == nil {
		l.path, l.hasPath = path, true
	}
}

// OnTick advances the loop by elapsed synthetic time. It runs a generation
// when the rule interval has expired, finds a route, repairs the maze while
// there is none, moves the agent and publishes a frame.
//
// When the repair limit runs out the fallback cuts a route, the tick still
// completes and the returned error wraps ErrRepairExhausted.
func (l *Loop) OnTick(elapsed time.Duration) error {
	if l.state == Idle {
		l.state = Running
	}
	l.tick++
	report := TickReport{Tick: l.tick, Elapsed: elapsed}

	l.state = RuleUpdate
	if l.clock.Advance(elapsed) {
		l.engine.Step(l.grid, l.pos)
		report.RuleUpdated = true
	}
	report.Clock = l.clock.Now()

	l.state = PathCheck
	path, err := l.plan()
	var degraded error
	if errors.Is(err, planner.ErrNoPath) {
		l.state = RepairLoop
		path, degraded = l.repair(&report)
		if degraded != nil && !errors.Is(degraded, ErrRepairExhausted) {
			l.state = Running
			return degraded
		}
	} else if err != nil {
		l.state = Running
		return err
	}
	l.path, l.hasPath = path, true

	l.state = AgentStep
	l.pos = l.agent.Step(l.pos, path, l.grid)

	l.state = Render
	if l.pub != nil {
		l.pub.Publish(Frame{
			Tick:      l.tick,
			Grid:      l.grid,
			Path:      l.path,
			HasPath:   l.hasPath,
			Agent:     l.pos,
			Landmarks: l.grid.Landmarks(),
		})
	}

	report.Generation = l.engine.Generation()
	report.PathSteps = path.Steps()
	report.Agent = l.pos
	report.AtGoal = l.pos == l.grid.Goal()
	report.WallDensity = l.grid.WallDensity()
	if report.AtGoal {
		l.arrivals++
	}
	l.last = report
	if l.rec != nil {
		if err := l.rec.Record(report); err != nil {
			l.log.Warn("record tick", "tick", l.tick, "err", err)
		}
	}
	l.state = Running
	return degraded
}

func (l *Loop) plan() (core.Path, error) {
	return l.planner.FindPath(l.grid, l.pos, l.grid.Goal())
}

// repair steps the automaton until a route appears or the limit is reached,
// then falls back to cutting one.
func (l *Loop) repair(report *TickReport) (core.Path, error) {
	for attempt := 1; attempt <= l.cfg.RepairLimit; attempt++ {
		l.engine.Step(l.grid, l.pos)
		report.RepairSteps = attempt
		path, err := l.plan()
		if err == nil {
			if attempt > 1 {
				l.log.Debug("route reopened", "tick", l.tick, "steps", attempt)
			}
			return path, nil
		}
		if !errors.Is(err, planner.ErrNoPath) {
			return nil, err
		}
	}

	mode, opened := l.fallback()
	report.Fallback = mode
	l.degraded++
	l.log.Warn("repair limit reached",
		"tick", l.tick,
		"limit", l.cfg.RepairLimit,
		"fallback", string(mode),
		"opened", opened,
	)
	path, err := l.plan()
	if err != nil {
		return nil, fmt.Errorf("tick %d: %s fallback left the goal unreachable: %w", l.tick, mode, err)
	}
	return path, fmt.Errorf("tick %d after %d repair steps, used %s fallback: %w",
		l.tick, l.cfg.RepairLimit, mode, ErrRepairExhausted)
}

// fallback opens a route from the agent to the goal. It first looks for a
// route through plain walls and clears them; when structural walls seal the
// goal it carves an L-shaped corridor, along the agent's row and then the
// goal's column.
func (l *Loop) fallback() (Fallback, int) {
	goal := l.grid.Goal()
	if route, err := l.breach.FindPath(l.grid, l.pos, goal); err == nil {
		opened := 0
		for _, c := range route[1:] {
			if s, _ := l.grid.At(c); s == core.Wall {
				_ = l.grid.Set(c.X, c.Y, core.Open)
				opened++
			}
		}
		return FallbackBreach, opened
	}
	return FallbackCorridor, l.carve(l.pos, goal)
}

func (l *Loop) carve(from, to core.Coord) int {
	opened := 0
	open := func(x, y int) {
		if s, err := l.grid.Get(x, y); err == nil && !s.Traversable() {
			_ = l.grid.Set(x, y, core.Open)
			opened++
		}
	}
	x, y := from.X, from.Y
	for x != to.X {
		x += sign(to.X - x)
		open(x, y)
	}
	for y != to.Y {
		y += sign(to.Y - y)
		open(x, y)
	}
	return opened
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func init() {
	core.Register("rings", func(cfg map[string]string) (core.Sim, error) {
		return New(FromMap(cfg), WithName("rings"))
	})
	core.Register("bigring", func(cfg map[string]string) (core.Sim, error) {
		c := FromMap(cfg)
		if _, ok := cfg["rings"]; !ok {
			c.Maze.Params.Rings = maze.BigRings()
		}
		if _, ok := cfg["w"]; !ok {
			c.Maze.Width = maze.BigWidth
		}
		if _, ok := cfg["h"]; !ok {
			c.Maze.Height = maze.BigHeight
		}
		return New(c, WithName("bigring"))
	})
}
