package force

import (
	"context"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultSeed seeds the initial placement when no generator is supplied.
const DefaultSeed = int64(42)

// Step describes the simulation state right after an iteration finished.
// Nodes is the engine's live state; step functions must not modify or
// retain it.
type Step struct {
	Iteration int // 1-based index of the finished iteration
	Total     int
	Constants Constants
	Nodes     []Node
}

// StepFunc observes the simulation between iterations.
type StepFunc func(Step)

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the generator used for random initial placement.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// WithSeed seeds a private generator for random initial placement.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.rng = rand.New(rand.NewSource(seed)) }
}

// WithWorkers splits the repulsion phase across w goroutines.
// Values below 2 keep the engine single-threaded.
func WithWorkers(w int) Option {
	return func(e *Engine) { e.workers = w }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithStep registers a function called after every iteration.
func WithStep(fn StepFunc) Option {
	return func(e *Engine) { e.onStep = fn }
}

// Engine runs force-directed layouts with a fixed configuration.
// An Engine is not safe for concurrent use because it owns its random
// generator.
type Engine struct {
	cfg     Config
	rng     *rand.Rand
	workers int
	logger  *log.Logger
	onStep  StepFunc
}

// New creates an engine. It returns an errors.ErrCodeConfiguration error if
// cfg is out of range.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		cfg:    cfg,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(DefaultSeed))
	}
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Initialize validates the input and builds the node and edge sets without
// running any iteration. Node i is placed at pos[i], or at an independent
// uniform draw in [0,1)² when pos is nil.
//
// Invalid input fails with errors.ErrCodeInvalidInput before any random
// number is drawn.
func (e *Engine) Initialize(adj [][]float64, pos []Point) ([]Node, []Edge, error) {
	if err := ValidateAdjacency(adj); err != nil {
		return nil, nil, err
	}
	n := len(adj)
	if err := validatePositions(pos, n); err != nil {
		return nil, nil, err
	}

	nodes := make([]Node, n)
	for i := range nodes {
		nodes[i].ID = i
		if pos != nil {
			nodes[i].Pos = pos[i].Vec()
		} else {
			nodes[i].Pos = r2.Vec{X: e.rng.Float64(), Y: e.rng.Float64()}
		}
	}
	return nodes, Edges(adj), nil
}

// Layout computes node positions for the graph described by adj.
// The result is indexed by node ID.
//
// The context is checked between iterations; cancellation returns ctx.Err()
// and no partial result.
func (e *Engine) Layout(ctx context.Context, adj [][]float64, pos []Point) ([]Point, error) {
	nodes, edges, err := e.Initialize(adj, pos)
	if err != nil {
		return nil, err
	}
	if err := e.Run(ctx, nodes, edges); err != nil {
		return nil, err
	}
	return Positions(nodes), nil
}

// Run iterates the simulation over nodes in place, exactly
// Config().Iterations times.
func (e *Engine) Run(ctx context.Context, nodes []Node, edges []Edge) error {
	if len(nodes) == 0 {
		return nil
	}
	c := Derive(e.cfg, len(nodes))
	model := Model{K: c.K}
	limit := c.MaxDisplacement * e.cfg.Speed
	gravity := 0.01 * c.K * e.cfg.Gravity

	e.logger.Debug("starting layout",
		"nodes", len(nodes),
		"edges", len(edges),
		"k", c.K,
		"max_displacement", c.MaxDisplacement,
		"iterations", e.cfg.Iterations,
		"workers", max(e.workers, 1))

	for it := 0; it < e.cfg.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for i := range nodes {
			nodes[i].Disp = r2.Vec{}
		}
		if err := e.repulse(ctx, nodes, model); err != nil {
			return err
		}
		attract(nodes, edges, model)
		gravitate(nodes, gravity)
		integrate(nodes, e.cfg.Speed, limit)

		if e.onStep != nil {
			e.onStep(Step{Iteration: it + 1, Total: e.cfg.Iterations, Constants: c, Nodes: nodes})
		}
	}
	return nil
}

// repulseRow accumulates the repulsion acting on node i from every other
// node. Coincident pairs have no direction and contribute nothing.
func repulseRow(nodes []Node, i int, m Model) {
	var disp r2.Vec
	p := nodes[i].Pos
	for j := range nodes {
		if j == i {
			continue
		}
		delta := r2.Sub(p, nodes[j].Pos)
		dist := r2.Norm(delta)
		if dist == 0 {
			continue
		}
		disp = r2.Add(disp, r2.Scale(m.Repulsion(dist)/dist, delta))
	}
	nodes[i].Disp = r2.Add(nodes[i].Disp, disp)
}

// attract pulls the endpoints of every edge toward each other.
func attract(nodes []Node, edges []Edge, m Model) {
	for _, e := range edges {
		u, v := &nodes[e.U], &nodes[e.V]
		delta := r2.Sub(u.Pos, v.Pos)
		dist := r2.Norm(delta)
		if dist == 0 {
			continue
		}
		f := r2.Scale(m.Attraction(dist)/dist, delta)
		u.Disp = r2.Sub(u.Disp, f)
		v.Disp = r2.Add(v.Disp, f)
	}
}

// gravitate pulls every node toward the origin. strength is 0.01·K·gravity.
func gravitate(nodes []Node, strength float64) {
	for i := range nodes {
		n := &nodes[i]
		dist := r2.Norm(n.Pos)
		if dist == 0 {
			continue
		}
		gf := strength * dist
		n.Disp = r2.Sub(n.Disp, r2.Scale(gf/dist, n.Pos))
	}
}

// integrate applies the scaled displacement to every node, capping the move
// at limit.
func integrate(nodes []Node, speed, limit float64) {
	for i := range nodes {
		n := &nodes[i]
		n.Disp = r2.Scale(speed, n.Disp)
		mag := r2.Norm(n.Disp)
		if mag == 0 {
			continue
		}
		step := math.Min(limit, mag)
		n.Pos = r2.Add(n.Pos, r2.Scale(step/mag, n.Disp))
	}
}

// Layout is a convenience wrapper that builds an Engine and runs it once.
func Layout(ctx context.Context, adj [][]float64, pos []Point, cfg Config, opts ...Option) ([]Point, error) {
	e, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return e.Layout(ctx, adj, pos)
}
