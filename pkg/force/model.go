package force

import "math"

// AreaMultiplier scales the configured area into layout units.
const AreaMultiplier = 1_000_000

// Model maps the distance between two nodes to a force magnitude.
// K is the ideal edge length, where attraction and repulsion balance.
//
// Neither force is defined at distance zero; callers skip coincident pairs.
type Model struct {
	K float64
}

// Attraction returns the spring force along an edge of length x.
func (m Model) Attraction(x float64) float64 {
	return x * x / m.K
}

// Repulsion returns the force pushing apart two nodes at distance x.
func (m Model) Repulsion(x float64) float64 {
	return m.K * m.K / x
}

// Constants are the per-run values derived from the configuration and the
// node count.
type Constants struct {
	K               float64
	MaxDisplacement float64
}

// Derive computes the run constants for n nodes. n must be positive and cfg
// valid; Engine.Layout checks both before calling it.
func Derive(cfg Config, n int) Constants {
	scaled := AreaMultiplier * cfg.Area
	return Constants{
		K:               math.Sqrt(scaled / float64(n)),
		MaxDisplacement: math.Sqrt(scaled) / 10,
	}
}
