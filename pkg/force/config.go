package force

import (
	"math"

	"github.com/matzehuels/forcelayout/pkg/errors"
)

// Default layout parameters. They match the settings used for the
// co-authorship network the engine was first tuned on.
const (
	DefaultArea       = 22.0
	DefaultGravity    = 0.8
	DefaultSpeed      = 0.01
	DefaultIterations = 2000
)

// Config holds the physical parameters of a layout run.
type Config struct {
	// Area scales the overall extent of the layout. Must be positive.
	Area float64 `json:"area" toml:"area" yaml:"area"`

	// Gravity is the strength of the pull toward the origin. Zero disables it.
	Gravity float64 `json:"gravity" toml:"gravity" yaml:"gravity"`

	// Speed multiplies each node's displacement before capping. Must be positive.
	Speed float64 `json:"speed" toml:"speed" yaml:"speed"`

	// Iterations is the exact number of simulation steps.
	Iterations int `json:"iterations" toml:"iterations" yaml:"iterations"`
}

// DefaultConfig returns the default layout parameters.
func DefaultConfig() Config {
	return Config{
		Area:       DefaultArea,
		Gravity:    DefaultGravity,
		Speed:      DefaultSpeed,
		Iterations: DefaultIterations,
	}
}

// Validate reports parameters outside their valid range as
// errors.ErrCodeConfiguration.
func (c Config) Validate() error {
	if !(c.Area > 0) || math.IsInf(c.Area, 0) {
		return errors.New(errors.ErrCodeConfiguration, "area must be a positive finite number, got %v", c.Area)
	}
	if !(c.Speed > 0) || math.IsInf(c.Speed, 0) {
		return errors.New(errors.ErrCodeConfiguration, "speed must be a positive finite number, got %v", c.Speed)
	}
	if !(c.Gravity >= 0) || math.IsInf(c.Gravity, 0) {
		return errors.New(errors.ErrCodeConfiguration, "gravity must be a non-negative finite number, got %v", c.Gravity)
	}
	if c.Iterations <= 0 {
		return errors.New(errors.ErrCodeConfiguration, "iterations must be positive, got %d", c.Iterations)
	}
	return nil
}
