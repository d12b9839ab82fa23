package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/forcelayout/pkg/cache"
	"github.com/matzehuels/forcelayout/pkg/config"
	"github.com/matzehuels/forcelayout/pkg/force"
	"github.com/matzehuels/forcelayout/pkg/pipeline"
)

// layoutFlags holds the simulation flags shared by layout and render.
// Values only override the config file when the flag is set explicitly.
type layoutFlags struct {
	area       float64
	gravity    float64
	speed      float64
	iterations int
	seed       int64
	workers    int
	init       string
	noCache    bool
	refresh    bool
	quiet      bool

	flags *pflag.FlagSet
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	d := force.DefaultConfig()
	fs := cmd.Flags()
	fs.Float64Var(&f.area, "area", d.Area, "layout area scaling factor")
	fs.Float64Var(&f.gravity, "gravity", d.Gravity, "pull toward the origin (0 disables)")
	fs.Float64Var(&f.speed, "speed", d.Speed, "step scale per iteration")
	fs.IntVarP(&f.iterations, "iterations", "n", d.Iterations, "number of iterations")
	fs.Int64Var(&f.seed, "seed", force.DefaultSeed, "random seed for initial placement")
	fs.IntVarP(&f.workers, "workers", "w", 0, fmt.Sprintf("repulsion goroutines (0 = single-threaded, this machine has %d CPUs)", runtime.NumCPU()))
	fs.StringVar(&f.init, "init", "", "initial positions file (JSON array of [x, y] or layout JSON)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "recompute even when a cached layout exists")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "hide the progress bar")
	f.flags = fs
}

// options merges the config file with explicitly set flags.
func (f *layoutFlags) options(cfg config.Config) (pipeline.Options, error) {
	opts := pipeline.FromConfig(cfg)
	if f.changed("area") {
		opts.Area = f.area
	}
	if f.changed("gravity") {
		opts.Gravity = f.gravity
	}
	if f.changed("speed") {
		opts.Speed = f.speed
	}
	if f.changed("iterations") {
		opts.Iterations = f.iterations
	}
	if f.changed("seed") {
		opts.Seed = f.seed
	}
	if f.changed("workers") {
		opts.Workers = f.workers
	}
	opts.Refresh = f.refresh

	if f.init != "" {
		pos, err := cache.ReadPositions(f.init)
		if err != nil {
			return pipeline.Options{}, fmt.Errorf("read initial positions: %w", err)
		}
		opts.InitPositions = pos
	}

	if err := opts.ValidateForLayout(); err != nil {
		return pipeline.Options{}, err
	}
	return opts, nil
}

func (f *layoutFlags) changed(name string) bool {
	return f.flags != nil && f.flags.Changed(name)
}
