package cli

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/forcelayout/pkg/observability"
)

// withMetrics runs fn with Prometheus hooks installed and writes the
// collected metrics to path afterwards, also when fn fails. An empty path
// runs fn without instrumentation.
func (c *CLI) withMetrics(path string, fn func() error) error {
	if path == "" {
		return fn()
	}

	reg := prometheus.NewRegistry()
	hooks := observability.NewPrometheusHooks(reg)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	runErr := fn()
	if err := observability.WriteTextfile(path, reg); err != nil {
		return errors.Join(runErr, fmt.Errorf("write metrics %s: %w", path, err))
	}
	c.Logger.Debug("wrote metrics", "path", path)
	return runErr
}
