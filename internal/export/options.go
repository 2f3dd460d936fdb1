package export

import (
	"time"

	"github.com/agrofair/portal/pkg/logger"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithStepTimeout bounds each external call of a cycle (narrative
// generation, rasterization). Zero or negative keeps them unbounded,
// which matches the original export behavior.
func WithStepTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.stepTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the orchestrator.
func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithClock overrides the time source, used by tests to pin the
// date-stamped artifact filename.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}
