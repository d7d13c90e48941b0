package sim

import (
	"fmt"

	"github.com/babylon-sim/babylon/sim/trace"
)

// EngineConfig groups the run parameters of the event loop.
type EngineConfig struct {
	Seed         int64 // master seed for all subsystem RNGs
	Horizon      int64 // last tick the simulation may reach (must be > 0)
	TickInterval int64 // spacing between ticks (default 1)
}

// Validate checks the engine parameters.
func (c *EngineConfig) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon must be positive, got %d", c.Horizon)
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick interval must be non-negative, got %d", c.TickInterval)
	}
	return nil
}

// ObservabilityConfig groups tracing and performance collection switches.
type ObservabilityConfig struct {
	TraceLevel string // "none" (default) or "decisions"
	Perf       bool   // attach a perf collector to registry, store, analysis
}

// Validate checks the observability parameters.
func (c *ObservabilityConfig) Validate() error {
	if !trace.IsValidLevel(c.TraceLevel) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}
