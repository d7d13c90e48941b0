// Package dialectics models societal contradictions and analyzes their
// development: detection from societal indicators, intensity tracking,
// transformation, resolution, and the unrest events they generate.
package dialectics

import (
	"github.com/babylon-sim/babylon/sim/events"
)

// Aspect is one side of a contradiction: an entity in a role.
type Aspect struct {
	EntityID string `yaml:"entity"`
	Role     string `yaml:"role"`
}

// Antagonism classifies whether a contradiction can be reconciled within the
// existing order.
type Antagonism string

const (
	Antagonistic    Antagonism = "antagonistic"
	NonAntagonistic Antagonism = "non-antagonistic"
)

// State is a contradiction's lifecycle state.
type State string

const (
	StateActive   State = "active"
	StateDormant  State = "dormant"
	StateResolved State = "resolved"
)

// Band buckets a continuous intensity for reporting and event generation.
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// Band thresholds over the [0,1] intensity scale.
const (
	mediumThreshold = 1.0 / 3.0
	highThreshold   = 2.0 / 3.0
)

// Contradiction is a structured opposition between societal aspects. The
// principal aspect dominates the relationship; intensity develops over time
// from societal indicators.
type Contradiction struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Entities []Aspect `yaml:"entities"`

	Universality  string `yaml:"universality"`
	Particularity string `yaml:"particularity"`

	// PrincipalContradictionID links a secondary contradiction to the
	// principal one it derives from (empty for principal contradictions).
	PrincipalContradictionID string `yaml:"principal_contradiction,omitempty"`

	PrincipalAspect Aspect `yaml:"principal_aspect"`
	SecondaryAspect Aspect `yaml:"secondary_aspect"`

	Antagonism Antagonism `yaml:"antagonism"`
	State      State      `yaml:"state"`

	Intensity        float64   `yaml:"intensity"`
	IntensityHistory []float64 `yaml:"-"`

	TransformationPotential  string   `yaml:"potential_for_transformation,omitempty"`
	TransformationConditions []string `yaml:"conditions_for_transformation,omitempty"`

	ResolutionMethods []string `yaml:"resolution_methods,omitempty"`
	// ResolutionTriggers resolve the contradiction when all of them hold.
	ResolutionTriggers []events.Trigger `yaml:"resolution_triggers,omitempty"`
}

// Band returns the intensity band the contradiction currently sits in.
func (c *Contradiction) Band() Band {
	switch {
	case c.Intensity >= highThreshold:
		return BandHigh
	case c.Intensity >= mediumThreshold:
		return BandMedium
	}
	return BandLow
}

// RecordIntensity sets the current intensity and appends it to the history.
func (c *Contradiction) RecordIntensity(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.Intensity = v
	c.IntensityHistory = append(c.IntensityHistory, v)
}
