// Package world holds the mutable simulation state shared by the engine,
// the dialectics system, and game event effects. It owns no behavior of its
// own beyond indicator access; the submodels under sim/society and the
// registry under sim/entity do the actual work.
package world

import (
	"github.com/babylon-sim/babylon/sim/entity"
	"github.com/babylon-sim/babylon/sim/society"
)

// Indicator names understood by triggers, effects, and detection rules.
const (
	IndicatorGini         = "gini_coefficient"
	IndicatorUnemployment = "unemployment_rate"
	IndicatorGrowth       = "growth_rate"
	IndicatorStability    = "stability_index"
	IndicatorRepression   = "repression_level"
)

// World is the complete simulation state at a point in simulated time.
type World struct {
	Registry *entity.Registry
	Economy  *society.Economy
	Politics *society.Politics

	// PlayerResponsible marks whether a player (rather than the automatic
	// systems) answers for the next decision point.
	PlayerResponsible bool
}

// New creates a World with a fresh registry and the given submodels.
func New(econ *society.Economy, pol *society.Politics) *World {
	return &World{
		Registry: entity.NewRegistry(),
		Economy:  econ,
		Politics: pol,
	}
}

// Indicator returns the named societal indicator, if it exists.
func (w *World) Indicator(name string) (float64, bool) {
	switch name {
	case IndicatorGini:
		return w.Economy.Gini, true
	case IndicatorUnemployment:
		return w.Economy.Unemployment, true
	case IndicatorGrowth:
		return w.Economy.Growth, true
	case IndicatorStability:
		return w.Politics.Stability, true
	case IndicatorRepression:
		return w.Politics.Repression, true
	}
	return 0, false
}

// SetIndicator overwrites the named indicator. The value is clamped to the
// submodel's valid range. Returns false for unknown names.
func (w *World) SetIndicator(name string, v float64) bool {
	switch name {
	case IndicatorGini:
		w.Economy.Gini = society.ClampGini(v)
	case IndicatorUnemployment:
		w.Economy.Unemployment = society.ClampRate(v)
	case IndicatorGrowth:
		w.Economy.Growth = society.ClampGrowth(v)
	case IndicatorStability:
		w.Politics.Stability = society.ClampUnit(v)
	case IndicatorRepression:
		w.Politics.Repression = society.ClampUnit(v)
	default:
		return false
	}
	return true
}

// AdjustIndicator adds delta to the named indicator, clamping to the valid
// range. Returns false for unknown names.
func (w *World) AdjustIndicator(name string, delta float64) bool {
	cur, ok := w.Indicator(name)
	if !ok {
		return false
	}
	return w.SetIndicator(name, cur+delta)
}

// Entity looks up an entity by ID in the registry.
func (w *World) Entity(id string) (*entity.Entity, bool) {
	e := w.Registry.Get(id)
	if e == nil {
		return nil, false
	}
	return e, true
}

// Attribute reads an entity attribute, e.g. ("working_class", "wealth").
func (w *World) Attribute(entityID, attr string) (float64, bool) {
	e, ok := w.Entity(entityID)
	if !ok {
		return 0, false
	}
	v, ok := e.Attributes[attr]
	return v, ok
}

// SetAttribute writes an entity attribute. Returns false when the entity is
// unknown; unknown attribute names are created.
func (w *World) SetAttribute(entityID, attr string, v float64) bool {
	e, ok := w.Entity(entityID)
	if !ok {
		return false
	}
	e.Attributes[attr] = v
	return true
}
