// Package events defines game events and the trigger/effect machinery that
// fires them: a trigger compares world state against a threshold, an effect
// mutates world state, and an event bundles triggers, effects, escalation
// paths, and follow-up consequences.
package events

import (
	"fmt"

	"github.com/babylon-sim/babylon/sim/world"
)

// CompareOp is a trigger comparison operator.
type CompareOp string

const (
	OpGreater      CompareOp = "gt"
	OpGreaterEqual CompareOp = "gte"
	OpLess         CompareOp = "lt"
	OpLessEqual    CompareOp = "lte"
	OpEqual        CompareOp = "eq"
)

// Trigger is a single world-state condition. Either Indicator or the
// EntityID/Attribute pair names the observed value.
type Trigger struct {
	Indicator string    `yaml:"indicator,omitempty"`
	EntityID  string    `yaml:"entity,omitempty"`
	Attribute string    `yaml:"attribute,omitempty"`
	Op        CompareOp `yaml:"op"`
	Value     float64   `yaml:"value"`
}

// Evaluate reports whether the condition currently holds. A trigger over an
// unknown indicator or entity is false.
func (t Trigger) Evaluate(w *world.World) bool {
	var observed float64
	var ok bool
	if t.Indicator != "" {
		observed, ok = w.Indicator(t.Indicator)
	} else {
		observed, ok = w.Attribute(t.EntityID, t.Attribute)
	}
	if !ok {
		return false
	}

	switch t.Op {
	case OpGreater:
		return observed > t.Value
	case OpGreaterEqual:
		return observed >= t.Value
	case OpLess:
		return observed < t.Value
	case OpLessEqual:
		return observed <= t.Value
	case OpEqual:
		return observed == t.Value
	}
	return false
}

// Validate rejects triggers that name no observable or use an unknown op.
func (t Trigger) Validate() error {
	if t.Indicator == "" && (t.EntityID == "" || t.Attribute == "") {
		return fmt.Errorf("trigger must name an indicator or an entity attribute")
	}
	if t.Indicator != "" && t.EntityID != "" {
		return fmt.Errorf("trigger must not name both an indicator and an entity")
	}
	switch t.Op {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpEqual:
		return nil
	}
	return fmt.Errorf("unknown trigger op %q", t.Op)
}

// All reports whether every trigger holds. An empty list holds vacuously;
// events guarded only by history fire on the first opportunity.
func All(w *world.World, ts []Trigger) bool {
	for _, t := range ts {
		if !t.Evaluate(w) {
			return false
		}
	}
	return true
}

// Any reports whether at least one trigger holds. An empty list never
// holds, so an escalation without triggers never fires.
func Any(w *world.World, ts []Trigger) bool {
	for _, t := range ts {
		if t.Evaluate(w) {
			return true
		}
	}
	return false
}
