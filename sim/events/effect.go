package events

import (
	"fmt"

	"github.com/babylon-sim/babylon/sim/script"
	"github.com/babylon-sim/babylon/sim/world"
)

// ModOp is how an effect modifies its target value.
type ModOp string

const (
	ModIncrease ModOp = "increase"
	ModDecrease ModOp = "decrease"
	ModSet      ModOp = "set"
)

// Effect mutates world state when its event fires. It targets either an
// entity attribute (Target + Attribute) or a societal indicator (Indicator).
// When Script is set it replaces the declarative fields entirely and runs as
// a Lua hook against the world.
type Effect struct {
	Target      string  `yaml:"target,omitempty"`
	Attribute   string  `yaml:"attribute,omitempty"`
	Indicator   string  `yaml:"indicator,omitempty"`
	Op          ModOp   `yaml:"op,omitempty"`
	Value       float64 `yaml:"value,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Script      string  `yaml:"script,omitempty"`
}

// Apply performs the mutation. Unknown targets are an error; the caller
// decides whether to abort or log and continue.
func (ef Effect) Apply(w *world.World) error {
	if ef.Script != "" {
		return script.Run(ef.Script, w)
	}

	delta := ef.Value
	if ef.Op == ModDecrease {
		delta = -ef.Value
	}

	if ef.Indicator != "" {
		if ef.Op == ModSet {
			if !w.SetIndicator(ef.Indicator, ef.Value) {
				return fmt.Errorf("effect targets unknown indicator %q", ef.Indicator)
			}
			return nil
		}
		if !w.AdjustIndicator(ef.Indicator, delta) {
			return fmt.Errorf("effect targets unknown indicator %q", ef.Indicator)
		}
		return nil
	}

	cur, ok := w.Attribute(ef.Target, ef.Attribute)
	if !ok {
		if _, exists := w.Entity(ef.Target); !exists {
			return fmt.Errorf("effect targets unknown entity %q", ef.Target)
		}
		cur = 0 // entity exists; attribute starts at zero
	}
	if ef.Op == ModSet {
		w.SetAttribute(ef.Target, ef.Attribute, ef.Value)
		return nil
	}
	w.SetAttribute(ef.Target, ef.Attribute, cur+delta)
	return nil
}

// Validate rejects effects that name no target or use an unknown op.
func (ef Effect) Validate() error {
	if ef.Script != "" {
		return nil
	}
	if ef.Indicator == "" && (ef.Target == "" || ef.Attribute == "") {
		return fmt.Errorf("effect must name an indicator, an entity attribute, or a script")
	}
	switch ef.Op {
	case ModIncrease, ModDecrease, ModSet:
		return nil
	}
	return fmt.Errorf("unknown effect op %q", ef.Op)
}
