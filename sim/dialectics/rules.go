// rules.go hosts the detection-rule registry and the built-in rules.
// External packages extend detection by calling RegisterRule from an init()
// and selecting the rule by name, the same way engine policies are wired.
package dialectics

import (
	"fmt"
	"sort"

	"github.com/babylon-sim/babylon/sim/events"
	"github.com/babylon-sim/babylon/sim/world"
)

// DetectionRule surfaces new contradictions from world state. Detect must
// not register anything itself; it returns candidates and the analysis
// filters out IDs that already exist (exists reports those).
type DetectionRule interface {
	Name() string
	Detect(w *world.World, exists func(id string) bool) []*Contradiction
}

var ruleFactories = map[string]func() DetectionRule{}

// RegisterRule adds a detection rule factory under a unique name.
// Registering a duplicate name panics: rule wiring is a programming error,
// not a runtime condition.
func RegisterRule(name string, factory func() DetectionRule) {
	if _, ok := ruleFactories[name]; ok {
		panic(fmt.Sprintf("detection rule %q registered twice", name))
	}
	ruleFactories[name] = factory
}

// NewRule instantiates a registered rule by name.
func NewRule(name string) (DetectionRule, error) {
	factory, ok := ruleFactories[name]
	if !ok {
		return nil, fmt.Errorf("unknown detection rule %q", name)
	}
	return factory(), nil
}

// RuleNames returns the registered rule names, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(ruleFactories))
	for name := range ruleFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRules instantiates every registered rule, in name order, so
// detection runs deterministically.
func DefaultRules() []DetectionRule {
	var rules []DetectionRule
	for _, name := range RuleNames() {
		rules = append(rules, ruleFactories[name]())
	}
	return rules
}

func init() {
	RegisterRule("economic-inequality", func() DetectionRule {
		return &economicInequalityRule{giniThreshold: 0.5}
	})
}

// economicInequalityRule detects the class contradiction: when the Gini
// coefficient crosses its threshold, an antagonistic contradiction forms
// between the oppressor and oppressed classes.
type economicInequalityRule struct {
	giniThreshold float64
}

func (r *economicInequalityRule) Name() string { return "economic-inequality" }

func (r *economicInequalityRule) Detect(w *world.World, exists func(id string) bool) []*Contradiction {
	const id = "economic_inequality"
	if exists(id) {
		return nil
	}
	gini, ok := w.Indicator(world.IndicatorGini)
	if !ok || gini <= r.giniThreshold {
		return nil
	}

	oppressors := w.Registry.ByRole("Oppressor")
	oppressed := w.Registry.ByRole("Oppressed")
	if len(oppressors) == 0 || len(oppressed) == 0 {
		return nil // no class actors to hang the contradiction on
	}
	principal := Aspect{EntityID: oppressors[0].ID, Role: "Oppressor"}
	secondary := Aspect{EntityID: oppressed[0].ID, Role: "Oppressed"}

	return []*Contradiction{{
		ID:              id,
		Name:            "Economic Inequality",
		Description:     "Wealth concentration sets the owning class against the working class.",
		Entities:        []Aspect{principal, secondary},
		Universality:    "Universal",
		Particularity:   "Economic",
		PrincipalAspect: principal,
		SecondaryAspect: secondary,
		Antagonism:      Antagonistic,
		State:           StateActive,
		ResolutionMethods: []string{
			"Reform",
			"Revolution",
		},
		ResolutionTriggers: []events.Trigger{
			{Indicator: world.IndicatorGini, Op: events.OpLess, Value: 0.35},
		},
	}}
}
