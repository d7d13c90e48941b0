// Package scenario loads simulation scenarios from YAML. A scenario names
// the starting entities, the initial economic and political indicators,
// the game event definitions, and any seeded contradictions.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/babylon-sim/babylon/sim/dialectics"
	"github.com/babylon-sim/babylon/sim/entity"
	"github.com/babylon-sim/babylon/sim/events"
	"github.com/babylon-sim/babylon/sim/society"
	"github.com/babylon-sim/babylon/sim/world"
)

// EntitySpec declares one starting entity.
type EntitySpec struct {
	ID         string             `yaml:"id"`
	Type       string             `yaml:"type"`
	Role       string             `yaml:"role"`
	Attributes map[string]float64 `yaml:"attributes,omitempty"`
}

// Spec is a full scenario file.
type Spec struct {
	Name              string                      `yaml:"name"`
	PlayerResponsible bool                        `yaml:"player_responsible"`
	Economy           society.Economy             `yaml:"economy"`
	Politics          society.Politics            `yaml:"politics"`
	Entities          []EntitySpec                `yaml:"entities"`
	Events            []*events.GameEvent         `yaml:"events,omitempty"`
	Contradictions    []*dialectics.Contradiction `yaml:"contradictions,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Spec, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var spec Spec
	if err := yaml.Unmarshal(buf, &spec); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Validate checks the scenario for internal consistency.
func (s *Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(s.Entities) == 0 {
		return fmt.Errorf("scenario %q declares no entities", s.Name)
	}
	seen := make(map[string]bool, len(s.Entities))
	for i, e := range s.Entities {
		if e.ID == "" {
			return fmt.Errorf("entity %d has no id", i)
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate entity id %q", e.ID)
		}
		seen[e.ID] = true
	}
	eventIDs := make(map[string]bool, len(s.Events))
	for _, ev := range s.Events {
		if err := ev.Validate(); err != nil {
			return fmt.Errorf("event %q: %w", ev.ID, err)
		}
		if eventIDs[ev.ID] {
			return fmt.Errorf("duplicate event id %q", ev.ID)
		}
		eventIDs[ev.ID] = true
	}
	for _, c := range s.Contradictions {
		if c.ID == "" {
			return fmt.Errorf("contradiction with empty id")
		}
		if c.PrincipalAspect.EntityID == "" || c.SecondaryAspect.EntityID == "" {
			return fmt.Errorf("contradiction %q missing aspects", c.ID)
		}
		if !seen[c.PrincipalAspect.EntityID] {
			return fmt.Errorf("contradiction %q references unknown entity %q", c.ID, c.PrincipalAspect.EntityID)
		}
		if !seen[c.SecondaryAspect.EntityID] {
			return fmt.Errorf("contradiction %q references unknown entity %q", c.ID, c.SecondaryAspect.EntityID)
		}
	}
	return nil
}

// Build constructs the world, event definitions, and seeded contradictions
// the scenario describes. The registry is passed in so callers can attach
// perf and lifecycle instrumentation before population.
func (s *Spec) Build(reg *entity.Registry) (*world.World, []*events.GameEvent, []*dialectics.Contradiction, error) {
	for _, es := range s.Entities {
		e := reg.CreateWithID(es.ID, es.Type, es.Role)
		for k, v := range es.Attributes {
			e.Attributes[k] = v
		}
	}
	w := world.New(
		society.NewEconomy(s.Economy.Gini, s.Economy.Unemployment, s.Economy.Growth),
		society.NewPolitics(s.Politics.Stability, s.Politics.Repression),
	)
	w.Registry = reg
	w.PlayerResponsible = s.PlayerResponsible
	return w, s.Events, s.Contradictions, nil
}

// Default returns the baseline scenario: a two-class society with a
// moderate inequality gap and a single revolt-capable unrest event.
func Default() *Spec {
	return &Spec{
		Name:              "baseline",
		PlayerResponsible: true,
		Economy:           society.Economy{Gini: 0.42, Unemployment: 0.08, Growth: 0.02},
		Politics:          society.Politics{Stability: 0.7, Repression: 0.3},
		Entities: []EntitySpec{
			{ID: "upper_class", Type: "class", Role: "Oppressor", Attributes: map[string]float64{"wealth": 5.0, "power": 3.0}},
			{ID: "working_class", Type: "class", Role: "Oppressed", Attributes: map[string]float64{"wealth": 1.0, "power": 0.5}},
			{ID: "state", Type: "institution", Role: "Arbiter", Attributes: map[string]float64{"power": 4.0}},
		},
		Events: []*events.GameEvent{
			{
				ID:          "austerity_measures",
				Name:        "Austerity Measures",
				Description: "Public spending cuts squeeze the working class.",
				Triggers: []events.Trigger{
					{Indicator: world.IndicatorGrowth, Op: events.OpLess, Value: 0.0},
					{Indicator: world.IndicatorStability, Op: events.OpGreater, Value: 0.4},
				},
				Effects: []events.Effect{
					{Target: "working_class", Attribute: "wealth", Op: events.ModDecrease, Value: 0.2, Description: "wage and benefit cuts"},
					{Indicator: world.IndicatorUnemployment, Op: events.ModIncrease, Value: 0.01, Description: "public sector layoffs"},
				},
			},
		},
	}
}
