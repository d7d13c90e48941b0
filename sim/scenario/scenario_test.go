package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylon-sim/babylon/sim/entity"
)

const sampleYAML = `
name: weimar
player_responsible: true
economy:
  gini: 0.55
  unemployment: 0.25
  growth: -0.04
politics:
  stability: 0.35
  repression: 0.45
entities:
  - id: industrialists
    type: class
    role: Oppressor
    attributes:
      wealth: 8.0
  - id: workers
    type: class
    role: Oppressed
events:
  - id: hyperinflation
    name: Hyperinflation
    triggers:
      - indicator: growth_rate
        op: lt
        value: -0.02
    effects:
      - target: workers
        attribute: wealth
        op: decrease
        value: 0.5
contradictions:
  - id: seeded
    name: Seeded Conflict
    state: active
    principal_aspect:
      entity: industrialists
      role: Oppressor
    secondary_aspect:
      entity: workers
      role: Oppressed
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_ParsesFullScenario(t *testing.T) {
	spec, err := Load(writeScenario(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "weimar", spec.Name)
	assert.True(t, spec.PlayerResponsible)
	assert.Equal(t, 0.55, spec.Economy.Gini)
	assert.Equal(t, 0.35, spec.Politics.Stability)
	require.Len(t, spec.Entities, 2)
	require.Len(t, spec.Events, 1)
	assert.Equal(t, "hyperinflation", spec.Events[0].ID)
	require.Len(t, spec.Contradictions, 1)
	assert.Equal(t, "industrialists", spec.Contradictions[0].PrincipalAspect.EntityID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Spec)
	}{
		{"empty name", func(s *Spec) { s.Name = "" }},
		{"no entities", func(s *Spec) { s.Entities = nil }},
		{"duplicate entity", func(s *Spec) { s.Entities = append(s.Entities, s.Entities[0]) }},
		{"entity without id", func(s *Spec) { s.Entities[0].ID = "" }},
		{"duplicate event", func(s *Spec) { s.Events = append(s.Events, s.Events[0]) }},
		{"invalid event", func(s *Spec) { s.Events[0].Triggers[0].Op = "between" }},
		{"contradiction unknown entity", func(s *Spec) {
			s.Contradictions[0].PrincipalAspect.EntityID = "ghost"
		}},
		{"contradiction without aspects", func(s *Spec) {
			s.Contradictions[0].SecondaryAspect.EntityID = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Load(writeScenario(t, sampleYAML))
			require.NoError(t, err)
			tt.mutate(spec)
			assert.Error(t, spec.Validate())
		})
	}
}

func TestBuild_PopulatesWorld(t *testing.T) {
	spec, err := Load(writeScenario(t, sampleYAML))
	require.NoError(t, err)
	reg := entity.NewRegistry()

	w, defs, seeds, err := spec.Build(reg)
	require.NoError(t, err)

	assert.True(t, w.PlayerResponsible)
	assert.Equal(t, 0.55, w.Economy.Gini)
	assert.Equal(t, 0.35, w.Politics.Stability)
	assert.Equal(t, 2, w.Registry.Count())

	// Explicit attributes override defaults; unnamed ones keep defaults.
	wealth, _ := w.Attribute("industrialists", "wealth")
	assert.Equal(t, 8.0, wealth)
	power, _ := w.Attribute("industrialists", "power")
	assert.Equal(t, 1.0, power)

	require.Len(t, defs, 1)
	require.Len(t, seeds, 1)
}

func TestBuild_ClampsIndicators(t *testing.T) {
	spec := Default()
	spec.Economy.Gini = 5.0
	spec.Politics.Stability = -2.0

	w, _, _, err := spec.Build(entity.NewRegistry())
	require.NoError(t, err)

	assert.Equal(t, 0.8, w.Economy.Gini)
	assert.Equal(t, 0.0, w.Politics.Stability)
}

func TestDefault_IsValidAndBuildable(t *testing.T) {
	spec := Default()

	require.NoError(t, spec.Validate())

	w, defs, _, err := spec.Build(entity.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, 3, w.Registry.Count())
	assert.NotEmpty(t, w.Registry.ByRole("Oppressor"))
	assert.NotEmpty(t, w.Registry.ByRole("Oppressed"))
	require.Len(t, defs, 1)
	require.NoError(t, defs[0].Validate())
}
