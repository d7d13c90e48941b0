package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babylon-sim/babylon/sim/entity"
	"github.com/babylon-sim/babylon/sim/scenario"
	"github.com/babylon-sim/babylon/sim/world"
)

func TestRunCmd_InitialConditionFlagsOverrideScenario(t *testing.T) {
	// GIVEN a world built from the baseline scenario
	w, _, _, err := scenario.Default().Build(entity.NewRegistry())
	require.NoError(t, err)

	// WHEN only gini and stability flags are set on the run command
	require.NoError(t, runCmd.Flags().Set("gini", "0.7"))
	require.NoError(t, runCmd.Flags().Set("stability", "0.25"))
	applyInitialConditions(w, initialConditionOverrides(runCmd))

	// THEN the set flags override the scenario and the rest keep its values
	gini, _ := w.Indicator(world.IndicatorGini)
	assert.Equal(t, 0.7, gini)
	stability, _ := w.Indicator(world.IndicatorStability)
	assert.Equal(t, 0.25, stability)
	unemployment, _ := w.Indicator(world.IndicatorUnemployment)
	assert.Equal(t, 0.08, unemployment, "unset flag must not override the scenario")
}

func TestApplyInitialConditions_UnknownIndicatorIgnored(t *testing.T) {
	w, _, _, err := scenario.Default().Build(entity.NewRegistry())
	require.NoError(t, err)

	applyInitialConditions(w, map[string]float64{"not_an_indicator": 1.0})

	gini, _ := w.Indicator(world.IndicatorGini)
	assert.Equal(t, 0.42, gini)
}
