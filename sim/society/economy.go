// Package society contains the economic and political submodels. Each model
// advances one tick at a time under a caller-supplied RNG so that runs are
// reproducible from a seed.
package society

import "math/rand"

// Economy tracks the macroeconomic indicators the dialectics system reads.
type Economy struct {
	Gini         float64 // income inequality, 0.2..0.8
	Unemployment float64 // fraction of workforce, 0.01..0.40
	Growth       float64 // per-tick output growth, -0.10..0.15
}

// NewEconomy returns an economy at the given starting conditions, clamped to
// valid ranges.
func NewEconomy(gini, unemployment, growth float64) *Economy {
	return &Economy{
		Gini:         ClampGini(gini),
		Unemployment: ClampRate(unemployment),
		Growth:       ClampGrowth(growth),
	}
}

// Update advances the economy one tick. Growth follows a bounded random
// walk; unemployment moves against growth (Okun-style coupling); inequality
// creeps upward while growth concentrates and drifts down in contraction.
func (e *Economy) Update(rng *rand.Rand) {
	e.Growth = ClampGrowth(e.Growth + rng.NormFloat64()*0.005)
	e.Unemployment = ClampRate(e.Unemployment - 0.3*e.Growth + rng.NormFloat64()*0.003)
	e.Gini = ClampGini(e.Gini + 0.02*e.Growth + rng.NormFloat64()*0.002)
}

// ClampGini bounds the Gini coefficient to its modeled range.
func ClampGini(v float64) float64 { return clamp(v, 0.2, 0.8) }

// ClampRate bounds a workforce rate to its modeled range.
func ClampRate(v float64) float64 { return clamp(v, 0.01, 0.40) }

// ClampGrowth bounds per-tick growth to its modeled range.
func ClampGrowth(v float64) float64 { return clamp(v, -0.10, 0.15) }

// ClampUnit bounds a value to [0, 1].
func ClampUnit(v float64) float64 { return clamp(v, 0.0, 1.0) }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
