package sim

import (
	"fmt"
	"sort"

	"github.com/babylon-sim/babylon/sim/events"
)

// Metrics aggregates statistics about the simulation
// for final reporting. Useful for evaluating how a scenario plays out
// and debugging behavior over time.
type Metrics struct {
	TicksExecuted          int // Number of ticks advanced
	EventsFired            int // Number of game events that fired
	EffectsApplied         int // Effects applied across all firings
	EffectsSkipped         int // Effects skipped due to bad targets
	EscalationsTriggered   int // Escalation events enqueued
	ConsequencesQueued     int // Consequence events enqueued
	ContradictionsDetected int // Contradictions detected over the run
	ContradictionsResolved int // Contradictions resolved over the run

	PeakIntensity float64 // Max contradiction intensity observed

	// Per-tick indicator series for offline analysis.
	GiniSeries      []float64
	StabilitySeries []float64

	// FiredByID counts firings per event ID.
	FiredByID map[string]int

	SimEndedTime int64 // Clock value when the run ended
}

func NewMetrics() *Metrics {
	return &Metrics{
		FiredByID: make(map[string]int),
	}
}

// RecordFiring folds one firing result into the totals.
func (m *Metrics) RecordFiring(eventID string, res events.FiringResult) {
	m.EventsFired++
	m.FiredByID[eventID]++
	m.EffectsApplied += res.EffectsApplied
	m.EffectsSkipped += res.EffectsSkipped
	m.EscalationsTriggered += len(res.EscalatedTo)
	m.ConsequencesQueued += len(res.Consequences)
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Ticks Executed          : %d\n", m.TicksExecuted)
	fmt.Printf("Events Fired            : %d\n", m.EventsFired)
	fmt.Printf("Effects Applied/Skipped : %d/%d\n", m.EffectsApplied, m.EffectsSkipped)
	fmt.Printf("Escalations Triggered   : %d\n", m.EscalationsTriggered)
	fmt.Printf("Contradictions Detected : %d\n", m.ContradictionsDetected)
	fmt.Printf("Contradictions Resolved : %d\n", m.ContradictionsResolved)
	fmt.Printf("Peak Intensity          : %.3f\n", m.PeakIntensity)
	if len(m.GiniSeries) > 0 {
		fmt.Printf("Mean Gini               : %.3f\n", CalculateMean(m.GiniSeries))
		fmt.Printf("Final Gini              : %.3f\n", m.GiniSeries[len(m.GiniSeries)-1])
	}
	if len(m.StabilitySeries) > 0 {
		sorted := append([]float64(nil), m.StabilitySeries...)
		sort.Float64s(sorted)
		fmt.Printf("Mean Stability          : %.3f\n", CalculateMean(m.StabilitySeries))
		fmt.Printf("P10 Stability           : %.3f\n", CalculatePercentile(sorted, 10))
	}
	if len(m.FiredByID) > 0 {
		ids := make([]string, 0, len(m.FiredByID))
		for id := range m.FiredByID {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Println("Firings by event:")
		for _, id := range ids {
			fmt.Printf("  %-24s %d\n", id, m.FiredByID[id])
		}
	}
	fmt.Printf("Simulation Ended At     : %d ticks\n", m.SimEndedTime)
}
