// Package trace provides decision-trace recording for dialectical analysis.
// It has no dependencies on sim/ or sim/dialectics/ and stores pure data
// types.
package trace

// DetectionRecord captures one contradiction detection.
type DetectionRecord struct {
	ContradictionID string
	Clock           int64
	Rule            string
	Intensity       float64
}

// FiringRecord captures one game event firing.
type FiringRecord struct {
	EventID        string
	Clock          int64
	EffectsApplied int
	EffectsSkipped int
	EscalatedTo    []string
	Consequences   []string
}

// ResolutionRecord captures one contradiction resolution.
type ResolutionRecord struct {
	ContradictionID string
	Clock           int64
	Method          string
}
