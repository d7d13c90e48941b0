package trace

// Level controls the verbosity of decision tracing.
type Level string

const (
	// LevelNone disables tracing (zero overhead).
	LevelNone Level = "none"
	// LevelDecisions captures all detections, firings, and resolutions.
	LevelDecisions Level = "decisions"
)

// validLevels maps accepted trace level strings.
var validLevels = map[Level]bool{
	LevelNone:      true,
	LevelDecisions: true,
	"":             true, // empty defaults to none
}

// IsValidLevel returns true if the given level string is a recognized trace level.
func IsValidLevel(level string) bool {
	return validLevels[Level(level)]
}

// Config controls trace collection behavior.
type Config struct {
	Level Level
}

// SimulationTrace collects decision records during a run.
type SimulationTrace struct {
	Config      Config
	Detections  []DetectionRecord
	Firings     []FiringRecord
	Resolutions []ResolutionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config Config) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Detections:  make([]DetectionRecord, 0),
		Firings:     make([]FiringRecord, 0),
		Resolutions: make([]ResolutionRecord, 0),
	}
}

// Enabled reports whether decision recording is on.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == LevelDecisions
}

// RecordDetection appends a detection record.
func (st *SimulationTrace) RecordDetection(record DetectionRecord) {
	if !st.Enabled() {
		return
	}
	st.Detections = append(st.Detections, record)
}

// RecordFiring appends a firing record.
func (st *SimulationTrace) RecordFiring(record FiringRecord) {
	if !st.Enabled() {
		return
	}
	st.Firings = append(st.Firings, record)
}

// RecordResolution appends a resolution record.
func (st *SimulationTrace) RecordResolution(record ResolutionRecord) {
	if !st.Enabled() {
		return
	}
	st.Resolutions = append(st.Resolutions, record)
}
