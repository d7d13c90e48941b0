// Package lifecycle manages a tiered working set of simulation objects.
// Hot objects sit in a small immediate tier, warm ones in an active cache,
// and cold ones in a large background tier; everything else is inactive.
// Tier capacities shrink under memory pressure and recover when it eases.
package lifecycle

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// State is an object's position in the working set.
type State int

const (
	StateInactive State = iota
	StateBackground
	StateActive
	StateImmediate
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateBackground:
		return "background"
	case StateActive:
		return "active"
	case StateImmediate:
		return "immediate"
	}
	return "unknown"
}

// validTransitions is the allowed state-change table.
var validTransitions = map[State]map[State]bool{
	StateInactive:   {StateImmediate: true, StateBackground: true},
	StateBackground: {StateActive: true, StateImmediate: true, StateInactive: true},
	StateActive:     {StateImmediate: true, StateBackground: true, StateInactive: true},
	StateImmediate:  {StateActive: true, StateInactive: true},
}

// Base tier capacities before memory pressure adjustment.
const (
	baseImmediateLimit  = 30
	baseActiveLimit     = 200
	baseBackgroundLimit = 500

	// activeAgeThreshold is how long an active object may go untouched
	// before rebalancing demotes it to background.
	activeAgeThreshold = 5 * time.Minute
)

// Snapshot reports the manager's operation counts, timings, pressure
// history, and tier usage as fractions of current capacity.
type Snapshot struct {
	Activations     int
	Deactivations   int
	CacheHits       int
	CacheMisses     int
	TierTransitions int

	AvgActivateTime   time.Duration
	AvgDeactivateTime time.Duration

	AvgMemoryPressure  float64
	PeakMemoryPressure float64

	ImmediateUsage  float64
	ActiveUsage     float64
	BackgroundUsage float64
}

// Manager tracks object tiers. Not safe for concurrent use; the simulator
// runs on a single goroutine.
type Manager struct {
	immediate  map[string]any
	active     map[string]any
	background map[string]any

	states       map[string]State
	priorities   map[string]int
	lastAccessed map[string]time.Time

	immediateLimit  int
	activeLimit     int
	backgroundLimit int

	pressure        float64
	pressureHistory []float64
	peakPressure    float64

	hits, misses    int
	tierTransitions int
	opTimes         map[string][]time.Duration
	opCounts        map[string]int

	now func() time.Time
}

// NewManager creates a Manager with base tier limits.
func NewManager() *Manager {
	return &Manager{
		immediate:       make(map[string]any),
		active:          make(map[string]any),
		background:      make(map[string]any),
		states:          make(map[string]State),
		priorities:      make(map[string]int),
		lastAccessed:    make(map[string]time.Time),
		immediateLimit:  baseImmediateLimit,
		activeLimit:     baseActiveLimit,
		backgroundLimit: baseBackgroundLimit,
		opTimes:         make(map[string][]time.Duration),
		opCounts:        make(map[string]int),
		now:             time.Now,
	}
}

// StateOf reports the tracked state of an object (inactive when unknown).
func (m *Manager) StateOf(id string) State {
	return m.states[id]
}

// Activate places an object in the immediate tier. Priority influences which
// objects survive rebalancing (higher survives longer).
func (m *Manager) Activate(id string, obj any, priority int) error {
	start := m.now()
	defer m.timeOp("activate", start)

	if err := m.validate(id, obj); err != nil {
		return err
	}
	if _, ok := m.immediate[id]; ok {
		return nil // already immediate; not a transition
	}
	if err := m.validateTransition(id, StateImmediate); err != nil {
		return err
	}

	now := m.now()
	m.priorities[id] = priority
	m.lastAccessed[id] = now

	delete(m.active, id)
	delete(m.background, id)
	m.immediate[id] = obj
	m.states[id] = StateImmediate
	m.tierTransitions++

	if len(m.immediate) > m.immediateLimit {
		m.rebalance()
	}
	return nil
}

// AddToBackground places an object directly in the background tier.
func (m *Manager) AddToBackground(id string, obj any) error {
	if err := m.validate(id, obj); err != nil {
		return err
	}
	if err := m.validateTransition(id, StateBackground); err != nil {
		return err
	}

	delete(m.immediate, id)
	delete(m.active, id)
	m.lastAccessed[id] = m.now()
	m.background[id] = obj
	m.states[id] = StateBackground
	m.tierTransitions++

	if len(m.background) > m.backgroundLimit {
		m.rebalance()
	}
	return nil
}

// Deactivate removes an object from all tiers. Deactivating an object that
// is already inactive is a transition error.
func (m *Manager) Deactivate(id string) error {
	start := m.now()
	defer m.timeOp("deactivate", start)

	if m.states[id] == StateInactive {
		return &TransitionError{Code: CodeAlreadyInactive, ID: id, Current: StateInactive, Target: StateInactive}
	}
	if err := m.checkConsistency(); err != nil {
		return err
	}

	if m.inAnyTier(id) {
		m.tierTransitions++
	}
	m.Evict(id)
	return nil
}

// MarkInactive moves an object one tier down: immediate -> active or
// active -> background. Background objects cannot be demoted this way;
// use Deactivate.
func (m *Manager) MarkInactive(id string) error {
	if err := m.checkConsistency(); err != nil {
		return err
	}
	now := m.now()

	if obj, ok := m.immediate[id]; ok {
		if err := m.validateTransition(id, StateActive); err != nil {
			return err
		}
		delete(m.immediate, id)
		m.active[id] = obj
		m.states[id] = StateActive
		m.tierTransitions++
		m.lastAccessed[id] = now
		return nil
	}
	if obj, ok := m.active[id]; ok {
		if err := m.validateTransition(id, StateBackground); err != nil {
			return err
		}
		delete(m.active, id)
		m.background[id] = obj
		m.states[id] = StateBackground
		m.tierTransitions++
		m.lastAccessed[id] = now
		return nil
	}
	if _, ok := m.background[id]; ok {
		return &TransitionError{Code: CodeBackgroundNoLower, ID: id, Current: StateBackground, Target: StateInactive}
	}
	return nil
}

// Get fetches an object by ID from any tier, promoting it one tier when
// space allows. Hits and misses are counted.
func (m *Manager) Get(id string) (any, bool) {
	now := m.now()

	if obj, ok := m.immediate[id]; ok {
		m.hits++
		m.lastAccessed[id] = now
		return obj, true
	}
	if obj, ok := m.active[id]; ok {
		m.hits++
		m.lastAccessed[id] = now
		if len(m.immediate) < m.immediateLimit {
			delete(m.active, id)
			m.immediate[id] = obj
			m.states[id] = StateImmediate
			m.tierTransitions++
		}
		return obj, true
	}
	if obj, ok := m.background[id]; ok {
		m.hits++
		m.lastAccessed[id] = now
		if len(m.active) < m.activeLimit {
			delete(m.background, id)
			m.active[id] = obj
			m.states[id] = StateActive
			m.tierTransitions++
		}
		return obj, true
	}
	m.misses++
	return nil, false
}

// Evict drops an object from all tiers and metadata without transition
// checks. Used when the owning registry deletes the object.
func (m *Manager) Evict(id string) {
	delete(m.immediate, id)
	delete(m.active, id)
	delete(m.background, id)
	m.states[id] = StateInactive
	delete(m.priorities, id)
	delete(m.lastAccessed, id)
}

// SetMemoryPressure records the current pressure (0..1) and shrinks or
// restores tier limits accordingly, then rebalances.
func (m *Manager) SetMemoryPressure(pressure float64) error {
	if pressure < 0.0 || pressure > 1.0 {
		return &InvalidObjectError{Code: CodeInvalidState, Msg: "memory pressure must be between 0.0 and 1.0"}
	}
	m.pressure = pressure
	m.pressureHistory = append(m.pressureHistory, pressure)
	if pressure > m.peakPressure {
		m.peakPressure = pressure
	}

	switch {
	case pressure >= 0.9: // extreme: allow down to 10% capacity
		f := maxf(0.1, 1.0-pressure)
		m.immediateLimit = maxi(4, int(float64(baseImmediateLimit)*f))
		m.activeLimit = maxi(20, int(float64(baseActiveLimit)*f))
		m.backgroundLimit = maxi(40, int(float64(baseBackgroundLimit)*f))
	case pressure >= 0.8: // high: allow down to 15% capacity
		f := maxf(0.15, 1.0-pressure)
		m.immediateLimit = maxi(5, int(float64(baseImmediateLimit)*f))
		m.activeLimit = maxi(25, int(float64(baseActiveLimit)*f))
		m.backgroundLimit = maxi(50, int(float64(baseBackgroundLimit)*f))
	default: // normal: gentle reduction with a recovery boost
		f := 1.0 - pressure*0.15
		boost := maxf(0, 1.2-pressure)
		m.immediateLimit = maxi(20, int(float64(baseImmediateLimit)*(f+boost)))
		m.activeLimit = maxi(60, int(float64(baseActiveLimit)*(f+boost)))
		m.backgroundLimit = maxi(120, int(float64(baseBackgroundLimit)*(f+boost)))
	}

	m.rebalance()

	logrus.Infof("memory pressure %.2f, limits: immediate=%d active=%d background=%d",
		pressure, m.immediateLimit, m.activeLimit, m.backgroundLimit)
	return nil
}

// Sizes of each tier.
func (m *Manager) ImmediateSize() int  { return len(m.immediate) }
func (m *Manager) ActiveSize() int     { return len(m.active) }
func (m *Manager) BackgroundSize() int { return len(m.background) }

// Metrics returns a snapshot of the manager's counters.
func (m *Manager) Metrics() Snapshot {
	return Snapshot{
		Activations:        m.opCounts["activate"],
		Deactivations:      m.opCounts["deactivate"],
		CacheHits:          m.hits,
		CacheMisses:        m.misses,
		TierTransitions:    m.tierTransitions,
		AvgActivateTime:    avgDuration(m.opTimes["activate"]),
		AvgDeactivateTime:  avgDuration(m.opTimes["deactivate"]),
		AvgMemoryPressure:  meanFloat(m.pressureHistory),
		PeakMemoryPressure: m.peakPressure,
		ImmediateUsage:     usage(len(m.immediate), m.immediateLimit),
		ActiveUsage:        usage(len(m.active), m.activeLimit),
		BackgroundUsage:    usage(len(m.background), m.backgroundLimit),
	}
}

// rebalance enforces tier limits: excess immediate objects demote to active,
// excess and stale active objects demote to background, and excess
// background objects fall out of the working set entirely.
func (m *Manager) rebalance() {
	now := m.now()

	for len(m.immediate) > m.immediateLimit {
		id := m.demotionCandidate(m.immediate, now)
		obj := m.immediate[id]
		delete(m.immediate, id)
		m.active[id] = obj
		m.states[id] = StateActive
		m.tierTransitions++
	}

	for len(m.active) > m.activeLimit {
		id := m.demotionCandidate(m.active, now)
		obj := m.active[id]
		delete(m.active, id)
		m.background[id] = obj
		m.states[id] = StateBackground
		m.tierTransitions++
	}

	for _, id := range sortedKeys(m.active) {
		if now.Sub(m.lastAccessed[id]) > activeAgeThreshold {
			obj := m.active[id]
			delete(m.active, id)
			m.background[id] = obj
			m.states[id] = StateBackground
			m.tierTransitions++
		}
	}

	for len(m.background) > m.backgroundLimit {
		id := m.demotionCandidate(m.background, now)
		delete(m.background, id)
		m.states[id] = StateInactive
		m.tierTransitions++
	}
}

// demotionCandidate scores tier members by age scaled against priority and
// returns the worst. Ties break by ID so rebalancing is deterministic.
func (m *Manager) demotionCandidate(tier map[string]any, now time.Time) string {
	best := ""
	bestScore := -1.0
	for _, id := range sortedKeys(tier) {
		age := now.Sub(m.lastAccessed[id]).Seconds()
		score := age * (1.0 / float64(m.priorities[id]+1))
		if score > bestScore {
			best, bestScore = id, score
		}
	}
	return best
}

// checkConsistency verifies no object is present in more than one tier.
func (m *Manager) checkConsistency() error {
	var dupes []string
	for id := range m.immediate {
		if _, ok := m.active[id]; ok {
			dupes = append(dupes, id)
		}
		if _, ok := m.background[id]; ok {
			dupes = append(dupes, id)
		}
	}
	for id := range m.active {
		if _, ok := m.background[id]; ok {
			dupes = append(dupes, id)
		}
	}
	if len(dupes) > 0 {
		sort.Strings(dupes)
		return &CorruptStateError{Code: CodeDuplicateTiers, Affected: dupes}
	}
	return nil
}

func (m *Manager) validate(id string, obj any) error {
	if id == "" {
		return &InvalidObjectError{Code: CodeInvalidObject, Msg: "object must have an id"}
	}
	if obj == nil {
		return &InvalidObjectError{Code: CodeInvalidObject, ID: id, Msg: "object must not be nil"}
	}
	return nil
}

func (m *Manager) validateTransition(id string, target State) error {
	current := m.states[id]
	if !validTransitions[current][target] {
		return &TransitionError{Code: CodeBadTransition, ID: id, Current: current, Target: target}
	}
	return nil
}

func (m *Manager) inAnyTier(id string) bool {
	if _, ok := m.immediate[id]; ok {
		return true
	}
	if _, ok := m.active[id]; ok {
		return true
	}
	_, ok := m.background[id]
	return ok
}

func (m *Manager) timeOp(name string, start time.Time) {
	m.opTimes[name] = append(m.opTimes[name], m.now().Sub(start))
	m.opCounts[name]++
}

func sortedKeys(tier map[string]any) []string {
	keys := make([]string, 0, len(tier))
	for id := range tier {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}

func avgDuration(ds []time.Duration) time.Duration {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	return sum / time.Duration(len(ds))
}

func meanFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func usage(n, limit int) float64 {
	if limit == 0 {
		return 0
	}
	return float64(n) / float64(limit)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func maxi(a, b int) int {
	if a > b {
		return a
	}
	return b
}
