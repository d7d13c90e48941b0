package dialectics

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/babylon-sim/babylon/sim/events"
	"github.com/babylon-sim/babylon/sim/perf"
	"github.com/babylon-sim/babylon/sim/trace"
	"github.com/babylon-sim/babylon/sim/world"
)

// Analysis tracks all contradictions in the simulation and develops them
// tick by tick: intensity updates, detection of new contradictions,
// resolution, and unrest event generation.
type Analysis struct {
	contradictions []*Contradiction
	byID           map[string]*Contradiction

	rules []DetectionRule

	trace     *trace.SimulationTrace
	collector *perf.Collector

	// emittedHigh marks contradictions that already generated an unrest
	// event during their current high-intensity episode; it clears when the
	// intensity drops out of the high band.
	emittedHigh map[string]bool
}

// NewAnalysis creates an Analysis with the default detection rules.
func NewAnalysis() *Analysis {
	return &Analysis{
		byID:        make(map[string]*Contradiction),
		rules:       DefaultRules(),
		emittedHigh: make(map[string]bool),
	}
}

// WithTrace attaches a decision trace.
func (a *Analysis) WithTrace(t *trace.SimulationTrace) *Analysis {
	a.trace = t
	return a
}

// WithCollector attaches a perf collector; Add and Update record their
// processing time on it.
func (a *Analysis) WithCollector(c *perf.Collector) *Analysis {
	a.collector = c
	return a
}

// WithRules replaces the detection rule set.
func (a *Analysis) WithRules(rules []DetectionRule) *Analysis {
	a.rules = rules
	return a
}

// Add registers a contradiction. Duplicate IDs are rejected.
func (a *Analysis) Add(c *Contradiction) error {
	if _, ok := a.byID[c.ID]; ok {
		return fmt.Errorf("contradiction %s already registered", c.ID)
	}
	start := time.Now()
	if c.State == "" {
		c.State = StateActive
	}
	a.contradictions = append(a.contradictions, c)
	a.byID[c.ID] = c
	if a.collector != nil {
		a.collector.RecordObjectAccess(c.ID, "dialectics")
		a.collector.RecordContextSwitch(float64(time.Since(start).Microseconds()) / 1000)
	}
	return nil
}

// Get returns a contradiction by ID, or nil.
func (a *Analysis) Get(id string) *Contradiction {
	return a.byID[id]
}

// Contradictions returns the registered contradictions in insertion order.
func (a *Analysis) Contradictions() []*Contradiction {
	return a.contradictions
}

// DetectNew runs the detection rules and registers any contradictions they
// surface that are not already tracked. Returns the newly added ones.
func (a *Analysis) DetectNew(w *world.World, clock int64) []*Contradiction {
	exists := func(id string) bool {
		_, ok := a.byID[id]
		return ok
	}

	var added []*Contradiction
	for _, rule := range a.rules {
		for _, c := range rule.Detect(w, exists) {
			if exists(c.ID) {
				continue
			}
			c.RecordIntensity(intensityFrom(w))
			if err := a.Add(c); err != nil {
				logrus.Warnf("detection rule %s: %v", rule.Name(), err)
				continue
			}
			logrus.Infof("contradiction detected: %s (rule %s, intensity %.2f)", c.ID, rule.Name(), c.Intensity)
			a.trace.RecordDetection(trace.DetectionRecord{
				ContradictionID: c.ID,
				Clock:           clock,
				Rule:            rule.Name(),
				Intensity:       c.Intensity,
			})
			added = append(added, c)
		}
	}
	return added
}

// Update develops every contradiction one tick: recompute intensity from
// the current indicators, apply dormancy and resolution transitions, then
// run detection for new contradictions. Returns the newly detected ones.
func (a *Analysis) Update(w *world.World, clock int64) []*Contradiction {
	start := time.Now()

	pressure := intensityFrom(w)
	for _, c := range a.contradictions {
		if c.State == StateResolved {
			continue
		}
		c.RecordIntensity(pressure)

		if c.Band() != BandHigh {
			delete(a.emittedHigh, c.ID)
		}

		// A dormant contradiction reactivates when pressure builds again.
		if c.State == StateDormant && c.Band() != BandLow {
			c.State = StateActive
			logrus.Infof("contradiction %s reactivated at intensity %.2f", c.ID, c.Intensity)
		}
		if c.State == StateActive && c.Band() == BandLow && len(c.IntensityHistory) >= 3 && trailingLow(c.IntensityHistory, 3) {
			c.State = StateDormant
			logrus.Infof("contradiction %s went dormant", c.ID)
		}

		if c.State != StateResolved && len(c.ResolutionTriggers) > 0 && events.All(w, c.ResolutionTriggers) {
			c.State = StateResolved
			method := "unspecified"
			if len(c.ResolutionMethods) > 0 {
				method = c.ResolutionMethods[0]
			}
			logrus.Infof("contradiction %s resolved via %s", c.ID, method)
			a.trace.RecordResolution(trace.ResolutionRecord{
				ContradictionID: c.ID,
				Clock:           clock,
				Method:          method,
			})
		}
	}

	added := a.DetectNew(w, clock)

	if a.collector != nil {
		a.collector.RecordContextSwitch(float64(time.Since(start).Microseconds()) / 1000)
	}
	return added
}

// GenerateEvents emits unrest events for contradictions that are active and
// in the high intensity band. Each contradiction emits at most one event per
// high-intensity episode.
func (a *Analysis) GenerateEvents(w *world.World) []*events.GameEvent {
	var out []*events.GameEvent
	for _, c := range a.contradictions {
		if c.State != StateActive || c.Band() != BandHigh {
			continue
		}
		if a.emittedHigh[c.ID] {
			continue
		}
		a.emittedHigh[c.ID] = true
		out = append(out, a.unrestEvent(c))
	}
	return out
}

// unrestEvent builds the event an intense contradiction erupts into:
// stability drops with intensity, the principal aspect loses wealth, and the
// situation can escalate into open revolt while stability stays low.
func (a *Analysis) unrestEvent(c *Contradiction) *events.GameEvent {
	revolt := &events.GameEvent{
		ID:          "revolt_" + c.ID,
		Name:        "Open revolt over " + c.Name,
		Description: "The unrest hardens into organized revolt.",
		Triggers: []events.Trigger{
			{Indicator: world.IndicatorStability, Op: events.OpLess, Value: 0.3},
		},
		Effects: []events.Effect{
			{Indicator: world.IndicatorStability, Op: events.ModDecrease, Value: 0.10, Description: "revolt shakes the regime"},
			{Indicator: world.IndicatorRepression, Op: events.ModIncrease, Value: 0.15, Description: "the state cracks down"},
		},
	}

	return &events.GameEvent{
		ID:          "unrest_" + c.ID,
		Name:        "Mass unrest over " + c.Name,
		Description: c.Description,
		Effects: []events.Effect{
			{Indicator: world.IndicatorStability, Op: events.ModDecrease, Value: 0.05 * c.Intensity, Description: "unrest erodes stability"},
			{Target: c.PrincipalAspect.EntityID, Attribute: "wealth", Op: events.ModDecrease, Value: 0.1 * c.Intensity, Description: "disruption costs the dominant aspect"},
		},
		Escalations: []*events.GameEvent{revolt},
	}
}

// intensityFrom maps the current societal indicators onto the [0,1]
// intensity scale: inequality carries half the weight, labor precarity and
// political instability a quarter each.
func intensityFrom(w *world.World) float64 {
	gini, _ := w.Indicator(world.IndicatorGini)
	unemp, _ := w.Indicator(world.IndicatorUnemployment)
	stab, _ := w.Indicator(world.IndicatorStability)

	normGini := (gini - 0.2) / 0.6
	normUnemp := (unemp - 0.01) / 0.39
	instability := 1.0 - stab

	v := 0.5*normGini + 0.25*normUnemp + 0.25*instability
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// trailingLow reports whether the last n history samples are all in the low
// band.
func trailingLow(history []float64, n int) bool {
	for _, v := range history[len(history)-n:] {
		if v >= mediumThreshold {
			return false
		}
	}
	return true
}
