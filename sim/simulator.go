package sim

import (
	"container/heap"

	"github.com/sirupsen/logrus"

	"github.com/babylon-sim/babylon/sim/dialectics"
	"github.com/babylon-sim/babylon/sim/events"
	"github.com/babylon-sim/babylon/sim/perf"
	"github.com/babylon-sim/babylon/sim/trace"
	"github.com/babylon-sim/babylon/sim/world"
)

// EventQueue implements heap.Interface and orders events by timestamp.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type EventQueue []Event

func (eq EventQueue) Len() int           { return len(eq) }
func (eq EventQueue) Less(i, j int) bool { return eq[i].Timestamp() < eq[j].Timestamp() }
func (eq EventQueue) Swap(i, j int)      { eq[i], eq[j] = eq[j], eq[i] }

func (eq *EventQueue) Push(x any) {
	*eq = append(*eq, x.(Event))
}

func (eq *EventQueue) Pop() any {
	old := *eq
	n := len(old)
	item := old[n-1]
	*eq = old[0 : n-1]
	return item
}

// Simulator is the core object that holds simulation time, world state, and
// the event loop.
type Simulator struct {
	Clock   int64
	Horizon int64
	// TickInterval is the spacing between successive TickEvents.
	TickInterval int64
	// EventQueue holds all scheduled simulator events (ticks, injections).
	EventQueue EventQueue
	// World is the full mutable state game events and rules act on.
	World *world.World
	// Analysis detects, tracks, and resolves contradictions each tick.
	Analysis *dialectics.Analysis
	// Definitions are the scenario's game events. Each fires at most once
	// per run: once a definition's triggers hold and it fires, it never
	// refires, even if the condition later clears and recurs.
	Definitions []*events.GameEvent
	// Pending holds generated events (unrest, escalations, consequences)
	// awaiting execution within the current tick.
	Pending *events.Queue
	// History records every firing in order.
	History []FiringRecord

	Metrics *Metrics
	RNG     *PartitionedRNG
	Trace   *trace.SimulationTrace
	Perf    *perf.Collector

	fired map[string]bool
}

// FiringRecord is one entry of the run's event history.
type FiringRecord struct {
	Clock   int64
	EventID string
	Result  events.FiringResult
}

// NewSimulator wires a simulator around a built world. Trace defaults to
// disabled and Perf to nil; use the With options to attach them.
func NewSimulator(horizon, tickInterval int64, seed int64, w *world.World, defs []*events.GameEvent, analysis *dialectics.Analysis) *Simulator {
	if tickInterval <= 0 {
		tickInterval = 1
	}
	s := &Simulator{
		Clock:        0,
		Horizon:      horizon,
		TickInterval: tickInterval,
		EventQueue:   make(EventQueue, 0),
		World:        w,
		Analysis:     analysis,
		Definitions:  defs,
		Pending:      &events.Queue{},
		Metrics:      NewMetrics(),
		RNG:          NewPartitionedRNG(NewSimulationKey(seed)),
		Trace:        trace.NewSimulationTrace(trace.Config{Level: trace.LevelNone}),
		fired:        make(map[string]bool),
	}
	return s
}

// WithTrace attaches a decision trace.
func (sim *Simulator) WithTrace(t *trace.SimulationTrace) *Simulator {
	sim.Trace = t
	return sim
}

// WithCollector attaches a perf collector.
func (sim *Simulator) WithCollector(c *perf.Collector) *Simulator {
	sim.Perf = c
	return sim
}

// Schedule pushes an event into the simulator's EventQueue.
func (sim *Simulator) Schedule(ev Event) {
	heap.Push(&sim.EventQueue, ev)
}

// EnqueueGameEvent queues a game event for firing on the next tick's flush,
// bypassing its triggers. Use an InjectionEvent instead to target a specific
// tick.
func (sim *Simulator) EnqueueGameEvent(ev *events.GameEvent) {
	sim.Pending.Enqueue(ev)
}

// Run drives the event loop until the queue drains or the horizon passes.
// The first TickEvent is scheduled automatically; a horizon shorter than one
// tick interval yields no ticks.
func (sim *Simulator) Run() {
	if sim.TickInterval <= sim.Horizon {
		sim.Schedule(&TickEvent{time: sim.TickInterval})
	}
	for len(sim.EventQueue) > 0 {
		// get the next event to be simulated
		ev := heap.Pop(&sim.EventQueue).(Event)
		// advance the clock
		sim.Clock = ev.Timestamp()
		logrus.Debugf("[tick %07d] Executing %T", sim.Clock, ev)
		// process the event
		ev.Execute(sim)
		// end the simulation if horizon is reached or if we've run out of events
		if sim.Clock > sim.Horizon {
			break
		}
	}
	sim.Metrics.SimEndedTime = min(sim.Clock, sim.Horizon)
	logrus.Infof("[tick %07d] Simulation ended", sim.Clock)
}

// Tick advances every subsystem one step at the given clock value.
func (sim *Simulator) Tick(now int64) {
	sim.Metrics.TicksExecuted++

	sim.World.Economy.Update(sim.RNG.ForSubsystem(SubsystemEconomy))
	sim.World.Politics.Update(sim.RNG.ForSubsystem(SubsystemPolitics), sim.World.Economy)

	resolvedBefore := countResolved(sim.Analysis)
	added := sim.Analysis.Update(sim.World, now)
	sim.Metrics.ContradictionsDetected += len(added)
	sim.Metrics.ContradictionsResolved += countResolved(sim.Analysis) - resolvedBefore

	for _, c := range sim.Analysis.Contradictions() {
		if c.Intensity > sim.Metrics.PeakIntensity {
			sim.Metrics.PeakIntensity = c.Intensity
		}
	}

	// Unrest generated by high-intensity contradictions fires this tick.
	for _, ev := range sim.Analysis.GenerateEvents(sim.World) {
		sim.Pending.Enqueue(ev)
	}

	// Scenario events fire at most once per run. An oscillating condition
	// does not refire an event that already entered the history.
	for _, def := range sim.Definitions {
		if sim.fired[def.ID] {
			continue
		}
		if def.Triggered(sim.World) {
			sim.fired[def.ID] = true
			sim.Pending.Enqueue(def)
		}
	}

	sim.flushPending(now)

	sim.Metrics.GiniSeries = append(sim.Metrics.GiniSeries, sim.World.Economy.Gini)
	sim.Metrics.StabilitySeries = append(sim.Metrics.StabilitySeries, sim.World.Politics.Stability)
}

// flushPending fires queued events in FIFO order. Firing can enqueue more
// (escalations, consequences); those run in the same flush so a tick always
// ends with an empty queue.
func (sim *Simulator) flushPending(now int64) {
	for sim.Pending.Len() > 0 {
		ev := sim.Pending.Dequeue()
		sim.fire(ev, now)
	}
}

func (sim *Simulator) fire(ev *events.GameEvent, now int64) {
	res := ev.Fire(sim.World, sim.Pending.Enqueue)
	sim.Metrics.RecordFiring(ev.ID, res)
	sim.History = append(sim.History, FiringRecord{Clock: now, EventID: ev.ID, Result: res})
	sim.Trace.RecordFiring(trace.FiringRecord{
		EventID:        ev.ID,
		Clock:          now,
		EffectsApplied: res.EffectsApplied,
		EffectsSkipped: res.EffectsSkipped,
		EscalatedTo:    res.EscalatedTo,
		Consequences:   res.Consequences,
	})
	if sim.Perf != nil {
		sim.Perf.RecordTokenUsage(len(ev.Effects))
	}
}

func countResolved(a *dialectics.Analysis) int {
	n := 0
	for _, c := range a.Contradictions() {
		if c.State == dialectics.StateResolved {
			n++
		}
	}
	return n
}
