package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/babylon-sim/babylon/sim/events"
)

// Event defines the interface for all simulation events.
// Each event must have a Timestamp (in ticks) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator)
}

// TickEvent advances the world by one tick: the economic and political
// submodels update, contradictions are re-analyzed, and game events whose
// triggers hold are fired. Each tick schedules its successor until the
// horizon is reached.
type TickEvent struct {
	time int64 // Scheduled execution time (in ticks)
}

// Timestamp returns the scheduled time of the TickEvent.
func (e *TickEvent) Timestamp() int64 {
	return e.time
}

// Execute runs the tick and schedules the next one while inside the horizon.
func (e *TickEvent) Execute(sim *Simulator) {
	logrus.Debugf("<< Tick at %d ticks", e.time)
	sim.Tick(e.time)

	next := e.time + sim.TickInterval
	if next <= sim.Horizon {
		sim.Schedule(&TickEvent{time: next})
	}
}

// InjectionEvent forces a game event into the timeline at a chosen tick,
// bypassing its triggers. Scenarios and player decisions use it to stage
// incidents.
type InjectionEvent struct {
	time  int64
	Event *events.GameEvent
}

// NewInjectionEvent schedules ev to fire at the given tick.
func NewInjectionEvent(at int64, ev *events.GameEvent) *InjectionEvent {
	return &InjectionEvent{time: at, Event: ev}
}

// Timestamp returns the scheduled time of the InjectionEvent.
func (e *InjectionEvent) Timestamp() int64 {
	return e.time
}

// Execute fires the injected event immediately, then drains whatever it
// enqueued.
func (e *InjectionEvent) Execute(sim *Simulator) {
	logrus.Infof("<< Injection: %s at %d ticks", e.Event.ID, e.time)
	sim.fire(e.Event, e.time)
	sim.flushPending(e.time)
}
