package events

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/babylon-sim/babylon/sim/world"
)

// GameEvent is a discrete societal occurrence: a protest, a reform, a
// crackdown. It carries the conditions under which it fires, the state
// changes it causes, the more severe events it can escalate into, and the
// follow-up events it always queues.
type GameEvent struct {
	ID          string
	Name        string
	Description string

	// Triggers gate the event: it fires when all of them hold.
	Triggers []Trigger
	// Effects are applied in order when the event fires.
	Effects []Effect
	// Escalations are candidate successor events; each is enqueued when any
	// of its own triggers holds at firing time.
	Escalations []*GameEvent
	// Consequences are always enqueued after the effects apply.
	Consequences []*GameEvent
}

// FiringResult summarizes what one firing did.
type FiringResult struct {
	EffectsApplied int
	EffectsSkipped int
	EscalatedTo    []string
	Consequences   []string
}

// Triggered reports whether all of the event's triggers hold.
func (e *GameEvent) Triggered(w *world.World) bool {
	return All(w, e.Triggers)
}

// Fire applies the event to the world. Effect failures are logged and
// skipped; a single bad target must not abort the run. Escalations whose
// triggers hold, and all consequences, are handed to enqueue rather than
// applied inline so the engine controls ordering.
func (e *GameEvent) Fire(w *world.World, enqueue func(*GameEvent)) FiringResult {
	logrus.Infof("event occurred: %s", e.Name)
	if e.Description != "" {
		logrus.Debug(e.Description)
	}

	var res FiringResult
	for _, ef := range e.Effects {
		if err := ef.Apply(w); err != nil {
			logrus.Warnf("event %s: skipping effect: %v", e.ID, err)
			res.EffectsSkipped++
			continue
		}
		res.EffectsApplied++
	}

	for _, esc := range e.Escalations {
		if Any(w, esc.Triggers) {
			enqueue(esc)
			res.EscalatedTo = append(res.EscalatedTo, esc.ID)
		}
	}
	for _, con := range e.Consequences {
		enqueue(con)
		res.Consequences = append(res.Consequences, con.ID)
	}
	return res
}

// Validate checks the event and its triggers, effects, and successors.
func (e *GameEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event must have an id")
	}
	for i, t := range e.Triggers {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("event %s trigger %d: %w", e.ID, i, err)
		}
	}
	for i, ef := range e.Effects {
		if err := ef.Validate(); err != nil {
			return fmt.Errorf("event %s effect %d: %w", e.ID, i, err)
		}
	}
	for _, esc := range e.Escalations {
		if err := esc.Validate(); err != nil {
			return err
		}
	}
	for _, con := range e.Consequences {
		if err := con.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (e *GameEvent) String() string {
	return fmt.Sprintf("GameEvent(%s: %s)", e.ID, e.Name)
}
