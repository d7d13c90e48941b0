// Implements the pending-event Queue, which holds game events waiting to be
// fired. Events are enqueued when their triggers pass, when an escalation
// path activates, or as consequences of another event.

package events

import (
	"fmt"
	"strings"
)

// Queue is a FIFO of game events awaiting processing. The engine drains it
// once per tick; escalations and consequences enqueued during a drain are
// processed in the same tick.
type Queue struct {
	queue []*GameEvent
}

// Enqueue adds an event to the back of the queue.
func (q *Queue) Enqueue(e *GameEvent) {
	q.queue = append(q.queue, e)
}

// Dequeue removes and returns the event at the front of the queue.
// Returns nil if the queue is empty.
func (q *Queue) Dequeue() *GameEvent {
	if len(q.queue) == 0 {
		return nil
	}
	e := q.queue[0]
	q.queue = q.queue[1:]
	return e
}

// Peek returns the front event without removing it, or nil when empty.
func (q *Queue) Peek() *GameEvent {
	if len(q.queue) == 0 {
		return nil
	}
	return q.queue[0]
}

// PrependFront inserts an event at the front of the queue. Used when an
// urgent escalation must preempt already-queued events.
func (q *Queue) PrependFront(e *GameEvent) {
	if e == nil {
		panic("PrependFront: event must not be nil")
	}
	q.queue = append([]*GameEvent{e}, q.queue...)
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.queue)
}

func (q *Queue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, e := range q.queue {
		sb.WriteString(fmt.Sprint(e))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}
