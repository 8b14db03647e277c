package input

import "sync"

// Source hands pending events to the simulator once per frame.
type Source interface {
	Drain() []Event
}

// DefaultQueueSize bounds a Queue built with a non-positive size.
const DefaultQueueSize = 256

// Queue buffers events pushed from another goroutine. When full the oldest
// event is dropped.
type Queue struct {
	mu      sync.Mutex
	events  []Event
	limit   int
	dropped int
}

// NewQueue returns a queue holding at most size events.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{limit: size}
}

// Push appends an event.
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) >= q.limit {
		q.events = q.events[1:]
		q.dropped++
	}
	q.events = append(q.events, e)
}

// Drain returns and clears the buffered events in arrival order.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Dropped reports how many events were discarded on overflow.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Sources drains several sources in order.
type Sources []Source

// Drain concatenates the events of every source.
func (s Sources) Drain() []Event {
	var out []Event
	for _, src := range s {
		if src == nil {
			continue
		}
		out = append(out, src.Drain()...)
	}
	return out
}
