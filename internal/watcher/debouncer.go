package watcher

import (
	"sync"
	"time"
)

// BatchDebouncer collects events until none has arrived for the configured
// delay, then signals Ready. Events for the same path are coalesced; the
// latest one is kept at the position of the first. The debouncer never calls
// back: the consumer takes the batch from its own goroutine.
type BatchDebouncer struct {
	delay time.Duration
	ready chan struct{}

	mu     sync.Mutex
	timer  *time.Timer
	gen    uint64
	events []Event
	index  map[string]int
}

// NewBatchDebouncer creates a new batch debouncer
func NewBatchDebouncer(delay time.Duration) *BatchDebouncer {
	return &BatchDebouncer{
		delay: delay,
		ready: make(chan struct{}, 1),
		index: make(map[string]int),
	}
}

// Add adds an event to the batch and restarts the quiet period.
func (b *BatchDebouncer) Add(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i, ok := b.index[event.Path]; ok {
		b.events[i] = event
	} else {
		b.index[event.Path] = len(b.events)
		b.events = append(b.events, event)
	}

	if b.timer != nil {
		b.timer.Stop()
	}
	b.gen++
	gen := b.gen
	b.timer = time.AfterFunc(b.delay, func() { b.expire(gen) })
}

// expire ends the quiet period started by generation gen. Timers superseded
// by a later Add are ignored.
func (b *BatchDebouncer) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	b.mu.Unlock()

	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Ready receives a value when a batch may be available to Take.
func (b *BatchDebouncer) Ready() <-chan struct{} {
	return b.ready
}

// Take returns and clears the batch once its quiet period is over. It returns
// nil while events are still arriving or when nothing is pending.
func (b *BatchDebouncer) Take() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil || len(b.events) == 0 {
		return nil
	}
	events := b.events
	b.events = nil
	b.index = make(map[string]int)
	return events
}

// Cancel drops pending events.
func (b *BatchDebouncer) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.events = nil
	b.index = make(map[string]int)
}
