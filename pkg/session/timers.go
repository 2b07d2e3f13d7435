package session

import (
	"sync"
	"time"
)

// timerRegistry tracks pending timers so a closed session never fires a
// callback against torn-down state.
type timerRegistry struct {
	mu     sync.Mutex
	next   int
	timers map[int]*time.Timer
	closed bool
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{timers: make(map[int]*time.Timer)}
}

// after schedules fn once d elapses. Returns false when the registry is
// already closed.
func (r *timerRegistry) after(d time.Duration, fn func()) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}

	id := r.next
	r.next++

	r.timers[id] = time.AfterFunc(d, func() {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return
		}
		delete(r.timers, id)
		r.mu.Unlock()
		fn()
	})
	return true
}

// close stops every pending timer. Callbacks that have not started will not
// run; the registry accepts no further work.
func (r *timerRegistry) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for id, timer := range r.timers {
		timer.Stop()
		delete(r.timers, id)
	}
}
