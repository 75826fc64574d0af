package event

import (
	"sync"

	"botlink/internal/status"
)

// Recorder keeps every event it receives.  It is meant for tests and
// for embedding applications that poll rather than subscribe.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Emit implements Sink.
func (r *Recorder) Emit(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Statuses returns the payloads of the recorded status events in order.
func (r *Recorder) Statuses() []status.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []status.Status
	for _, e := range r.events {
		if e.IsStatus() {
			out = append(out, e.Status)
		}
	}
	return out
}

// Data returns the payloads of the recorded data events in order.
func (r *Recorder) Data() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out [][]byte
	for _, e := range r.events {
		if !e.IsStatus() {
			out = append(out, e.Data)
		}
	}
	return out
}

// Last returns the most recent event and whether there was one.
func (r *Recorder) Last() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return Event{}, false
	}
	return r.events[len(r.events)-1], true
}

// Reset forgets everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

var _ Sink = (*Recorder)(nil)
