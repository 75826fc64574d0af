package event

import "errors"

// Sink receives link events.  Implementations must be safe for use
// from the controller's goroutine and the monitor's goroutine, though
// never concurrently: the controller serialises emissions.
type Sink interface {
	Emit(e Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event) error

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) error { return f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) error { return nil })

// Multi fans events out to several sinks.  Every sink sees every event;
// the errors of the ones that fail are joined.
type Multi []Sink

// Emit implements Sink.
func (m Multi) Emit(e Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compile-time interface satisfaction checks.
var (
	_ Sink = SinkFunc(nil)
	_ Sink = Multi(nil)
)
