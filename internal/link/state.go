package link

import (
	"context"
	"time"

	"botlink/internal/status"
	"botlink/internal/transport"
)

// state is the single record shared by the controller and its monitor.
// Every field is guarded by Controller.mu.
type state struct {
	status     status.Status
	socket     transport.Socket
	lastPacket time.Time

	// gen increments on every accepted connect and every teardown.  A
	// monitor only mutates state while gen still equals the value it
	// was started with.
	gen       uint64
	attemptID string
	remote    string
	reason    string // why the last attempt ended
	err       error  // cause behind reason, nil after a requested disconnect

	// announced is set once the Connecting event of the current attempt
	// has been published.
	announced bool

	// stop and done belong to the monitor of the current generation.
	stop context.CancelFunc
	done chan struct{}

	closed bool
}

// Snapshot is a consistent copy of the link state.
type Snapshot struct {
	Status     status.Status
	AttemptID  string
	Remote     string
	LastPacket time.Time
	Reason     string
	Err        error
}

// view is the read-only mirror of state that Status, Snapshot and Wait
// load without taking Controller.mu.  It is replaced, never mutated.
type view struct {
	snap Snapshot
	done chan struct{}
}

func (s *state) snapshot() Snapshot {
	return Snapshot{
		Status:     s.status,
		AttemptID:  s.attemptID,
		Remote:     s.remote,
		LastPacket: s.lastPacket,
		Reason:     s.reason,
		Err:        s.err,
	}
}
