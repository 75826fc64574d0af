// Package event carries link notifications from the controller and its
// liveness monitor to whatever observes the link: a console, a capture
// file, a test recorder.
//
// Two kinds of event exist.  A status event (NameConnectionUpdate)
// carries the status the link has just moved to.  A data event
// (NameDataReceived) carries the raw bytes of one datagram, unframed
// and unparsed.
//
// # Delivery
//
// Sinks are called synchronously and in mutation order.  A Sink must
// not call back into the link controller's mutating methods.  A failed
// Emit is logged and counted by the caller; it never stops the link.
package event

import (
	"time"

	"botlink/internal/status"
)

// Event names as published to observers.
const (
	NameConnectionUpdate = "state_connection_update"
	NameDataReceived     = "data_received"
)

// Reasons attached to terminal status events.
const (
	ReasonLivenessTimeout = "liveness timeout"
	ReasonRequested       = "disconnect requested"
)

// Event is one notification.  CBOR encoding uses integer keys.
type Event struct {
	// Name is NameConnectionUpdate or NameDataReceived.
	Name string `cbor:"1,keyasint" json:"event"`

	// Time the event was produced.
	Time time.Time `cbor:"2,keyasint" json:"time"`

	// AttemptID identifies the connect attempt (UUID).
	AttemptID string `cbor:"3,keyasint,omitempty" json:"attempt_id,omitempty"`

	// Status is the new status for status events and the status at
	// receipt time for data events.
	Status status.Status `cbor:"4,keyasint" json:"status"`

	// Data is the datagram payload of a data event.
	Data []byte `cbor:"5,keyasint,omitempty" json:"data,omitempty"`

	// Reason explains a transition to Disconnected.
	Reason string `cbor:"6,keyasint,omitempty" json:"reason,omitempty"`

	// Remote is the peer address of the attempt.
	Remote string `cbor:"7,keyasint,omitempty" json:"remote,omitempty"`
}

// StatusUpdate builds a status event.
func StatusUpdate(attemptID, remote string, s status.Status, reason string) Event {
	return Event{
		Name:      NameConnectionUpdate,
		Time:      time.Now(),
		AttemptID: attemptID,
		Status:    s,
		Reason:    reason,
		Remote:    remote,
	}
}

// DataReceived builds a data event.  data is retained, not copied.
func DataReceived(attemptID, remote string, s status.Status, data []byte) Event {
	return Event{
		Name:      NameDataReceived,
		Time:      time.Now(),
		AttemptID: attemptID,
		Status:    s,
		Data:      data,
		Remote:    remote,
	}
}

// IsStatus reports whether e is a status event.
func (e Event) IsStatus() bool { return e.Name == NameConnectionUpdate }
