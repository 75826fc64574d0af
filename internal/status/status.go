// Package status defines the connection status shared by the link
// controller and everything that observes it.
package status

import "fmt"

// Status is the connection status of a robot link.
type Status uint8

const (
	// Disconnected means no attempt is in progress.
	Disconnected Status = iota

	// Connecting means the remote endpoint is fixed and the monitor is
	// polling, but no packet has promoted the link yet.
	Connecting

	// Connected means the peer has been heard from in this attempt.
	Connected
)

// String returns the wire form used in status events.
func (s Status) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Active reports whether s blocks a new connect attempt.
func (s Status) Active() bool {
	return s == Connecting || s == Connected
}

// Parse converts a wire form back into a Status.
func Parse(text string) (Status, error) {
	switch text {
	case "disconnected":
		return Disconnected, nil
	case "connecting":
		return Connecting, nil
	case "connected":
		return Connected, nil
	}
	return Disconnected, fmt.Errorf("unknown connection status %q", text)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
