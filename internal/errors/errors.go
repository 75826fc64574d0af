// Package errors provides domain-specific error types for botlink.
//
// Setup failures are returned synchronously to the caller of Connect as
// one of the structured types below.  Failures detected by the liveness
// monitor are never returned; they surface as status events, and the
// types here only describe them in logs and event reasons.
package errors

import (
	"errors"
	"fmt"
	"net"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrAlreadyActive   = errors.New("already connecting or connected")
	ErrClosed          = errors.New("link controller is closed")
	ErrLivenessTimeout = errors.New("liveness timeout")
	ErrLinkLost        = errors.New("link lost")
	ErrAborted         = errors.New("connect attempt aborted")
)

// ── Structured error types ───────────────────────────────────────────

// SocketConfigError reports a failure to prepare the local socket.
type SocketConfigError struct {
	Op   string // "nonblock" or "bind"
	Addr string // local address, if any
	Err  error
}

func (e *SocketConfigError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("socket %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("socket %s %s: %v", e.Op, e.Addr, e.Err)
}

func (e *SocketConfigError) Unwrap() error { return e.Err }

// ConnectError reports a failure to fix the socket's remote endpoint.
type ConnectError struct {
	Addr      string
	Err       error
	Retryable bool
}

func (e *ConnectError) Error() string {
	s := fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
	if e.Retryable {
		s += " (retryable)"
	}
	return s
}

func (e *ConnectError) Unwrap() error { return e.Err }

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Op        string // operation: "read", "write"
	Addr      string // network address involved
	Err       error  // underlying error
	Retryable bool   // whether the caller should retry
}

func (e *NetworkError) Error() string {
	s := fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	if e.Retryable {
		s += " (retryable)"
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DeliveryError reports that an event could not be published.
type DeliveryError struct {
	Event string
	Err   error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver %s: %v", e.Event, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError, automatically detecting retryability
// from the underlying error.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{
		Op:        op,
		Addr:      addr,
		Err:       err,
		Retryable: classifyRetryable(err),
	}
}

// WrapConnect creates a ConnectError.
func WrapConnect(addr string, err error) *ConnectError {
	return &ConnectError{Addr: addr, Err: err, Retryable: classifyRetryable(err)}
}

// WrapSocket creates a SocketConfigError.
func WrapSocket(op, addr string, err error) *SocketConfigError {
	return &SocketConfigError{Op: op, Addr: addr, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Retryable
	}
	var ce *ConnectError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	// A busy local port usually frees up once the previous owner exits.
	var se *SocketConfigError
	if errors.As(err, &se) {
		return se.Op == "bind"
	}
	return classifyRetryable(err)
}

// IsSetupError reports whether err came from socket preparation or
// endpoint binding inside Connect.
func IsSetupError(err error) bool {
	var se *SocketConfigError
	var ce *ConnectError
	return errors.As(err, &se) || errors.As(err, &ce)
}

// classifyRetryable inspects standard library error types.
func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Temporary() //nolint:staticcheck // Temporary is deprecated but still useful
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() //nolint:staticcheck
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
