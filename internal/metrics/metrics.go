// Package metrics provides lightweight, lock-free counters and gauges
// for tracking runtime statistics of a robot link.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a link controller.
// A nil Collector is safe to use: all methods become no-ops.
type Collector struct {
	attemptsTotal    atomic.Int64
	setupFailures    atomic.Int64
	packetsIn        atomic.Int64
	bytesIn          atomic.Int64
	livenessTimeouts atomic.Int64
	receiveErrors    atomic.Int64
	deliveryFailures atomic.Int64
	reconnects       atomic.Int64
	monitorsActive   atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastPacket   time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Attempt metrics ──────────────────────────────────────────────────

// AttemptStarted records a connect call that passed the active check.
func (c *Collector) AttemptStarted() {
	if c == nil {
		return
	}
	c.attemptsTotal.Add(1)
}

// SetupFailed records a connect call that failed while preparing the
// socket or binding the remote endpoint.
func (c *Collector) SetupFailed(msg string) {
	if c == nil {
		return
	}
	c.setupFailures.Add(1)
	c.RecordError(msg)
}

// Attempts returns the number of started connect attempts.
func (c *Collector) Attempts() int64 {
	if c == nil {
		return 0
	}
	return c.attemptsTotal.Load()
}

// SetupFailures returns the number of failed connect setups.
func (c *Collector) SetupFailures() int64 {
	if c == nil {
		return 0
	}
	return c.setupFailures.Load()
}

// Reconnect records an automatic reconnection attempt.
func (c *Collector) Reconnect() {
	if c == nil {
		return
	}
	c.reconnects.Add(1)
}

// Reconnects returns the total automatic reconnection count.
func (c *Collector) Reconnects() int64 {
	if c == nil {
		return 0
	}
	return c.reconnects.Load()
}

// ── Monitor metrics ──────────────────────────────────────────────────

// MonitorStarted increments the running monitor gauge.
func (c *Collector) MonitorStarted() {
	if c == nil {
		return
	}
	c.monitorsActive.Add(1)
}

// MonitorStopped decrements the running monitor gauge.
func (c *Collector) MonitorStopped() {
	if c == nil {
		return
	}
	c.monitorsActive.Add(-1)
}

// ActiveMonitors returns the number of monitor loops currently running.
func (c *Collector) ActiveMonitors() int64 {
	if c == nil {
		return 0
	}
	return c.monitorsActive.Load()
}

// ── I/O metrics ──────────────────────────────────────────────────────

// PacketReceived records one datagram of n bytes.
func (c *Collector) PacketReceived(n int) {
	if c == nil {
		return
	}
	c.packetsIn.Add(1)
	c.bytesIn.Add(int64(n))
	c.mu.Lock()
	c.lastPacket = time.Now()
	c.mu.Unlock()
}

// Packets returns the number of datagrams received.
func (c *Collector) Packets() int64 {
	if c == nil {
		return 0
	}
	return c.packetsIn.Load()
}

// TotalBytesIn returns total bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// ── Failure metrics ──────────────────────────────────────────────────

// LivenessTimeout records a link declared dead for silence.
func (c *Collector) LivenessTimeout() {
	if c == nil {
		return
	}
	c.livenessTimeouts.Add(1)
	c.RecordError("liveness timeout")
}

// LivenessTimeouts returns the number of silence-triggered disconnects.
func (c *Collector) LivenessTimeouts() int64 {
	if c == nil {
		return 0
	}
	return c.livenessTimeouts.Load()
}

// ReceiveError records a socket error seen by the monitor.
func (c *Collector) ReceiveError(msg string) {
	if c == nil {
		return
	}
	c.receiveErrors.Add(1)
	c.RecordError(msg)
}

// ReceiveErrors returns the number of receive failures.
func (c *Collector) ReceiveErrors() int64 {
	if c == nil {
		return 0
	}
	return c.receiveErrors.Load()
}

// DeliveryFailed records an event that no sink accepted.
func (c *Collector) DeliveryFailed(msg string) {
	if c == nil {
		return
	}
	c.deliveryFailures.Add(1)
	c.RecordError(msg)
}

// DeliveryFailures returns the number of failed event emissions.
func (c *Collector) DeliveryFailures() int64 {
	if c == nil {
		return 0
	}
	return c.deliveryFailures.Load()
}

// RecordError stores the time and message of the latest error.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	Attempts         int64  `json:"attempts"`
	SetupFailures    int64  `json:"setup_failures"`
	Reconnects       int64  `json:"reconnects"`
	ActiveMonitors   int64  `json:"active_monitors"`
	Packets          int64  `json:"packets"`
	BytesIn          int64  `json:"bytes_in"`
	LivenessTimeouts int64  `json:"liveness_timeouts"`
	ReceiveErrors    int64  `json:"receive_errors"`
	DeliveryFailures int64  `json:"delivery_failures"`
	LastPacket       string `json:"last_packet,omitempty"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:           time.Since(c.startTime).Truncate(time.Second).String(),
		Attempts:         c.attemptsTotal.Load(),
		SetupFailures:    c.setupFailures.Load(),
		Reconnects:       c.reconnects.Load(),
		ActiveMonitors:   c.monitorsActive.Load(),
		Packets:          c.packetsIn.Load(),
		BytesIn:          c.bytesIn.Load(),
		LivenessTimeouts: c.livenessTimeouts.Load(),
		ReceiveErrors:    c.receiveErrors.Load(),
		DeliveryFailures: c.deliveryFailures.Load(),
	}
	if !c.lastPacket.IsZero() {
		s.LastPacket = c.lastPacket.Format(time.RFC3339)
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
