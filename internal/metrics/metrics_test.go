package metrics

import (
	"encoding/json"
	"testing"
)

func TestCollector_Attempts(t *testing.T) {
	c := New()

	c.AttemptStarted()
	c.AttemptStarted()
	c.SetupFailed("bind: address already in use")

	if c.Attempts() != 2 {
		t.Errorf("attempts = %d, want 2", c.Attempts())
	}
	if c.SetupFailures() != 1 {
		t.Errorf("setup failures = %d, want 1", c.SetupFailures())
	}
}

func TestCollector_Monitors(t *testing.T) {
	c := New()

	c.MonitorStarted()
	c.MonitorStarted()
	c.MonitorStopped()
	if c.ActiveMonitors() != 1 {
		t.Errorf("active = %d, want 1", c.ActiveMonitors())
	}
}

func TestCollector_Packets(t *testing.T) {
	c := New()

	c.PacketReceived(100)
	c.PacketReceived(28)

	if c.Packets() != 2 {
		t.Errorf("packets = %d, want 2", c.Packets())
	}
	if c.TotalBytesIn() != 128 {
		t.Errorf("bytes in = %d, want 128", c.TotalBytesIn())
	}
	if c.Snapshot().LastPacket == "" {
		t.Error("last packet time should be set")
	}
}

func TestCollector_Failures(t *testing.T) {
	c := New()

	c.LivenessTimeout()
	c.ReceiveError("read: connection refused")
	c.DeliveryFailed("deliver data_received: broken pipe")
	c.Reconnect()

	if c.LivenessTimeouts() != 1 {
		t.Errorf("liveness timeouts = %d, want 1", c.LivenessTimeouts())
	}
	if c.ReceiveErrors() != 1 {
		t.Errorf("receive errors = %d, want 1", c.ReceiveErrors())
	}
	if c.DeliveryFailures() != 1 {
		t.Errorf("delivery failures = %d, want 1", c.DeliveryFailures())
	}
	if c.Reconnects() != 1 {
		t.Errorf("reconnects = %d, want 1", c.Reconnects())
	}

	snap := c.Snapshot()
	if snap.LastErrorMessage != "deliver data_received: broken pipe" {
		t.Errorf("last error = %q", snap.LastErrorMessage)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector

	c.AttemptStarted()
	c.SetupFailed("x")
	c.MonitorStarted()
	c.MonitorStopped()
	c.PacketReceived(10)
	c.LivenessTimeout()
	c.ReceiveError("x")
	c.DeliveryFailed("x")
	c.Reconnect()

	if c.Attempts() != 0 || c.Packets() != 0 || c.ActiveMonitors() != 0 {
		t.Error("nil collector should report zero")
	}
	if (c.Snapshot() != Snapshot{}) {
		t.Error("nil collector snapshot should be empty")
	}
}

func TestCollector_JSON(t *testing.T) {
	c := New()
	c.AttemptStarted()
	c.PacketReceived(64)

	var snap Snapshot
	if err := json.Unmarshal([]byte(c.JSON()), &snap); err != nil {
		t.Fatalf("JSON output is not valid: %v", err)
	}
	if snap.Attempts != 1 || snap.BytesIn != 64 {
		t.Errorf("snapshot = %+v", snap)
	}
}
