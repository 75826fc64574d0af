package link

import (
	"context"
	"errors"
	"time"

	linkerr "botlink/internal/errors"
	"botlink/internal/event"
	"botlink/internal/status"
	"botlink/internal/transport"
	"botlink/util"
)

// monitor drains the socket of attempt a until the link fails or ctx
// is cancelled.  It closes done on exit.
func (c *Controller) monitor(ctx context.Context, a attempt, done chan struct{}) {
	defer close(done)
	defer c.metrics.MonitorStopped()

	buf := util.GetBuf()
	defer util.PutBuf(buf)

	c.logger.Debug("monitor %s: polling every %v, timeout %v", a.id, c.pollInterval, c.timeout)

	for {
		if ctx.Err() != nil {
			c.logger.Debug("monitor %s: retired", a.id)
			return
		}
		if !c.poll(a, *buf) {
			return
		}
		if !sleepCtx(ctx, c.pollInterval) {
			c.logger.Debug("monitor %s: retired", a.id)
			return
		}
	}
}

// poll runs one receive attempt.  It returns false when the monitor
// must exit, either because the attempt is no longer current or
// because the link has just been declared dead.
func (c *Controller) poll(a attempt, buf []byte) bool {
	c.mu.Lock()
	if c.st.gen != a.gen {
		c.mu.Unlock()
		return false
	}

	n, err := c.st.socket.Recv(buf)
	now := time.Now()

	switch {
	case err == nil:
		c.st.lastPacket = now
		promoted := false
		if c.promote && c.st.status == status.Connecting {
			c.st.status = status.Connected
			promoted = true
		}
		cur := c.st.status
		payload := make([]byte, n)
		copy(payload, buf[:n])
		c.publishLocked()

		c.emitMu.Lock()
		c.mu.Unlock()
		c.metrics.PacketReceived(n)
		if promoted {
			c.deliver(event.StatusUpdate(a.id, a.remote, status.Connected, ""))
		}
		c.deliver(event.DataReceived(a.id, a.remote, cur, payload))
		c.emitMu.Unlock()

		if promoted {
			c.logger.Info("connected to %s", a.remote)
		}
		return true

	case errors.Is(err, transport.ErrWouldBlock):
		silence := now.Sub(c.st.lastPacket)
		if silence <= c.timeout {
			c.mu.Unlock()
			return true
		}
		c.metrics.LivenessTimeout()
		c.failLocked(a, event.ReasonLivenessTimeout, linkerr.ErrLivenessTimeout)
		c.logger.Warn("no data from %s for %v", a.remote, silence.Truncate(time.Millisecond))
		return false

	default:
		rerr := linkerr.Wrap("read", a.remote, err)
		c.metrics.ReceiveError(rerr.Error())
		c.failLocked(a, "receive error: "+rerr.Error(), rerr)
		c.logger.Error("%v", rerr)
		return false
	}
}

// failLocked moves attempt a to Disconnected and publishes the change.
// c.mu must be held on entry; it is released before return.
func (c *Controller) failLocked(a attempt, reason string, cause error) {
	c.st.status = status.Disconnected
	c.st.reason = reason
	c.st.err = cause
	c.publishLocked()

	c.emitMu.Lock()
	c.mu.Unlock()
	c.deliver(event.StatusUpdate(a.id, a.remote, status.Disconnected, reason))
	c.emitMu.Unlock()
}

// sleepCtx sleeps for d and reports whether it slept the full duration
// rather than being interrupted by ctx.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
