// Package link manages the UDP link to a robot: a controller that
// starts connect attempts and a liveness monitor per attempt that
// drains the socket and declares the link dead after a period of
// silence.
//
// # Status
//
// Every attempt moves Disconnected → Connecting → {Connected |
// Disconnected}.  A connect while Connecting or Connected is rejected
// with errors.ErrAlreadyActive.  Connect succeeding only means the
// attempt started; reachability is reported later through events.
//
// # Locking
//
// One mutex guards the whole state record.  Status changes take the
// emission mutex before releasing the state mutex, so events reach the
// sink in mutation order.  Lock order is always state, then emission.
// Every change under the state mutex also republishes an immutable
// view, and Status, Snapshot and Wait read only that view.  A sink may
// therefore call them while other goroutines disconnect, but must not
// call Connect, Disconnect or Close.
package link

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	linkerr "botlink/internal/errors"
	"botlink/internal/event"
	"botlink/internal/metrics"
	"botlink/internal/status"
	"botlink/internal/transport"
	"botlink/util"
)

const (
	// DefaultTimeout is the silence after which a link is declared dead.
	DefaultTimeout = 3 * time.Second

	// DefaultPollInterval is the monitor's sleep between receive attempts.
	DefaultPollInterval = 10 * time.Millisecond
)

// Options tunes a Controller.  Zero values select the defaults.
type Options struct {
	Timeout      time.Duration
	PollInterval time.Duration

	// PromoteOnFirstPacket moves an attempt from Connecting to Connected
	// when its first datagram arrives.  When false the attempt stays
	// Connecting until it fails.
	PromoteOnFirstPacket bool

	Logger  *util.Logger
	Metrics *metrics.Collector
}

// Controller owns the link state and at most one running monitor.
type Controller struct {
	mu   sync.Mutex
	st   state
	view atomic.Pointer[view]

	emitMu sync.Mutex
	sink   event.Sink

	timeout      time.Duration
	pollInterval time.Duration
	promote      bool
	logger       *util.Logger
	metrics      *metrics.Collector
}

// attempt identifies the connect attempt a monitor belongs to.
type attempt struct {
	gen    uint64
	id     string
	remote string
}

// NewController returns a Disconnected controller using sock for every
// attempt.  A nil sink discards events.
func NewController(sock transport.Socket, sink event.Sink, opts Options) *Controller {
	if sink == nil {
		sink = event.Discard
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	c := &Controller{
		st:           state{status: status.Disconnected, socket: sock},
		sink:         sink,
		timeout:      opts.Timeout,
		pollInterval: opts.PollInterval,
		promote:      opts.PromoteOnFirstPacket,
		logger:       opts.Logger.Named("link"),
		metrics:      opts.Metrics,
	}
	c.publishLocked()
	return c
}

// publishLocked mirrors c.st into the view.  c.mu must be held.
func (c *Controller) publishLocked() {
	c.view.Store(&view{snap: c.st.snapshot(), done: c.st.done})
}

// Connect starts an attempt towards address:port and returns as soon
// as the monitor is running.
func (c *Controller) Connect(ctx context.Context, address string, port int) error {
	if err := util.ValidateHost(address); err != nil {
		return &linkerr.ConfigError{Field: "address", Value: address, Message: err.Error()}
	}
	if err := util.ValidatePort(port); err != nil {
		return &linkerr.ConfigError{Field: "port", Value: port, Message: err.Error()}
	}
	remote := util.FormatAddr(address, port)

	c.mu.Lock()
	if c.st.closed {
		c.mu.Unlock()
		return linkerr.ErrClosed
	}
	if c.st.status.Active() {
		cur := c.st.status
		c.mu.Unlock()
		c.logger.Verbose("connect %s rejected: link is %s", remote, cur)
		return linkerr.ErrAlreadyActive
	}
	c.st.status = status.Connecting
	c.st.gen++
	a := attempt{gen: c.st.gen, id: uuid.NewString(), remote: remote}
	c.st.attemptID = a.id
	c.st.remote = remote
	c.st.reason = ""
	c.st.err = nil
	c.st.announced = false
	sock := c.st.socket
	prevStop, prevDone := c.st.stop, c.st.done
	c.st.stop, c.st.done = nil, nil
	c.publishLocked()
	c.mu.Unlock()

	c.metrics.AttemptStarted()

	if prevStop != nil {
		prevStop()
		<-prevDone
	}

	if err := sock.SetNonblocking(); err != nil {
		if !linkerr.IsSetupError(err) {
			err = linkerr.WrapSocket("nonblock", "", err)
		}
		return c.abortSetup(a, err)
	}
	if err := sock.Connect(ctx, remote); err != nil {
		if !linkerr.IsSetupError(err) {
			err = linkerr.WrapConnect(remote, err)
		}
		return c.abortSetup(a, err)
	}

	c.mu.Lock()
	if c.st.gen != a.gen {
		// Disconnect or Close ran while the socket was being set up.
		c.mu.Unlock()
		return linkerr.ErrAborted
	}
	ctxMon, stop := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.st.stop, c.st.done = stop, done
	c.st.lastPacket = time.Now()
	c.st.announced = true
	c.publishLocked()
	c.emitMu.Lock()
	c.mu.Unlock()
	c.deliver(event.StatusUpdate(a.id, a.remote, status.Connecting, ""))
	c.emitMu.Unlock()

	c.logger.Info("connecting to %s (attempt %s)", remote, a.id)
	c.metrics.MonitorStarted()
	go c.monitor(ctxMon, a, done)
	return nil
}

// abortSetup reverts a failed attempt to Disconnected.  No event is
// published: observers never saw the attempt's Connecting.
func (c *Controller) abortSetup(a attempt, err error) error {
	c.mu.Lock()
	if c.st.gen == a.gen {
		c.st.status = status.Disconnected
		c.st.reason = err.Error()
		c.st.err = err
		c.publishLocked()
	}
	c.mu.Unlock()

	c.metrics.SetupFailed(err.Error())
	c.logger.Error("%v", err)
	return err
}

// Disconnect ends the current attempt, if any, and retires its monitor.
// It is a no-op while Disconnected.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	if !c.st.status.Active() {
		c.mu.Unlock()
		return
	}
	c.st.status = status.Disconnected
	c.st.gen++
	c.st.reason = event.ReasonRequested
	c.st.err = nil
	if c.st.stop != nil {
		c.st.stop()
	}
	c.publishLocked()
	if !c.st.announced {
		c.mu.Unlock()
		return
	}
	id, remote := c.st.attemptID, c.st.remote
	c.emitMu.Lock()
	c.mu.Unlock()
	c.deliver(event.StatusUpdate(id, remote, status.Disconnected, event.ReasonRequested))
	c.emitMu.Unlock()

	c.logger.Info("disconnected from %s", remote)
}

// Close disconnects, waits for the monitor to exit and closes the
// socket.  Connect fails with errors.ErrClosed afterwards.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.st.closed {
		c.mu.Unlock()
		return nil
	}
	c.st.closed = true
	c.mu.Unlock()

	c.Disconnect()

	c.mu.Lock()
	done, sock := c.st.done, c.st.socket
	c.mu.Unlock()
	if done != nil {
		<-done
	}
	return sock.Close()
}

// Status returns the current status.  It never blocks.
func (c *Controller) Status() status.Status {
	return c.view.Load().snap.Status
}

// Snapshot returns a consistent copy of the link state.  It never blocks.
func (c *Controller) Snapshot() Snapshot {
	return c.view.Load().snap
}

// Wait blocks until the monitor of the latest attempt exits or ctx is
// done, and returns the state at that point.
func (c *Controller) Wait(ctx context.Context) (Snapshot, error) {
	done := c.view.Load().done
	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return c.Snapshot(), ctx.Err()
		}
	}
	return c.Snapshot(), nil
}

// deliver publishes e.  Failures, panics included, are logged and
// counted but never propagated.  emitMu must be held.
func (c *Controller) deliver(e event.Event) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("sink panicked: %v", r)
			}
		}()
		return c.sink.Emit(e)
	}()
	if err != nil {
		derr := &linkerr.DeliveryError{Event: e.Name, Err: err}
		c.metrics.DeliveryFailed(derr.Error())
		c.logger.Error("%v", derr)
	}
}
