package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	linkerr "botlink/internal/errors"
	"botlink/internal/event"
	"botlink/internal/link"
	"botlink/internal/metrics"
	"botlink/internal/retry"
	"botlink/internal/transport"
	"botlink/util"
)

// WatchMode binds the link socket, connects to the robot and reports
// every link event until interrupted.  Without Reconnect it returns an
// error wrapping errors.ErrLinkLost as soon as the link is declared dead.
type WatchMode struct {
	Bind      string // local host:port
	Host      string
	Port      int
	CameraURL string

	Timeout      time.Duration
	PollInterval time.Duration
	Promote      bool

	Reconnect     bool
	MaxReconnects int            // 0 = unlimited
	Backoff       *retry.Backoff // delay policy between attempts; nil = retry.DefaultBackoff()

	CapturePath string
	Format      event.Format

	Logger  *util.Logger
	Metrics *metrics.Collector

	// Stdout defaults to os.Stdout when nil.
	Stdout io.Writer

	// Listen opens the link socket.  Defaults to transport.ListenUDP.
	Listen func(bind string) (transport.Socket, error)
}

func (m *WatchMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

func (m *WatchMode) listen(bind string) (transport.Socket, error) {
	if m.Listen != nil {
		return m.Listen(bind)
	}
	s, err := transport.ListenUDP(bind)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Run implements Mode.
func (m *WatchMode) Run(ctx context.Context) error {
	sink, closeSinks, err := m.sinks()
	if err != nil {
		return err
	}
	defer closeSinks()

	sock, err := m.listen(m.Bind)
	if err != nil {
		return err
	}
	m.Logger.Verbose("link socket bound to %s", sock.LocalAddr())
	if m.CameraURL != "" {
		m.Logger.Verbose("camera stream: %s", m.CameraURL)
	}

	ctrl := link.NewController(sock, sink, link.Options{
		Timeout:              m.Timeout,
		PollInterval:         m.PollInterval,
		PromoteOnFirstPacket: m.Promote,
		Logger:               m.Logger,
		Metrics:              m.Metrics,
	})
	defer ctrl.Close()

	if !m.Reconnect {
		err = m.session(ctx, ctrl)
	} else {
		err = m.backoff().Do(ctx, func(attempt int) error {
			if attempt > 1 {
				m.Metrics.Reconnect()
			}
			return m.session(ctx, ctrl)
		})
	}
	if ctx.Err() != nil {
		// Interrupted; Close publishes the final Disconnected.
		return nil
	}
	return err
}

// session runs one attempt from Connect until the link is declared
// dead, which it reports as an error wrapping errors.ErrLinkLost.
func (m *WatchMode) session(ctx context.Context, ctrl *link.Controller) error {
	if err := ctrl.Connect(ctx, m.Host, m.Port); err != nil {
		return err
	}

	snap, err := ctrl.Wait(ctx)
	if err != nil {
		return retry.Permanent(err)
	}

	cause := snap.Err
	if cause == nil {
		cause = errors.New(snap.Reason)
	}
	return fmt.Errorf("%w: %w", linkerr.ErrLinkLost, cause)
}

// backoff returns the reconnect policy.  Lost links and retryable setup
// failures are retried; anything else ends the run.
func (m *WatchMode) backoff() *retry.Backoff {
	b := retry.DefaultBackoff()
	if m.Backoff != nil {
		cp := *m.Backoff
		b = &cp
	}
	if m.MaxReconnects > 0 {
		b.MaxAttempts = m.MaxReconnects + 1
	}
	b.Retryable = func(err error) bool {
		return errors.Is(err, linkerr.ErrLinkLost) || linkerr.IsRetryable(err)
	}
	b.OnRetry = func(attempt int, err error, wait time.Duration) {
		m.Logger.Warn("%v (reconnect %d in %v)", err, attempt, wait.Truncate(time.Millisecond))
	}
	return b
}

// sinks assembles the event pipeline: stdout, the optional capture
// file and, for JSON output, a human-readable trail on the logger.
func (m *WatchMode) sinks() (event.Sink, func(), error) {
	sinks := event.Multi{event.NewWriterSink(m.stdout(), m.Format)}
	if m.Format == event.FormatJSON {
		sinks = append(sinks, event.LogSink{Logger: m.Logger})
	}

	if m.CapturePath == "" {
		return sinks, func() {}, nil
	}
	capture, err := event.NewCaptureSink(m.CapturePath)
	if err != nil {
		return nil, nil, err
	}
	m.Logger.Verbose("capturing events to %s", m.CapturePath)
	sinks = append(sinks, capture)

	return sinks, func() {
		if err := capture.Close(); err != nil {
			m.Logger.Error("closing capture: %v", err)
		}
	}, nil
}
