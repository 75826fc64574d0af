// Package transport provides the datagram socket a robot link runs
// over.  A Socket is bound to a fixed local port, pointed at exactly one
// remote peer with Connect, and drained by the liveness monitor with a
// receive that never waits for data.
package transport

import (
	"context"
	"errors"
	"net"
)

// ErrWouldBlock is returned by Socket.Recv in non-blocking mode when no
// datagram is queued.
var ErrWouldBlock = errors.New("operation would block")

// ErrNotConnected is returned by Recv before a successful Connect.
var ErrNotConnected = errors.New("socket has no remote endpoint")

// Socket is the handle shared by the link controller and its monitor.
type Socket interface {
	// SetNonblocking switches Recv to return ErrWouldBlock instead of
	// waiting for data.
	SetNonblocking() error

	// Connect fixes the remote endpoint.  Only datagrams from that
	// endpoint are received afterwards.  No packet is exchanged.
	Connect(ctx context.Context, address string) error

	// Recv reads one datagram into p.
	Recv(p []byte) (int, error)

	LocalAddr() net.Addr
	RemoteAddr() net.Addr

	// Close releases the local port.
	Close() error
}
