package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	linkerr "botlink/internal/errors"
)

// nonblockWindow is how long a non-blocking Recv lets the runtime poller
// look for a queued datagram.  A read deadline already in the past
// fails before the socket is consulted, so the window must be positive.
const nonblockWindow = time.Millisecond

// UDPSocket is a Socket backed by a connected *net.UDPConn.
//
// The local port is reserved when the socket is created.  Go cannot
// connect an already-bound UDP socket, so Connect releases the
// reservation and immediately re-dials from the same local address.
type UDPSocket struct {
	mu          sync.Mutex
	conn        *net.UDPConn
	laddr       *net.UDPAddr
	raddr       *net.UDPAddr
	nonblocking bool
	closed      bool
	resolver    *net.Resolver
}

// ListenUDP binds local (for example "0.0.0.0:6969") and returns an
// unconnected socket.  A busy port yields a *errors.SocketConfigError.
func ListenUDP(local string) (*UDPSocket, error) {
	la, err := net.ResolveUDPAddr("udp4", local)
	if err != nil {
		return nil, linkerr.WrapSocket("bind", local, err)
	}
	conn, err := net.ListenUDP("udp4", la)
	if err != nil {
		return nil, linkerr.WrapSocket("bind", local, err)
	}
	return &UDPSocket{
		conn:     conn,
		laddr:    conn.LocalAddr().(*net.UDPAddr),
		resolver: net.DefaultResolver,
	}, nil
}

// SetNonblocking implements Socket.
func (s *UDPSocket) SetNonblocking() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return linkerr.WrapSocket("nonblock", s.laddr.String(), net.ErrClosed)
	}
	s.nonblocking = true
	return nil
}

// Connect implements Socket.  Resolution and dial failures become a
// *errors.ConnectError; losing the local port becomes a
// *errors.SocketConfigError.
func (s *UDPSocket) Connect(ctx context.Context, address string) error {
	raddr, err := s.resolve(ctx, address)
	if err != nil {
		return linkerr.WrapConnect(address, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return linkerr.WrapSocket("bind", s.laddr.String(), net.ErrClosed)
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.raddr = nil

	conn, err := net.DialUDP("udp4", s.laddr, raddr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return linkerr.WrapSocket("bind", s.laddr.String(), err)
		}
		return linkerr.WrapConnect(address, err)
	}
	s.conn = conn
	s.raddr = raddr
	return nil
}

func (s *UDPSocket) resolve(ctx context.Context, address string) (*net.UDPAddr, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q", portStr)
	}
	if ip := net.ParseIP(host); ip != nil {
		return &net.UDPAddr{IP: ip, Port: port}, nil
	}
	ips, err := s.resolver.LookupIP(ctx, "ip4", host)
	if err != nil {
		return nil, err
	}
	return &net.UDPAddr{IP: ips[0], Port: port}, nil
}

// Recv implements Socket.
func (s *UDPSocket) Recv(p []byte) (int, error) {
	s.mu.Lock()
	conn, raddr, nonblocking, closed := s.conn, s.raddr, s.nonblocking, s.closed
	s.mu.Unlock()

	if closed {
		return 0, net.ErrClosed
	}
	if conn == nil || raddr == nil {
		return 0, ErrNotConnected
	}

	var deadline time.Time
	if nonblocking {
		deadline = time.Now().Add(nonblockWindow)
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return 0, err
	}

	n, err := conn.Read(p)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return 0, ErrWouldBlock
		}
		return 0, err
	}
	return n, nil
}

// Send writes one datagram to the connected peer.  The link itself
// only receives; Send is what the peer simulator transmits with.
func (s *UDPSocket) Send(p []byte) (int, error) {
	s.mu.Lock()
	conn, closed := s.conn, s.closed
	connected := s.raddr != nil
	s.mu.Unlock()

	if closed {
		return 0, net.ErrClosed
	}
	if conn == nil || !connected {
		return 0, ErrNotConnected
	}
	return conn.Write(p)
}

// LocalAddr implements Socket.
func (s *UDPSocket) LocalAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.laddr
}

// RemoteAddr implements Socket.  It is nil until Connect succeeds.
func (s *UDPSocket) RemoteAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raddr == nil {
		return nil
	}
	return s.raddr
}

// Close implements Socket.  It is safe to call more than once.
func (s *UDPSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
