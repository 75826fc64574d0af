package core

import (
	"context"
	"fmt"
	"time"

	"botlink/internal/transport"
	"botlink/util"
)

// PeerMode stands in for the robot: it binds Bind, points at Target and
// sends one datagram every Interval.  Each payload carries a sequence
// number so the receiving side can spot loss.
type PeerMode struct {
	Bind     string
	Target   string
	Interval time.Duration
	Payload  []byte
	Count    int // 0 = until ctx is done
	Logger   *util.Logger
}

// Run implements Mode.
func (m *PeerMode) Run(ctx context.Context) error {
	sock, err := transport.ListenUDP(m.Bind)
	if err != nil {
		return err
	}
	defer sock.Close()

	if err := sock.Connect(ctx, m.Target); err != nil {
		return err
	}
	m.Logger.Verbose("peer %s sending to %s every %v", sock.LocalAddr(), m.Target, m.Interval)

	ticker := time.NewTicker(m.Interval)
	defer ticker.Stop()

	for seq := 1; ; seq++ {
		msg := fmt.Appendf(append([]byte(nil), m.Payload...), " %d", seq)
		if _, err := sock.Send(msg); err != nil {
			// A console that is not up yet answers with ICMP
			// unreachable; keep sending until it appears.
			m.Logger.Debug("send %d: %v", seq, err)
		} else {
			m.Logger.Debug("sent %d bytes (seq %d)", len(msg), seq)
		}

		if m.Count > 0 && seq >= m.Count {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	m.Logger.Verbose("peer done after %d datagrams", m.Count)
	return nil
}
