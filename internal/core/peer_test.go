package core

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botlink/util"
)

func TestPeerMode_SendsSequencedDatagrams(t *testing.T) {
	console, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer console.Close()

	peer := &PeerMode{
		Bind:     "127.0.0.1:0",
		Target:   console.LocalAddr().String(),
		Interval: 5 * time.Millisecond,
		Payload:  []byte("hello"),
		Count:    3,
		Logger:   util.NewLogger(0),
	}
	require.NoError(t, peer.Run(context.Background()))

	require.NoError(t, console.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64)
	for i := 1; i <= 3; i++ {
		n, err := console.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("hello %d", i), string(buf[:n]))
	}
}

func TestPeerMode_StopsOnCancel(t *testing.T) {
	console, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer console.Close()

	peer := &PeerMode{
		Bind:     "127.0.0.1:0",
		Target:   console.LocalAddr().String(),
		Interval: 5 * time.Millisecond,
		Payload:  []byte("x"),
		Logger:   util.NewLogger(0),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- peer.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("peer did not stop")
	}
}

func TestPeerMode_BadTarget(t *testing.T) {
	peer := &PeerMode{
		Bind:     "127.0.0.1:0",
		Target:   "no-port",
		Interval: time.Millisecond,
		Logger:   util.NewLogger(0),
	}
	assert.Error(t, peer.Run(context.Background()))
}
