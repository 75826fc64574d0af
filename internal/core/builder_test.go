package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botlink/config"
	"botlink/internal/event"
	"botlink/internal/metrics"
	"botlink/util"
)

// TestBuild_Watch verifies that Build produces a WatchMode carrying the
// link settings for the default configuration.
func TestBuild_Watch(t *testing.T) {
	cfg := config.New()
	cfg.Output = "json"
	cfg.Promote = true
	m := metrics.New()

	mode, err := Build(cfg, util.NewLogger(0), m)
	require.NoError(t, err)

	w, ok := mode.(*WatchMode)
	require.True(t, ok, "expected *WatchMode, got %T", mode)
	assert.Equal(t, "0.0.0.0:6969", w.Bind)
	assert.Equal(t, "10.66.66.5", w.Host)
	assert.Equal(t, 6969, w.Port)
	assert.Equal(t, 3*time.Second, w.Timeout)
	assert.True(t, w.Promote)
	assert.Equal(t, event.FormatJSON, w.Format)
	assert.Same(t, m, w.Metrics)
	assert.Nil(t, w.Backoff)
}

func TestBuild_WatchReconnect(t *testing.T) {
	cfg := config.New()
	cfg.Reconnect = true
	cfg.MaxReconnects = 3

	mode, err := Build(cfg, util.NewLogger(0), nil)
	require.NoError(t, err)

	w := mode.(*WatchMode)
	assert.True(t, w.Reconnect)
	assert.Equal(t, 3, w.MaxReconnects)
	require.NotNil(t, w.Backoff)
}

// TestBuild_Peer verifies the peer simulator sends to the robot target
// from the bind address.
func TestBuild_Peer(t *testing.T) {
	cfg := config.New()
	cfg.Peer = true
	cfg.LocalBind = "127.0.0.1:6969"
	cfg.RobotAddress = "127.0.0.1"
	cfg.RobotPort = 7000
	cfg.PeerCount = 5

	mode, err := Build(cfg, util.NewLogger(0), nil)
	require.NoError(t, err)

	p, ok := mode.(*PeerMode)
	require.True(t, ok, "expected *PeerMode, got %T", mode)
	assert.Equal(t, "127.0.0.1:6969", p.Bind)
	assert.Equal(t, "127.0.0.1:7000", p.Target)
	assert.Equal(t, 5, p.Count)
	assert.Equal(t, []byte(config.DefaultPeerPayload), p.Payload)
}

func TestBuild_Dump(t *testing.T) {
	cfg := config.New()
	cfg.DumpPath = "link.cbor"
	cfg.Peer = true // dump wins
	cfg.Output = "text"

	mode, err := Build(cfg, util.NewLogger(0), nil)
	require.NoError(t, err)

	d, ok := mode.(*DumpMode)
	require.True(t, ok, "expected *DumpMode, got %T", mode)
	assert.Equal(t, "link.cbor", d.Path)
	assert.Equal(t, event.FormatText, d.Format)
}

func TestBuild_BadOutput(t *testing.T) {
	cfg := config.New()
	cfg.Output = "xml"

	_, err := Build(cfg, util.NewLogger(0), nil)
	assert.Error(t, err)
}
