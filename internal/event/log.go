package event

import "botlink/util"

// LogSink mirrors events into a levelled logger: status changes at
// info level, Disconnected with a reason at warn level, and datagrams
// at debug level.
type LogSink struct {
	Logger *util.Logger
}

// Emit implements Sink.  It never fails.
func (s LogSink) Emit(e Event) error {
	switch {
	case !e.IsStatus():
		s.Logger.Debug("received %d bytes from %s", len(e.Data), e.Remote)
	case e.Reason != "":
		s.Logger.Warn("link %s: %s", e.Status, e.Reason)
	default:
		s.Logger.Info("link %s", e.Status)
	}
	return nil
}

var _ Sink = LogSink{}
