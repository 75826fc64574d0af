package core

import (
	"context"
	"io"
	"os"

	"botlink/internal/event"
	"botlink/util"
)

// DumpMode prints the events of a capture file.
type DumpMode struct {
	Path   string
	Format event.Format
	Logger *util.Logger

	// Stdout defaults to os.Stdout when nil.
	Stdout io.Writer
}

func (m *DumpMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// Run implements Mode.
func (m *DumpMode) Run(ctx context.Context) error {
	events, err := event.ReadCaptureFile(m.Path)
	if err != nil {
		return err
	}
	m.Logger.Verbose("%s: %d events", m.Path, len(events))

	out := event.NewWriterSink(m.stdout(), m.Format)
	for _, e := range events {
		if ctx.Err() != nil {
			return nil
		}
		if err := out.Emit(e); err != nil {
			return err
		}
	}
	return nil
}
