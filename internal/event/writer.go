package event

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format selects how a WriterSink renders events.
type Format int

const (
	// FormatText prints one human-readable line per event.
	FormatText Format = iota
	// FormatJSON prints one JSON object per line.
	FormatJSON
)

// ParseFormat accepts "text" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown output format %q (want text or json)", s)
}

// dataPreview is how many payload bytes a text line shows.
const dataPreview = 16

// WriterSink renders events onto an io.Writer.
type WriterSink struct {
	w      io.Writer
	format Format
	enc    *json.Encoder
}

// NewWriterSink returns a sink writing to w in the given format.
func NewWriterSink(w io.Writer, format Format) *WriterSink {
	return &WriterSink{w: w, format: format, enc: json.NewEncoder(w)}
}

// Emit implements Sink.
func (s *WriterSink) Emit(e Event) error {
	if s.format == FormatJSON {
		return s.enc.Encode(e)
	}
	_, err := io.WriteString(s.w, FormatLine(e)+"\n")
	return err
}

// FormatLine renders e as a single line of text.
func FormatLine(e Event) string {
	var b strings.Builder
	b.WriteString(e.Time.Format("15:04:05.000"))

	if e.IsStatus() {
		fmt.Fprintf(&b, " status %s", e.Status)
	} else {
		fmt.Fprintf(&b, " data %d bytes", len(e.Data))
	}
	if e.AttemptID != "" {
		id := e.AttemptID
		if len(id) > 8 {
			id = id[:8]
		}
		fmt.Fprintf(&b, " attempt=%s", id)
	}
	if e.Remote != "" {
		fmt.Fprintf(&b, " remote=%s", e.Remote)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, " reason=%q", e.Reason)
	}
	if len(e.Data) > 0 {
		n := min(len(e.Data), dataPreview)
		b.WriteString(" ")
		b.WriteString(hex.EncodeToString(e.Data[:n]))
		if len(e.Data) > n {
			b.WriteString("...")
		}
	}
	return b.String()
}

var _ Sink = (*WriterSink)(nil)
