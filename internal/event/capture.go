package event

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// captureEncMode encodes capture records deterministically with
// nanosecond timestamps.
var captureEncMode cbor.EncMode

// captureDecMode tolerates records written by older builds.
var captureDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	captureEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}
	captureDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create capture CBOR decoder mode: %v", err))
	}
}

// CaptureSink appends every event to a file as a CBOR sequence.
// It is safe for concurrent use.
type CaptureSink struct {
	mu      sync.Mutex
	file    *os.File
	encoder *cbor.Encoder
	closed  bool
}

// NewCaptureSink opens path for appending, creating it with 0644
// permissions if needed.
func NewCaptureSink(path string) (*CaptureSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open capture %s: %w", path, err)
	}
	return &CaptureSink{file: f, encoder: captureEncMode.NewEncoder(f)}, nil
}

// Emit implements Sink.  After Close it returns os.ErrClosed.
func (c *CaptureSink) Emit(e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return os.ErrClosed
	}
	return c.encoder.Encode(e)
}

// Close closes the capture file.  It is safe to call more than once.
func (c *CaptureSink) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	return c.file.Close()
}

// ReadCapture decodes every event of a capture stream.  A truncated
// trailing record, left by a crash mid-write, is ignored.
func ReadCapture(r io.Reader) ([]Event, error) {
	dec := captureDecMode.NewDecoder(r)
	var out []Event
	for {
		var e Event
		err := dec.Decode(&e)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("decode capture record %d: %w", len(out)+1, err)
		}
		out = append(out, e)
	}
}

// ReadCaptureFile opens path and decodes it with ReadCapture.
func ReadCaptureFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCapture(f)
}

var _ Sink = (*CaptureSink)(nil)
