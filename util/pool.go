package util

import "sync"

// DefaultBufSize is the receive buffer size for link datagrams (64 KiB),
// large enough for any UDP payload.
const DefaultBufSize = 64 * 1024

// BufPool provides reusable receive buffers so a reconnecting link does
// not allocate a fresh 64 KiB slab per monitor.
var BufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, DefaultBufSize)
		return &buf
	},
}

// GetBuf retrieves a buffer from the pool.  Callers must return it
// with [PutBuf] when finished.
func GetBuf() *[]byte {
	return BufPool.Get().(*[]byte)
}

// PutBuf returns a buffer to the pool for reuse.
func PutBuf(buf *[]byte) {
	if buf == nil {
		return
	}
	BufPool.Put(buf)
}
