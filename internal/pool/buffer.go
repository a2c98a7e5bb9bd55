// Package pool provides a sync.Pool-backed byte-buffer pool used to reuse
// FPS raw-data buffers and CMP encode/decode scratch space, adapted from
// mebo/internal/pool's ByteBuffer for MED's file-sized (rather than
// blob-sized) buffers.
package pool

import "sync"

const (
	// FPSBufferDefaultSize is sized for a typical metadata/index file
	// (tens of KiB); time-series data files grow the buffer on demand.
	FPSBufferDefaultSize = 64 * 1024
	// FPSBufferMaxThreshold discards buffers larger than this on Put so a
	// single huge segment read doesn't permanently bloat the pool.
	FPSBufferMaxThreshold = 16 * 1024 * 1024
)

// Buffer is a growable byte buffer with explicit length/capacity control,
// used as the FPS raw-data buffer and as CMP block scratch space.
type Buffer struct {
	B []byte
}

func NewBuffer(defaultSize int) *Buffer {
	return &Buffer{B: make([]byte, 0, defaultSize)}
}

func (b *Buffer) Bytes() []byte { return b.B }
func (b *Buffer) Len() int      { return len(b.B) }
func (b *Buffer) Cap() int      { return cap(b.B) }
func (b *Buffer) Reset()        { b.B = b.B[:0] }

// Grow ensures the buffer can hold at least requiredBytes more bytes
// without reallocating.
func (b *Buffer) Grow(requiredBytes int) {
	available := cap(b.B) - len(b.B)
	if available >= requiredBytes {
		return
	}

	growBy := FPSBufferDefaultSize
	if cap(b.B) > 4*FPSBufferDefaultSize {
		growBy = cap(b.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(b.B), len(b.B)+growBy)
	copy(newBuf, b.B)
	b.B = newBuf
}

// SetLength sets the buffer's logical length, growing capacity first if
// needed.
func (b *Buffer) SetLength(n int) {
	if n > cap(b.B) {
		b.Grow(n - len(b.B))
	}

	b.B = b.B[:n]
}

// Write appends data, growing as needed, satisfying io.Writer.
func (b *Buffer) Write(data []byte) (int, error) {
	b.Grow(len(data))
	b.B = append(b.B, data...)

	return len(data), nil
}

// BufferPool recycles Buffers of a given default size via sync.Pool.
type BufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

func NewBufferPool(defaultSize, maxThreshold int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any { return NewBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

func (p *BufferPool) Get() *Buffer {
	buf, _ := p.pool.Get().(*Buffer)
	return buf
}

func (p *BufferPool) Put(buf *Buffer) {
	if buf == nil {
		return
	}

	if p.maxThreshold > 0 && buf.Cap() > p.maxThreshold {
		return
	}

	buf.Reset()
	p.pool.Put(buf)
}

var defaultFPSPool = NewBufferPool(FPSBufferDefaultSize, FPSBufferMaxThreshold)

// GetFPSBuffer retrieves a Buffer from the default FPS pool.
func GetFPSBuffer() *Buffer { return defaultFPSPool.Get() }

// PutFPSBuffer returns a Buffer to the default FPS pool.
func PutFPSBuffer(buf *Buffer) { defaultFPSPool.Put(buf) }
