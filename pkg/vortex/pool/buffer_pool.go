// Package pool provides the two bounded pools the connection engine shares:
// a BufferPool of fixed-capacity scratch buffers used while reading
// requests, and a ConnectionPool that enforces the
// admission limit on concurrently active connections.
package pool

import (
	"sync"
	"sync/atomic"
)

// BufferPool hands out fixed-capacity byte slices and reclaims them,
// tracking the high-water mark of buffers ever handed out concurrently.
//
// Buffers are zeroed-length slices: Get returns a slice with len 0 and
// cap >= size (Put accepts any buffer of at least size capacity), so
// callers append into it without triggering a reallocation as long as
// they stay within size.
type BufferPool struct {
	pool     sync.Pool
	size     int
	inUse    atomic.Int64
	peak     atomic.Int64
	gets     atomic.Int64
	puts     atomic.Int64
}

// NewBufferPool creates a pool of buffers with the given per-buffer capacity.
func NewBufferPool(size int) *BufferPool {
	bp := &BufferPool{size: size}
	bp.pool.New = func() any {
		buf := make([]byte, 0, size)
		return &buf
	}
	return bp
}

// Get returns a buffer with len 0 and cap >= size.
func (bp *BufferPool) Get() []byte {
	buf := bp.pool.Get().(*[]byte)
	bp.gets.Add(1)
	n := bp.inUse.Add(1)
	for {
		p := bp.peak.Load()
		if n <= p || bp.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return (*buf)[:0]
}

// Put returns a buffer to the pool for reuse. Callers must not retain any
// reference to buf after calling Put.
func (bp *BufferPool) Put(buf []byte) {
	if cap(buf) < bp.size {
		// Undersized buffer (e.g. a caller-constructed slice): drop it
		// rather than poisoning the pool with a buffer smaller than size.
		bp.inUse.Add(-1)
		return
	}
	buf = buf[:0]
	bp.pool.Put(&buf)
	bp.puts.Add(1)
	bp.inUse.Add(-1)
}

// Size returns the configured per-buffer capacity.
func (bp *BufferPool) Size() int { return bp.size }

// Stats reports current usage for observability.
type BufferPoolStats struct {
	InUse int64
	Peak  int64
	Gets  int64
	Puts  int64
}

// Stats returns a snapshot of pool counters.
func (bp *BufferPool) Stats() BufferPoolStats {
	return BufferPoolStats{
		InUse: bp.inUse.Load(),
		Peak:  bp.peak.Load(),
		Gets:  bp.gets.Load(),
		Puts:  bp.puts.Load(),
	}
}
