package pool

import (
	"errors"
	"sync/atomic"
)

// ErrPoolExhausted is returned by TryAcquire when the pool is already at
// its configured maximum.
var ErrPoolExhausted = errors.New("vortex: connection pool exhausted")

// ConnectionPool enforces a hard cap on concurrently active connections
// using a lock-free CAS loop. There is no queue: a connection that cannot
// be admitted is rejected immediately, never buffered.
type ConnectionPool struct {
	active atomic.Int64
	max    int64
}

// NewConnectionPool creates a pool admitting at most max connections.
func NewConnectionPool(max int) *ConnectionPool {
	return &ConnectionPool{max: int64(max)}
}

// TryAcquire attempts to admit one connection. It returns ErrPoolExhausted
// without blocking if the pool is already full.
func (p *ConnectionPool) TryAcquire() error {
	for {
		cur := p.active.Load()
		if cur >= p.max {
			return ErrPoolExhausted
		}
		if p.active.CompareAndSwap(cur, cur+1) {
			return nil
		}
	}
}

// Release returns one admission slot to the pool. Callers must call
// Release exactly once for every successful TryAcquire.
func (p *ConnectionPool) Release() {
	p.active.Add(-1)
}

// Active returns the current number of admitted connections.
func (p *ConnectionPool) Active() int64 { return p.active.Load() }

// Max returns the configured admission ceiling.
func (p *ConnectionPool) Max() int64 { return p.max }
