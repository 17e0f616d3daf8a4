package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferPoolGetPutRoundTrip(t *testing.T) {
	bp := NewBufferPool(64)
	buf := bp.Get()
	assert.Equal(t, 0, len(buf))
	assert.GreaterOrEqual(t, cap(buf), 64)

	buf = append(buf, "hello"...)
	assert.Equal(t, "hello", string(buf))

	bp.Put(buf)
	stats := bp.Stats()
	assert.Equal(t, int64(0), stats.InUse)
	assert.Equal(t, int64(1), stats.Gets)
	assert.Equal(t, int64(1), stats.Puts)
}

func TestBufferPoolPeakHighWaterMark(t *testing.T) {
	bp := NewBufferPool(16)
	var bufs [][]byte
	for i := 0; i < 5; i++ {
		bufs = append(bufs, bp.Get())
	}
	require.Equal(t, int64(5), bp.Stats().Peak)
	for _, b := range bufs {
		bp.Put(b)
	}
	assert.Equal(t, int64(0), bp.Stats().InUse)
	assert.Equal(t, int64(5), bp.Stats().Peak, "peak must not decrease after release")
}

func TestBufferPoolDropsUndersizedBuffer(t *testing.T) {
	bp := NewBufferPool(64)
	bp.Get()
	before := bp.Stats().InUse
	bp.Put(make([]byte, 0, 8))
	assert.Equal(t, before-1, bp.Stats().InUse)
}

func TestConnectionPoolAdmitsUpToMax(t *testing.T) {
	p := NewConnectionPool(2)
	require.NoError(t, p.TryAcquire())
	require.NoError(t, p.TryAcquire())
	assert.ErrorIs(t, p.TryAcquire(), ErrPoolExhausted)
	assert.Equal(t, int64(2), p.Active())

	p.Release()
	assert.NoError(t, p.TryAcquire())
}

func TestConnectionPoolConcurrentAdmission(t *testing.T) {
	const max = 50
	p := NewConnectionPool(max)
	var wg sync.WaitGroup
	var admitted atomic64
	for i := 0; i < max*4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.TryAcquire() == nil {
				admitted.add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int64(max), admitted.load())
	assert.Equal(t, int64(max), p.Active())
}

// atomic64 avoids importing sync/atomic twice under a different alias in
// the test file; kept minimal since this is test-only bookkeeping.
type atomic64 struct {
	mu sync.Mutex
	v  int64
}

func (a *atomic64) add(n int64) {
	a.mu.Lock()
	a.v += n
	a.mu.Unlock()
}

func (a *atomic64) load() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.v
}
