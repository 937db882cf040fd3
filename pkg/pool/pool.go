// Package pool provides type-safe object pooling. It wraps sync.Pool with a
// reset hook and hit/miss statistics, plus a shared bytes.Buffer pool for
// serialization paths.
package pool

import (
	"bytes"
	"sync"
	"sync/atomic"
)

// Pool is a generic object pool. Safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
	stats struct {
		allocated int64
		hits      int64
		misses    int64
	}
}

// New creates a pool with a factory and an optional reset hook. The reset
// hook runs before an object is returned to the pool.
func New[T any](factory func() T, reset func(T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() interface{} {
		atomic.AddInt64(&p.stats.allocated, 1)
		atomic.AddInt64(&p.stats.misses, 1)
		return factory()
	}
	return p
}

// Get retrieves an object from the pool, allocating when empty.
func (p *Pool[T]) Get() T {
	atomic.AddInt64(&p.stats.hits, 1)
	return p.pool.Get().(T)
}

// Put resets the object and returns it to the pool.
func (p *Pool[T]) Put(obj T) {
	if p.reset != nil {
		p.reset(obj)
	}
	p.pool.Put(obj)
}

// Stats reports pool counters since creation.
type Stats struct {
	Allocated int64
	Gets      int64
	Misses    int64
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Allocated: atomic.LoadInt64(&p.stats.allocated),
		Gets:      atomic.LoadInt64(&p.stats.hits),
		Misses:    atomic.LoadInt64(&p.stats.misses),
	}
}

// bufferPool backs GetBuffer/PutBuffer. Buffers that grew past the cap are
// dropped instead of pooled so one huge serialization does not pin memory.
var bufferPool = New(
	func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 4096)) },
	func(b *bytes.Buffer) { b.Reset() },
)

const maxPooledBufferCap = 1 << 22 // 4 MiB

// GetBuffer returns an empty pooled buffer.
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get()
}

// PutBuffer returns a buffer to the pool. The caller must not retain the
// buffer or any slice of its contents afterwards.
func PutBuffer(b *bytes.Buffer) {
	if b == nil || b.Cap() > maxPooledBufferCap {
		return
	}
	bufferPool.Put(b)
}
