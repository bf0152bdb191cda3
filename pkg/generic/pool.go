// Package generic holds small type-parameterized helpers shared across the
// engine.
package generic

import "sync"

// Pool is a typed wrapper around sync.Pool. The collision system uses one to
// recycle contact manifolds on the per-step hot path.
type Pool[T any] struct {
	pool sync.Pool
}

// NewPool creates a pool whose misses are filled by generate.
func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

// Preload seeds the pool with n generated values so the first steps after
// startup do not allocate.
func (p *Pool[T]) Preload(n int) {
	newFn := p.pool.New
	for i := 0; i < n; i++ {
		p.pool.Put(newFn())
	}
}

// Get takes a value from the pool, generating one on miss.
func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

// Put returns a value to the pool. Callers must not retain references to it.
func (p *Pool[T]) Put(value T) {
	p.pool.Put(value)
}
