// Package pool provides a fixed-capacity slot allocator for game entities.
// All storage is reserved when the pool is created; Alloc never grows it.
package pool

import "errors"

// ErrCapacityExceeded is returned by Alloc when every slot is in use.
var ErrCapacityExceeded = errors.New("pool: capacity exceeded")

// Handle identifies one slot of a pool.
// Handles are stable for the lifetime of an allocation and are never
// raw addresses. The zero value is NoHandle.
type Handle uint32

// NoHandle never names a slot. Free(NoHandle) is a no-op.
const NoHandle Handle = 0

// index converts a handle to its slot index. Handle 1 is slot 0.
func (h Handle) index() int {
	return int(h) - 1
}

// Valid reports whether h can name a slot at all.
func (h Handle) Valid() bool {
	return h != NoHandle
}

// Pool hands out slots of T from a LIFO free stack.
//
// A Pool is not safe for concurrent Alloc/Free. Distinct slots obtained
// through Get may be mutated concurrently.
type Pool[T any] struct {
	slots []T
	free  []Handle
}

// New creates a pool with room for exactly capacity values of T.
func New[T any](capacity int) *Pool[T] {
	if capacity < 0 {
		capacity = 0
	}

	p := &Pool[T]{
		slots: make([]T, capacity),
		free:  make([]Handle, capacity),
	}

	// Slot 0 sits on top of the stack so the first Alloc hands it out.
	for i := range p.free {
		p.free[i] = Handle(capacity - i)
	}

	return p
}

// Alloc reserves a slot and resets it to the zero value of T.
// Returns ErrCapacityExceeded when no slot is free.
func (p *Pool[T]) Alloc() (Handle, error) {
	top := len(p.free) - 1
	if top < 0 {
		return NoHandle, ErrCapacityExceeded
	}

	h := p.free[top]
	p.free = p.free[:top]

	var zero T
	p.slots[h.index()] = zero

	return h, nil
}

// Free returns a slot to the pool. The next Alloc reuses it.
// NoHandle and handles past the capacity are ignored. Handles do not record
// their pool, so freeing one from another pool or freeing twice is a caller
// error.
func (p *Pool[T]) Free(h Handle) {
	if !p.owns(h) {
		return
	}
	if len(p.free) == cap(p.free) {
		return
	}
	p.free = append(p.free, h)
}

// Get returns the storage behind h, or nil for an absent handle.
// The pointer must not be kept after the handle is freed.
func (p *Pool[T]) Get(h Handle) *T {
	if !p.owns(h) {
		return nil
	}
	return &p.slots[h.index()]
}

// Cap returns the fixed capacity.
func (p *Pool[T]) Cap() int {
	return len(p.slots)
}

// Len returns the number of outstanding allocations.
func (p *Pool[T]) Len() int {
	return len(p.slots) - len(p.free)
}

// Available returns the number of free slots.
func (p *Pool[T]) Available() int {
	return len(p.free)
}

func (p *Pool[T]) owns(h Handle) bool {
	return h.Valid() && h.index() < len(p.slots)
}
