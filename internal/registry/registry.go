// Package registry tracks which pooled entities are currently simulated.
// The registry holds non-owning references: the pools own the storage,
// the registry only decides membership and iteration order.
package registry

import (
	"fmt"

	"github.com/vovakirdan/breaking/internal/pool"
)

// Kind tags which pool a Ref points into.
type Kind uint8

const (
	KindBall Kind = iota
	KindBrick
	KindPaddle

	kindCount
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBall:
		return "Ball"
	case KindBrick:
		return "Brick"
	case KindPaddle:
		return "Paddle"
	default:
		return "Unknown"
	}
}

// Ref is a (kind, handle) pair naming one live entity.
type Ref struct {
	Kind   Kind
	Handle pool.Handle
}

// Registry is an ordered sequence of live entity references.
// Insertion order is spawn order.
//
// A Registry is not safe for concurrent mutation. Readers may share it
// while no goroutine mutates it.
type Registry struct {
	refs   []Ref
	counts [kindCount]int
}

// New creates a registry sized for capacity references.
// Appending beyond capacity still works but allocates.
func New(capacity int) *Registry {
	return &Registry{
		refs: make([]Ref, 0, capacity),
	}
}

// Add appends a reference at the end of the iteration order.
func (r *Registry) Add(ref Ref) {
	if ref.Kind >= kindCount {
		panic(fmt.Sprintf("registry: invalid kind %d", ref.Kind))
	}
	r.refs = append(r.refs, ref)
	r.counts[ref.Kind]++
}

// Len returns the number of live references.
func (r *Registry) Len() int {
	return len(r.refs)
}

// At returns the reference at position i.
func (r *Registry) At(i int) Ref {
	return r.refs[i]
}

// RemoveAt deletes the reference at position i, keeping the order of the
// remaining references. Entries after i shift down by one, so a scan that
// removes at i must revisit i rather than advance.
func (r *Registry) RemoveAt(i int) Ref {
	ref := r.refs[i]
	copy(r.refs[i:], r.refs[i+1:])
	r.refs[len(r.refs)-1] = Ref{}
	r.refs = r.refs[:len(r.refs)-1]
	r.counts[ref.Kind]--
	return ref
}

// Count returns how many live references have the given kind.
func (r *Registry) Count(kind Kind) int {
	if kind >= kindCount {
		return 0
	}
	return r.counts[kind]
}

// Refs returns the live references in iteration order.
// The slice aliases registry storage and is only valid until the next mutation.
func (r *Registry) Refs() []Ref {
	return r.refs
}

// Reset drops every reference.
func (r *Registry) Reset() {
	clear(r.refs)
	r.refs = r.refs[:0]
	r.counts = [kindCount]int{}
}
