// Package pool provides generational slot storage with stable handles.
//
// A Handle is an (index, generation) pair. Freeing a slot bumps its
// generation, so handles captured before the free never resolve to a
// value spawned into the reused slot.
package pool

import (
	"fmt"
	"math"
)

const noneIndex = math.MaxUint32

// Handle references a slot in a Pool[T] without owning it.
//
// The generation is stored offset by one, so the zero Handle never
// resolves. Use None for an explicit empty handle.
type Handle[T any] struct {
	index uint32
	gen   uint32
}

func handle[T any](index, generation uint32) Handle[T] {
	return Handle[T]{index: index, gen: generation + 1}
}

// None returns the sentinel handle that never resolves.
func None[T any]() Handle[T] {
	return Handle[T]{index: noneIndex}
}

// IsNone reports whether h is the sentinel handle.
func (h Handle[T]) IsNone() bool {
	return h.index == noneIndex
}

// Index returns the slot index.
func (h Handle[T]) Index() uint32 {
	return h.index
}

// Generation returns the generation the handle was issued at.
func (h Handle[T]) Generation() uint32 {
	return h.gen - 1
}

func (h Handle[T]) String() string {
	if h.IsNone() {
		return "Handle(none)"
	}
	if h.gen == 0 {
		return "Handle(zero)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.Generation())
}

// Free list links are stored as index+1 so that zero means "end of list"
// and the zero Pool is ready to use.
type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
	nextFree   uint32
}

// Pool stores values of T in reusable slots. The zero value is an empty pool.
type Pool[T any] struct {
	slots    []slot[T]
	freeHead uint32
	alive    int
}

// New creates an empty pool.
func New[T any]() *Pool[T] {
	return &Pool[T]{}
}

// Spawn stores value and returns its handle. The most recently freed slot
// is reused first; otherwise a new slot is appended at generation 0.
func (p *Pool[T]) Spawn(value T) Handle[T] {
	p.alive++
	if p.freeHead != 0 {
		index := p.freeHead - 1
		s := &p.slots[index]
		p.freeHead = s.nextFree
		s.value = value
		s.occupied = true
		s.nextFree = 0
		return handle[T](index, s.generation)
	}

	p.slots = append(p.slots, slot[T]{value: value, occupied: true})
	return handle[T](uint32(len(p.slots)-1), 0)
}

// Borrow returns a pointer to the value referenced by h, or false if h is
// none, out of range, freed or stale. The pointer is valid until the slot
// is freed or the pool grows.
func (p *Pool[T]) Borrow(h Handle[T]) (*T, bool) {
	if int(h.index) >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[h.index]
	if !s.occupied || s.generation+1 != h.gen {
		return nil, false
	}
	return &s.value, true
}

// Contains reports whether h resolves to a live value.
func (p *Pool[T]) Contains(h Handle[T]) bool {
	_, ok := p.Borrow(h)
	return ok
}

// Free releases the slot referenced by h. Stale, none and already freed
// handles are ignored.
func (p *Pool[T]) Free(h Handle[T]) {
	if !p.Contains(h) {
		return
	}
	s := &p.slots[h.index]
	var zero T
	s.value = zero
	s.occupied = false
	s.generation++
	s.nextFree = p.freeHead
	p.freeHead = h.index + 1
	p.alive--
}

// At returns the live value at a raw slot index regardless of generation.
func (p *Pool[T]) At(index int) (*T, bool) {
	if index < 0 || index >= len(p.slots) || !p.slots[index].occupied {
		return nil, false
	}
	return &p.slots[index].value, true
}

// HandleAt returns the handle of the live value at a raw slot index.
func (p *Pool[T]) HandleAt(index int) (Handle[T], bool) {
	if index < 0 || index >= len(p.slots) || !p.slots[index].occupied {
		return None[T](), false
	}
	return handle[T](uint32(index), p.slots[index].generation), true
}

// Capacity returns the number of slots, free ones included.
func (p *Pool[T]) Capacity() int {
	return len(p.slots)
}

// Len returns the number of live values.
func (p *Pool[T]) Len() int {
	return p.alive
}

// Clear frees every live slot. Outstanding handles become stale.
func (p *Pool[T]) Clear() {
	for i := range p.slots {
		if h, ok := p.HandleAt(i); ok {
			p.Free(h)
		}
	}
}
