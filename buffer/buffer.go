package buffer

import (
	"fmt"

	"github.com/pkg/errors"
)

// New allocates a ring holding up to capacity elements.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity < 1 || capacity > MaxCapacity {
		return nil, errors.Wrapf(ErrInvalidCapacity, "capacity %d", capacity)
	}
	return &Ring[T]{
		storage:  make([]T, capacity),
		capacity: uint64(capacity),
	}, nil
}

// Cap returns the number of slots in the ring.
func (r *Ring[T]) Cap() int {
	return int(r.capacity)
}

// Len returns the number of elements produced but not yet consumed.
// It is exact when called by either owner and a snapshot otherwise.
func (r *Ring[T]) Len() int {
	return int(r.write.Load() - r.read.Load())
}

// WriteIndex returns the slot the producer fills next.
func (r *Ring[T]) WriteIndex() int {
	return int(r.write.Load() % r.capacity)
}

// ReadIndex returns the slot holding the oldest unconsumed element.
func (r *Ring[T]) ReadIndex() int {
	return int(r.read.Load() % r.capacity)
}

// Producer side.

// WritableSpan returns the contiguous free slots starting at the
// write cursor. When the free region wraps, the span stops at the end
// of the storage; the remainder becomes writable after AdvanceWrite
// moves the cursor back to slot zero.
func (r *Ring[T]) WritableSpan() []T {
	w := r.write.Load()
	free := r.capacity - (w - r.read.Load())
	idx := w % r.capacity
	if tail := r.capacity - idx; free > tail {
		free = tail
	}
	return r.storage[idx : idx+free]
}

// AdvanceWrite publishes n elements previously stored into the span
// returned by WritableSpan. It reports whether the ring is now full,
// i.e. the write cursor has caught up with the read cursor.
func (r *Ring[T]) AdvanceWrite(n int) (full bool) {
	if n < 0 {
		panic(fmt.Sprintf("buffer: negative advance %d", n))
	}
	w := r.write.Load()
	rd := r.read.Load()
	if w-rd+uint64(n) > r.capacity {
		panic(fmt.Sprintf("buffer: write advance %d overruns %d free slots", n, r.capacity-(w-rd)))
	}
	w += uint64(n)
	r.write.Store(w)
	return w-rd == r.capacity
}

// Full reports whether the producer has no free slot. This is the
// producer-side check: a consumer may free a slot the moment after
// Full returns true, but never fills one.
func (r *Ring[T]) Full() bool {
	return r.write.Load()-r.read.Load() == r.capacity
}

// Consumer side.

// Front returns the oldest unconsumed element. The result is
// undefined when the ring is empty.
func (r *Ring[T]) Front() T {
	return r.storage[r.read.Load()%r.capacity]
}

// AdvanceRead releases n consumed elements back to the producer. It
// reports whether the ring is now empty, i.e. the read cursor has
// caught up with the write cursor.
func (r *Ring[T]) AdvanceRead(n int) (empty bool) {
	if n < 0 {
		panic(fmt.Sprintf("buffer: negative advance %d", n))
	}
	rd := r.read.Load()
	w := r.write.Load()
	if uint64(n) > w-rd {
		panic(fmt.Sprintf("buffer: read advance %d overruns %d pending elements", n, w-rd))
	}
	var zero T
	for i := uint64(0); i < uint64(n); i++ {
		r.storage[(rd+i)%r.capacity] = zero
	}
	rd += uint64(n)
	r.read.Store(rd)
	return rd == w
}

// Empty reports whether the consumer has nothing to read. This is the
// consumer-side check: a producer may publish an element the moment
// after Empty returns true, but never removes one.
func (r *Ring[T]) Empty() bool {
	return r.read.Load() == r.write.Load()
}
