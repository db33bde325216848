package buffer

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// MaxCapacity is the largest ring that New will allocate.
const MaxCapacity = 1 << 24

// ErrInvalidCapacity is returned when a ring cannot be allocated
// with the requested number of slots.
var ErrInvalidCapacity = errors.New("invalid ring buffer capacity")

// Ring is a fixed-capacity circular queue shared by exactly one
// producer and one consumer.
//
// The cursors are partitioned by role: only the producer moves the
// write position, only the consumer moves the read position. Neither
// side takes a lock; each publishes its cursor with an atomic store
// after touching the storage, and observes the other side's cursor
// with an atomic load before touching the storage.
//
// Positions are free running (they are never reduced modulo the
// capacity), so the distance between them is always the number of
// unread elements. The slot an element lives in is its position
// modulo the capacity.
type Ring[T any] struct {
	storage  []T
	capacity uint64
	write    atomic.Uint64 // owned by the producer
	read     atomic.Uint64 // owned by the consumer
}
