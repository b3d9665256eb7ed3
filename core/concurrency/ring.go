// File: core/concurrency/ring.go
// Package concurrency implements the SPSC ring buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// RingBuffer is a bounded circular buffer with two atomic cursors,
// padded to prevent false sharing. Cursors are stored already wrapped
// modulo 2*capacity; slot index is cursor & (capacity-1).

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-ring/api"
)

// Ensure compile-time interface compliance.
var (
	_ api.ProducerRing[any] = (*RingBuffer[any])(nil)
	_ api.ConsumerRing[any] = (*RingBuffer[any])(nil)
)

const (
	// MaxCapacity bounds capacity so that 2*capacity fits below the closed bit.
	MaxCapacity = 1 << 30

	closedBit uint32 = 1 << 31
)

// RingBuffer is a lock-free single-producer, single-consumer ring.
//
// The producer goroutine is the only writer of the write cursor and the only
// caller of BookSpace/Push/PushValues/Close. The consumer goroutine is the only
// writer of the read cursor and the only caller of Pop/PopN. Queries may be
// called from anywhere. Use NewPair to get role-restricted handles.
type RingBuffer[T any] struct {
	write   uint32 // wrapped write cursor; bit 31 is the closed flag
	booking bool   // producer-local: a Booking is outstanding
	pushed  atomic.Uint64
	_       cpu.CacheLinePad

	read   uint32 // wrapped read cursor
	popped atomic.Uint64
	_      cpu.CacheLinePad

	slots []T
	mask  uint32 // capacity-1, slot index
	wrap  uint32 // 2*capacity-1, cursor range
	wq    waitQueue
}

// Stats is a point-in-time view of ring counters.
type Stats struct {
	Capacity int
	Size     int
	Pushed   uint64
	Popped   uint64
	Closed   bool
}

// NewRingBuffer allocates a ring of the given capacity.
// Capacity must be a power of two in [1, MaxCapacity]: the occupancy
// computation on wrapped cursors is only exact when 2*capacity divides 2^32.
func NewRingBuffer[T any](capacity int) (*RingBuffer[T], error) {
	if capacity <= 0 || capacity > MaxCapacity || capacity&(capacity-1) != 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "ring capacity must be a power of two").
			WithContext("capacity", capacity).
			WithContext("max", MaxCapacity)
	}
	n := uint32(capacity)
	r := &RingBuffer[T]{
		slots: make([]T, capacity),
		mask:  n - 1,
		wrap:  2*n - 1,
	}
	r.wq.init()
	return r, nil
}

// Clone duplicates storage and snapshots both cursors and counters.
// It is a composite, non-atomic read: do not call it while the producer
// or consumer is active.
func (r *RingBuffer[T]) Clone() *RingBuffer[T] {
	c := &RingBuffer[T]{
		slots: make([]T, len(r.slots)),
		mask:  r.mask,
		wrap:  r.wrap,
	}
	copy(c.slots, r.slots)
	c.write = atomic.LoadUint32(&r.write)
	c.read = atomic.LoadUint32(&r.read)
	c.pushed.Store(r.pushed.Load())
	c.popped.Store(r.popped.Load())
	c.wq.init()
	return c
}

// occupancy returns (write - read) mod 2*capacity, clamped to capacity.
// The read cursor is loaded first so a concurrent observer never sees
// read ahead of write.
func (r *RingBuffer[T]) occupancy() uint32 {
	rd := atomic.LoadUint32(&r.read)
	w := atomic.LoadUint32(&r.write)
	n := (w - rd) & r.wrap
	if n > r.mask+1 {
		// Both cursors moved between the two loads.
		n = r.mask + 1
	}
	return n
}

// Size returns the current logical occupancy.
func (r *RingBuffer[T]) Size() int {
	return int(r.occupancy())
}

// UnusedSize returns Cap() - Size().
func (r *RingBuffer[T]) UnusedSize() int {
	return len(r.slots) - int(r.occupancy())
}

// Empty reports whether the write and read cursors coincide.
func (r *RingBuffer[T]) Empty() bool {
	return r.occupancy() == 0
}

// Cap returns the fixed capacity.
func (r *RingBuffer[T]) Cap() int {
	return len(r.slots)
}

// Closed reports whether Close has been called.
func (r *RingBuffer[T]) Closed() bool {
	return atomic.LoadUint32(&r.write)&closedBit != 0
}

// BookSpace reserves count slots starting at the current write position.
// count must not exceed UnusedSize(); only one booking may be outstanding.
// The write cursor is published by Booking.Commit.
func (r *RingBuffer[T]) BookSpace(count int) Booking[T] {
	w := atomic.LoadUint32(&r.write)
	switch {
	case r.booking:
		violate("book_space", "previous booking not committed")
	case w&closedBit != 0:
		violate("book_space", "ring is closed")
	case count < 0 || count > r.UnusedSize():
		violate("book_space", "count exceeds unused size",
			"count", count, "unused", r.UnusedSize())
	}
	r.booking = true
	return Booking[T]{ring: r, start: w &^ closedBit, count: uint32(count)}
}

// Push moves items into the ring, splitting the copy at the storage boundary.
// len(items) must not exceed UnusedSize().
func (r *RingBuffer[T]) Push(items []T) {
	b := r.BookSpace(len(items))
	first, second := b.Slots()
	n := copy(first, items)
	copy(second, items[n:])
	b.Commit()
}

// PushValues stores each value at successive wrapped positions.
func (r *RingBuffer[T]) PushValues(items ...T) {
	b := r.BookSpace(len(items))
	for i, v := range items {
		r.slots[(b.start+uint32(i))&r.mask] = v
	}
	b.Commit()
}

// Pop removes and returns the oldest element. The ring must not be empty.
// The vacated slot is zeroed so storage does not retain the value.
func (r *RingBuffer[T]) Pop() T {
	rd := atomic.LoadUint32(&r.read)
	if (atomic.LoadUint32(&r.write)-rd)&r.wrap == 0 {
		violate("pop", "ring is empty")
	}
	var zero T
	idx := rd & r.mask
	v := r.slots[idx]
	r.slots[idx] = zero
	atomic.StoreUint32(&r.read, (rd+1)&r.wrap)
	r.popped.Add(1)
	return v
}

// PopN removes up to n elements into a fresh slice. Requests beyond the
// current occupancy are clamped; an empty ring yields an empty slice.
func (r *RingBuffer[T]) PopN(n int) []T {
	rd := atomic.LoadUint32(&r.read)
	avail := int((atomic.LoadUint32(&r.write) - rd) & r.wrap)
	n = max(0, min(n, avail))

	out := make([]T, n)
	idx := int(rd & r.mask)
	first := min(n, len(r.slots)-idx)
	copy(out, r.slots[idx:idx+first])
	clear(r.slots[idx : idx+first])
	copy(out[first:], r.slots[:n-first])
	clear(r.slots[:n-first])

	atomic.StoreUint32(&r.read, (rd+uint32(n))&r.wrap)
	r.popped.Add(uint64(n))
	return out
}

// Wait blocks until the write cursor changes. It returns at once if data
// is already pending or the ring is closed. Wakeups may be spurious;
// callers must re-check Empty.
func (r *RingBuffer[T]) Wait() {
	w := atomic.LoadUint32(&r.write)
	if w&closedBit != 0 || (w-atomic.LoadUint32(&r.read))&r.wrap != 0 {
		return
	}
	r.wq.wait(&r.write, w)
}

// NotifyOne wakes one goroutine blocked in Wait.
func (r *RingBuffer[T]) NotifyOne() {
	r.wq.wake(&r.write, 1)
}

// NotifyAll wakes every goroutine blocked in Wait.
func (r *RingBuffer[T]) NotifyAll() {
	r.wq.wake(&r.write, -1)
}

// Close marks the end of the stream and wakes all waiters.
// Buffered elements stay readable. Closing twice is a no-op.
func (r *RingBuffer[T]) Close() {
	if r.booking {
		violate("close", "booking not committed")
	}
	w := atomic.LoadUint32(&r.write)
	if w&closedBit != 0 {
		return
	}
	atomic.StoreUint32(&r.write, w|closedBit)
	r.NotifyAll()
}

// Stats returns lifetime counters and current occupancy.
func (r *RingBuffer[T]) Stats() Stats {
	return Stats{
		Capacity: len(r.slots),
		Size:     r.Size(),
		Pushed:   r.pushed.Load(),
		Popped:   r.popped.Load(),
		Closed:   r.Closed(),
	}
}

// DumpState returns a diagnostic snapshot suitable for debug probes.
func (r *RingBuffer[T]) DumpState() map[string]any {
	s := r.Stats()
	return map[string]any{
		"capacity":  s.Capacity,
		"size":      s.Size,
		"pushed":    s.Pushed,
		"popped":    s.Popped,
		"closed":    s.Closed,
		"write_pos": atomic.LoadUint32(&r.write) &^ closedBit,
		"read_pos":  atomic.LoadUint32(&r.read),
	}
}
