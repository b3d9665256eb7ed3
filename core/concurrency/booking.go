// File: core/concurrency/booking.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import "sync/atomic"

// Booking is a producer-side reservation of contiguous (possibly wrap-split)
// slots. Fill the slices returned by Slots, then Commit to publish them.
type Booking[T any] struct {
	ring  *RingBuffer[T]
	start uint32
	count uint32
}

// Start returns the wrapped write position the booking begins at.
func (b Booking[T]) Start() uint32 {
	return b.start
}

// Len returns the number of booked slots.
func (b Booking[T]) Len() int {
	return int(b.count)
}

// Slots returns the booked storage: the run up to the end of storage and
// the wrapped remainder from index 0. second is empty when no wrap occurs.
func (b Booking[T]) Slots() (first, second []T) {
	slots := b.ring.slots
	idx := int(b.start & b.ring.mask)
	end := idx + int(b.count)
	if end <= len(slots) {
		return slots[idx:end], slots[:0]
	}
	return slots[idx:], slots[:end-len(slots)]
}

// Commit advances the write cursor past the booked slots. Storage writes
// made through Slots become visible to the consumer.
func (b Booking[T]) Commit() {
	r := b.ring
	if !r.booking {
		violate("commit", "no outstanding booking")
	}
	r.booking = false
	w := atomic.LoadUint32(&r.write)
	atomic.StoreUint32(&r.write, (w&closedBit)|((b.start+b.count)&r.wrap))
	r.pushed.Add(uint64(b.count))
}
