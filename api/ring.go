// Package api
// Author: momentics@gmail.com
//
// Contracts for the single-producer/single-consumer ring and its two role handles.

package api

// Ring exposes the advisory occupancy queries shared by both sides.
// Results may be stale the moment they are returned.
type Ring interface {
	// Size returns the number of elements currently enqueued.
	Size() int
	// UnusedSize returns Cap() - Size().
	UnusedSize() int
	// Empty reports whether no element is enqueued.
	Empty() bool
	// Cap returns the fixed capacity.
	Cap() int
	// Closed reports whether the producer has closed the ring.
	Closed() bool
}

// ProducerRing is the producer-side contract. Exactly one goroutine may use it.
type ProducerRing[T any] interface {
	Ring
	// Push moves all items into the ring. len(items) must not exceed UnusedSize().
	Push(items []T)
	// PushValues is Push for a small fixed set of discrete values.
	PushValues(items ...T)
	// NotifyOne wakes one goroutine blocked in Wait.
	NotifyOne()
	// NotifyAll wakes every goroutine blocked in Wait.
	NotifyAll()
	// Close marks the end of the stream and wakes all waiters.
	Close()
}

// ConsumerRing is the consumer-side contract. Exactly one goroutine may use it.
type ConsumerRing[T any] interface {
	Ring
	// Pop removes the oldest element. The ring must not be empty.
	Pop() T
	// PopN removes up to n elements, clamped to Size().
	PopN(n int) []T
	// Wait blocks while the ring is empty and open.
	Wait()
}
