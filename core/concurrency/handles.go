// File: core/concurrency/handles.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Role-restricted views of a RingBuffer. NewPair is the only way to obtain
// them, so each cursor has exactly one writing handle.

package concurrency

import "github.com/momentics/hioload-ring/api"

var (
	_ api.ProducerRing[any] = (*Producer[any])(nil)
	_ api.ConsumerRing[any] = (*Consumer[any])(nil)
)

// Producer owns the write cursor. Use it from a single goroutine.
type Producer[T any] struct {
	r *RingBuffer[T]
}

// Consumer owns the read cursor. Use it from a single goroutine.
type Consumer[T any] struct {
	r *RingBuffer[T]
}

// NewPair allocates a ring and returns its producer and consumer handles.
func NewPair[T any](capacity int) (*Producer[T], *Consumer[T], error) {
	r, err := NewRingBuffer[T](capacity)
	if err != nil {
		return nil, nil, err
	}
	return &Producer[T]{r: r}, &Consumer[T]{r: r}, nil
}

func (p *Producer[T]) Size() int                      { return p.r.Size() }
func (p *Producer[T]) UnusedSize() int                { return p.r.UnusedSize() }
func (p *Producer[T]) Empty() bool                    { return p.r.Empty() }
func (p *Producer[T]) Cap() int                       { return p.r.Cap() }
func (p *Producer[T]) Closed() bool                   { return p.r.Closed() }
func (p *Producer[T]) Stats() Stats                   { return p.r.Stats() }
func (p *Producer[T]) DumpState() map[string]any      { return p.r.DumpState() }
func (p *Producer[T]) BookSpace(count int) Booking[T] { return p.r.BookSpace(count) }
func (p *Producer[T]) Push(items []T)                 { p.r.Push(items) }
func (p *Producer[T]) PushValues(items ...T)          { p.r.PushValues(items...) }
func (p *Producer[T]) NotifyOne()                     { p.r.NotifyOne() }
func (p *Producer[T]) NotifyAll()                     { p.r.NotifyAll() }
func (p *Producer[T]) Close()                         { p.r.Close() }

func (c *Consumer[T]) Size() int                 { return c.r.Size() }
func (c *Consumer[T]) UnusedSize() int           { return c.r.UnusedSize() }
func (c *Consumer[T]) Empty() bool               { return c.r.Empty() }
func (c *Consumer[T]) Cap() int                  { return c.r.Cap() }
func (c *Consumer[T]) Closed() bool              { return c.r.Closed() }
func (c *Consumer[T]) Stats() Stats              { return c.r.Stats() }
func (c *Consumer[T]) DumpState() map[string]any { return c.r.DumpState() }
func (c *Consumer[T]) Pop() T                    { return c.r.Pop() }
func (c *Consumer[T]) PopN(n int) []T            { return c.r.PopN(n) }
func (c *Consumer[T]) Wait()                     { c.r.Wait() }
