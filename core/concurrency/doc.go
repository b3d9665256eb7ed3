// File: core/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package concurrency provides a fixed-capacity single-producer/single-consumer
// ring buffer synchronized by two atomic cursors and a futex-style wait/notify
// handshake on the write cursor.
//
// The producer books space, fills it and commits; the consumer pops one or
// many elements and, when the ring is empty, blocks in Wait until the
// producer notifies. Preconditions (pop on empty, booking more than
// UnusedSize) are contract violations and panic; PopN clamps instead.
//
//	p, c, err := concurrency.NewPair[int](64)
//	if err != nil {
//		return err
//	}
//	go func() {
//		defer p.Close()
//		p.Push([]int{1, 2, 3})
//		p.NotifyOne()
//	}()
//	for !(c.Empty() && c.Closed()) {
//		if c.Empty() {
//			c.Wait()
//			continue
//		}
//		fmt.Println(c.PopN(c.Size()))
//	}
package concurrency
