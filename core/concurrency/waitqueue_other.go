//go:build !linux
// +build !linux

// File: core/concurrency/waitqueue_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Portable wait/notify fallback for platforms without futex.

package concurrency

import (
	"sync"
	"sync/atomic"
)

type waitQueue struct {
	mu   sync.Mutex
	cond *sync.Cond
}

func (q *waitQueue) init() {
	q.cond = sync.NewCond(&q.mu)
}

// wait sleeps while *addr == old. The producer stores the cursor before
// taking mu in wake, so the check under mu cannot miss a notification.
func (q *waitQueue) wait(addr *uint32, old uint32) {
	q.mu.Lock()
	if atomic.LoadUint32(addr) == old {
		q.cond.Wait()
	}
	q.mu.Unlock()
}

// wake releases one waiter for n == 1, all otherwise.
func (q *waitQueue) wake(_ *uint32, n int) {
	q.mu.Lock()
	if n == 1 {
		q.cond.Signal()
	} else {
		q.cond.Broadcast()
	}
	q.mu.Unlock()
}
