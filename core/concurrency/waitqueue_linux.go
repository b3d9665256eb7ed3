//go:build linux
// +build linux

// File: core/concurrency/waitqueue_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Futex-backed wait/notify on the write cursor word.

package concurrency

import (
	"math"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexWaitPrivate = 0 | 128 // FUTEX_WAIT | FUTEX_PRIVATE_FLAG
	futexWakePrivate = 1 | 128 // FUTEX_WAKE | FUTEX_PRIVATE_FLAG
)

// waitQueue needs no state on Linux: the kernel keys waiters by address.
type waitQueue struct{}

func (q *waitQueue) init() {}

// wait sleeps while *addr == old. EAGAIN (value already changed) and
// EINTR both simply return; callers loop.
func (q *waitQueue) wait(addr *uint32, old uint32) {
	unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWaitPrivate, uintptr(old), 0, 0, 0)
}

// wake releases up to n waiters; n < 0 wakes all.
func (q *waitQueue) wake(addr *uint32, n int) {
	if n < 0 {
		n = math.MaxInt32
	}
	unix.Syscall6(unix.SYS_FUTEX, uintptr(unsafe.Pointer(addr)), futexWakePrivate, uintptr(n), 0, 0, 0)
}
