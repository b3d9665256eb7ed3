//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/windows"
)

// maxCPU is the size of one processor group.
const maxCPU = 64

var procSetThreadAffinityMask = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetThreadAffinityMask")

func setThreadMask(mask uintptr) error {
	ret, _, err := procSetThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if ret == 0 {
		return fmt.Errorf("affinity: SetThreadAffinityMask(0x%X): %w", mask, err)
	}
	return nil
}

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
func setAffinityPlatform(cpuID int) error {
	return setThreadMask(uintptr(1) << cpuID)
}

// resetAffinityPlatform allows the thread on every CPU of its group again.
func resetAffinityPlatform() error {
	n := min(runtime.NumCPU(), 64)
	mask := ^uintptr(0)
	if n < 64 {
		mask = uintptr(1)<<n - 1
	}
	return setThreadMask(mask)
}
