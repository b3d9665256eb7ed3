//go:build linux
// +build linux

// File: affinity/affinity_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux-specific implementation for setting thread CPU affinity.

package affinity

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// maxCPU is CPU_SETSIZE.
const maxCPU = 1024

// startupSet is the affinity mask inherited by every thread of the process.
var startupSet, startupErr = loadStartupSet()

func loadStartupSet() (unix.CPUSet, error) {
	var set unix.CPUSet
	err := unix.SchedGetaffinity(0, &set)
	return set, err
}

// setAffinityPlatform sets thread affinity to a given CPU for Linux.
func setAffinityPlatform(cpuID int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity(cpu=%d): %w", cpuID, err)
	}
	return nil
}

// resetAffinityPlatform restores the mask captured at startup.
func resetAffinityPlatform() error {
	if startupErr != nil {
		return fmt.Errorf("affinity: startup mask unavailable: %w", startupErr)
	}
	set := startupSet
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("affinity: sched_setaffinity(reset): %w", err)
	}
	return nil
}
