// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for CPU affinity. Platform-specific implementations are located
// in separate files (affinity_linux.go, affinity_windows.go, etc.) guarded by build tags.

package affinity

import (
	"log"
	"runtime"

	"github.com/momentics/hioload-ring/api"
)

var _ api.Affinity = Pinner{}

// SetAffinity binds the current OS thread to a given logical CPU on supported platforms.
// The caller is expected to hold runtime.LockOSThread; Pinner does this for you.
func SetAffinity(cpuID int) error {
	if cpuID < 0 || cpuID >= maxCPU {
		return api.NewError(api.ErrCodeInvalidArgument, "affinity: CPU index out of range").
			WithContext("cpu", cpuID).
			WithContext("max", maxCPU)
	}
	return setAffinityPlatform(cpuID)
}

// Pinner implements api.Affinity for the calling goroutine.
type Pinner struct{}

// Pin locks the goroutine to its OS thread and binds that thread to cpuID.
// On failure the thread lock is released again.
func (Pinner) Pin(cpuID int) error {
	runtime.LockOSThread()
	if err := SetAffinity(cpuID); err != nil {
		runtime.UnlockOSThread()
		return err
	}
	log.Printf("[affinity] thread pinned to CPU #%d", cpuID)
	return nil
}

// Unpin restores the process affinity mask and unlocks the OS thread.
func (Pinner) Unpin() error {
	err := resetAffinityPlatform()
	runtime.UnlockOSThread()
	return err
}
