// Package api
// Author: momentics@gmail.com
//
// CPU affinity and thread pinning contract.

package api

// Affinity pins the calling goroutine's OS thread to a logical CPU.
type Affinity interface {
	// Pin locks the current goroutine to its OS thread and binds it to cpuID.
	Pin(cpuID int) error
	// Unpin releases the OS thread lock taken by Pin.
	Unpin() error
}
