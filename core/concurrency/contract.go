// File: core/concurrency/contract.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fatal precondition checks. A violation is a programmer error and panics
// with an *api.Error carrying api.ErrCodeContractViolation.

package concurrency

import (
	"fmt"
	"log"

	"github.com/momentics/hioload-ring/api"
)

// violate logs and panics. kv holds alternating context keys and values.
func violate(op, msg string, kv ...any) {
	err := api.NewError(api.ErrCodeContractViolation, fmt.Sprintf("ring: %s: %s", op, msg))
	for i := 0; i+1 < len(kv); i += 2 {
		err.WithContext(fmt.Sprint(kv[i]), kv[i+1])
	}
	log.Printf("[ring] contract violation: %v", err)
	panic(err)
}
