// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics and debug introspection for hioload-ring.
//
// Provides concurrent-safe state handling primitives including:
//   - Snapshot config reads, merges and reload listeners
//   - The typed RingConfig view with defaults and validation
//   - Ring statistics publishing
//   - State export, debug hooks, and probe registration
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
