// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and hot-reload propagation,
// plus the typed ring settings view built on top of it.

package control

import (
	"fmt"
	"sync"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/core/concurrency"
)

// Configuration keys understood by RingConfigFrom.
const (
	KeyRingCapacity  = "ring.capacity"
	KeyBatchSize     = "ring.batch_size"
	KeyProducerCPU   = "ring.pin_producer_cpu"
	KeyConsumerCPU   = "ring.pin_consumer_cpu"
	KeyEnableMetrics = "ring.enable_metrics"
	KeyEnableDebug   = "ring.enable_debug"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config:    make(map[string]any),
		listeners: make([]func(), 0),
	}
}

// Get returns a single value.
func (cs *ConfigStore) Get(key string) (any, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	v, ok := cs.config[key]
	return v, ok
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	copy := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		copy[k] = v
	}
	return copy
}

// SetConfig merges new values and dispatches reload if needed.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	cs.dispatchReload()
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

// dispatchReload invokes all listeners.
func (cs *ConfigStore) dispatchReload() {
	for _, fn := range cs.listeners {
		go fn()
	}
}

// RingConfig is the typed view of the ring.* keys.
// Capacity cannot change for a live ring; reloads apply to the next build.
type RingConfig struct {
	Capacity      int  // Slots in the ring, power of two
	BatchSize     int  // Max elements moved per push/drain
	ProducerCPU   int  // CPU to pin the producer to, -1 to leave unpinned
	ConsumerCPU   int  // CPU to pin the consumer to, -1 to leave unpinned
	EnableMetrics bool // Publish ring stats to a MetricsRegistry
	EnableDebug   bool // Register a DumpState debug probe
}

// DefaultRingConfig returns default configuration values.
func DefaultRingConfig() RingConfig {
	return RingConfig{
		Capacity:      1024,
		BatchSize:     64,
		ProducerCPU:   -1,
		ConsumerCPU:   -1,
		EnableMetrics: true,
		EnableDebug:   true,
	}
}

// Validate checks value ranges.
func (c RingConfig) Validate() error {
	switch {
	case c.Capacity <= 0 || c.Capacity > concurrency.MaxCapacity || c.Capacity&(c.Capacity-1) != 0:
		return invalid(KeyRingCapacity, c.Capacity, "must be a power of two")
	case c.BatchSize <= 0 || c.BatchSize > c.Capacity:
		return invalid(KeyBatchSize, c.BatchSize, "must be in [1, capacity]")
	case c.ProducerCPU < -1:
		return invalid(KeyProducerCPU, c.ProducerCPU, "must be -1 or a CPU index")
	case c.ConsumerCPU < -1:
		return invalid(KeyConsumerCPU, c.ConsumerCPU, "must be -1 or a CPU index")
	}
	return nil
}

// Map flattens the config into store keys.
func (c RingConfig) Map() map[string]any {
	return map[string]any{
		KeyRingCapacity:  c.Capacity,
		KeyBatchSize:     c.BatchSize,
		KeyProducerCPU:   c.ProducerCPU,
		KeyConsumerCPU:   c.ConsumerCPU,
		KeyEnableMetrics: c.EnableMetrics,
		KeyEnableDebug:   c.EnableDebug,
	}
}

// RingConfigFrom overlays the store's ring.* keys on DefaultRingConfig and validates.
func RingConfigFrom(cs *ConfigStore) (RingConfig, error) {
	cfg := DefaultRingConfig()
	snap := cs.GetSnapshot()

	ints := []struct {
		key string
		dst *int
	}{
		{KeyRingCapacity, &cfg.Capacity},
		{KeyBatchSize, &cfg.BatchSize},
		{KeyProducerCPU, &cfg.ProducerCPU},
		{KeyConsumerCPU, &cfg.ConsumerCPU},
	}
	for _, f := range ints {
		v, ok := snap[f.key]
		if !ok {
			continue
		}
		n, ok := v.(int)
		if !ok {
			return cfg, invalid(f.key, v, fmt.Sprintf("expected int, got %T", v))
		}
		*f.dst = n
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{KeyEnableMetrics, &cfg.EnableMetrics},
		{KeyEnableDebug, &cfg.EnableDebug},
	}
	for _, f := range bools {
		v, ok := snap[f.key]
		if !ok {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return cfg, invalid(f.key, v, fmt.Sprintf("expected bool, got %T", v))
		}
		*f.dst = b
	}

	return cfg, cfg.Validate()
}

func invalid(key string, value any, reason string) error {
	return api.NewError(api.ErrCodeInvalidArgument, "control: invalid "+key+": "+reason).
		WithContext("key", key).
		WithContext("value", value)
}
