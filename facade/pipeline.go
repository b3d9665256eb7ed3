// File: facade/pipeline.go
// Unified facade layer for hioload-ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pipeline aggregates one SPSC ring with its producer and consumer goroutines,
// optional CPU pinning, metrics and debug probes, all configured from
// control.RingConfig. The producer pulls batches from a Source, the consumer
// drains into a Sink.

package facade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/momentics/hioload-ring/affinity"
	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/core/concurrency"
)

// Source yields up to limit elements per call. Return io.EOF (with or without
// a final batch) to end the stream. Sources must honor ctx cancellation.
type Source[T any] func(ctx context.Context, limit int) ([]T, error)

// Sink receives drained batches in FIFO order.
type Sink[T any] func(batch []T) error

// SliceSource serves items in chunks and then io.EOF.
func SliceSource[T any](items []T) Source[T] {
	return func(ctx context.Context, limit int) ([]T, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n := min(limit, len(items))
		batch := items[:n]
		items = items[n:]
		if len(items) == 0 {
			return batch, io.EOF
		}
		return batch, nil
	}
}

// Pipeline runs a single producer and a single consumer over one ring.
type Pipeline[T any] struct {
	name     string
	cfg      control.RingConfig
	producer *concurrency.Producer[T]
	consumer *concurrency.Consumer[T]
	metrics  *control.MetricsRegistry // nil when metrics are disabled
	debug    *control.DebugProbes     // nil when debug is disabled
	pinner   api.Affinity
	started  atomic.Bool
}

// NewPipeline validates cfg and allocates the ring.
func NewPipeline[T any](name string, cfg control.RingConfig) (*Pipeline[T], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prod, cons, err := concurrency.NewPair[T](cfg.Capacity)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: ring init failure: %w", name, err)
	}
	p := &Pipeline[T]{
		name:     name,
		cfg:      cfg,
		producer: prod,
		consumer: cons,
		pinner:   affinity.Pinner{},
	}
	if cfg.EnableMetrics {
		p.metrics = control.NewMetricsRegistry()
		p.metrics.PublishRingStats(name, prod.Stats())
	}
	if cfg.EnableDebug {
		p.debug = control.NewDebugProbes()
		p.debug.RegisterProbe(name, func() any { return prod.DumpState() })
		control.RegisterPlatformProbes(p.debug)
	}
	return p, nil
}

// NewPipelineFromStore builds a pipeline from the ring.* keys of cs.
func NewPipelineFromStore[T any](name string, cs *control.ConfigStore) (*Pipeline[T], error) {
	cfg, err := control.RingConfigFrom(cs)
	if err != nil {
		return nil, err
	}
	return NewPipeline[T](name, cfg)
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline[T]) Config() control.RingConfig { return p.cfg }

// Metrics returns the registry, or nil when metrics are disabled.
func (p *Pipeline[T]) Metrics() *control.MetricsRegistry { return p.metrics }

// Debug returns the probe registry, or nil when debug is disabled.
func (p *Pipeline[T]) Debug() *control.DebugProbes { return p.debug }

// Stats returns the ring counters.
func (p *Pipeline[T]) Stats() concurrency.Stats { return p.producer.Stats() }

// Run moves every element from src to sink and returns once both goroutines
// have exited. A pipeline runs at most once. A sink error cancels the
// producer; a producer error or ctx cancellation closes the ring, after
// which the consumer drains what is buffered and stops.
func (p *Pipeline[T]) Run(ctx context.Context, src Source[T], sink Sink[T]) error {
	if !p.started.CompareAndSwap(false, true) {
		return api.ErrPipelineClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg               sync.WaitGroup
		prodErr, consErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer p.producer.Close()
		defer p.pin("producer", p.cfg.ProducerCPU)()
		if prodErr = p.produce(ctx, src); prodErr != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		defer p.pin("consumer", p.cfg.ConsumerCPU)()
		if consErr = p.consume(sink); consErr != nil {
			cancel()
		}
	}()
	wg.Wait()

	s := p.producer.Stats()
	p.publish(s)
	log.Printf("[pipeline] %s done: pushed=%d popped=%d", p.name, s.Pushed, s.Popped)

	if consErr != nil {
		return consErr
	}
	return prodErr
}

// pin binds the calling goroutine to cpu when cpu >= 0 and returns the undo func.
// Pinning failures are logged and the goroutine runs unpinned.
func (p *Pipeline[T]) pin(role string, cpu int) func() {
	if cpu < 0 {
		return func() {}
	}
	if err := p.pinner.Pin(cpu); err != nil {
		log.Printf("[pipeline] %s %s CPU affinity warning: %v", p.name, role, err)
		return func() {}
	}
	return func() {
		if err := p.pinner.Unpin(); err != nil {
			log.Printf("[pipeline] %s %s unpin warning: %v", p.name, role, err)
		}
	}
}

func (p *Pipeline[T]) produce(ctx context.Context, src Source[T]) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch, err := src(ctx, p.cfg.BatchSize)
		if len(batch) > 0 {
			if perr := p.push(ctx, batch); perr != nil {
				return perr
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("pipeline %s: source: %w", p.name, err)
		}
	}
}

// push writes batch in chunks that fit the free space, yielding while full.
// Capacity is checked here because Push treats over-booking as fatal.
func (p *Pipeline[T]) push(ctx context.Context, batch []T) error {
	for len(batch) > 0 {
		free := p.producer.UnusedSize()
		if free == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			runtime.Gosched()
			continue
		}
		n := min(free, len(batch))
		p.producer.Push(batch[:n])
		p.producer.NotifyOne()
		batch = batch[n:]
	}
	return nil
}

func (p *Pipeline[T]) consume(sink Sink[T]) error {
	for {
		if p.consumer.Empty() {
			if p.consumer.Closed() && p.consumer.Empty() {
				return nil
			}
			p.consumer.Wait()
			continue
		}
		batch := p.consumer.PopN(p.cfg.BatchSize)
		if err := sink(batch); err != nil {
			return fmt.Errorf("pipeline %s: sink: %w", p.name, err)
		}
		p.publish(p.consumer.Stats())
	}
}

func (p *Pipeline[T]) publish(s concurrency.Stats) {
	if p.metrics != nil {
		p.metrics.PublishRingStats(p.name, s)
	}
}
