package facade_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/control"
	"github.com/momentics/hioload-ring/facade"
)

func testConfig() control.RingConfig {
	cfg := control.DefaultRingConfig()
	cfg.Capacity = 16
	cfg.BatchSize = 7
	return cfg
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// runWithTimeout fails the test if Run does not return promptly.
func runWithTimeout[T any](t *testing.T, ctx context.Context, p *facade.Pipeline[T], src facade.Source[T], sink facade.Sink[T]) error {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- p.Run(ctx, src, sink) }()
	select {
	case err := <-errc:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("pipeline did not finish")
		return nil
	}
}

func TestPipeline_DeliversInOrder(t *testing.T) {
	p, err := facade.NewPipeline[int]("ints", testConfig())
	if err != nil {
		t.Fatal(err)
	}

	var got []int
	sink := func(batch []int) error {
		if len(batch) > 7 {
			t.Errorf("batch of %d exceeds batch size", len(batch))
		}
		got = append(got, batch...)
		return nil
	}
	if err := runWithTimeout(t, context.Background(), p, facade.SliceSource(seq(1000)), sink); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !slices.Equal(got, seq(1000)) {
		t.Fatalf("received %d elements out of order or incomplete", len(got))
	}

	snap := p.Metrics().GetSnapshot()
	if snap["ints.pushed"] != uint64(1000) || snap["ints.popped"] != uint64(1000) {
		t.Errorf("unexpected metrics %v", snap)
	}
	if snap["ints.closed"] != true {
		t.Errorf("expected ring closed after run, metrics %v", snap)
	}
	state := p.Debug().DumpState()
	if _, ok := state["ints"]; !ok {
		t.Errorf("expected ring probe in %v", state)
	}
}

func TestPipeline_RunOnce(t *testing.T) {
	p, err := facade.NewPipeline[int]("once", testConfig())
	if err != nil {
		t.Fatal(err)
	}
	sink := func([]int) error { return nil }
	if err := runWithTimeout(t, context.Background(), p, facade.SliceSource([]int{1}), sink); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := p.Run(context.Background(), facade.SliceSource([]int{1}), sink); !errors.Is(err, api.ErrPipelineClosed) {
		t.Fatalf("expected ErrPipelineClosed, got %v", err)
	}
}

func TestPipeline_SinkErrorStopsProducer(t *testing.T) {
	p, err := facade.NewPipeline[int]("failing", testConfig())
	if err != nil {
		t.Fatal(err)
	}

	endless := func(ctx context.Context, limit int) ([]int, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return seq(limit), nil
	}
	boom := errors.New("sink failed")
	calls := 0
	sink := func([]int) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	}

	err = runWithTimeout(t, context.Background(), p, endless, sink)
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestPipeline_SourceError(t *testing.T) {
	cfg := testConfig()
	cfg.EnableMetrics = false
	cfg.EnableDebug = false
	p, err := facade.NewPipeline[int]("src", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if p.Metrics() != nil || p.Debug() != nil {
		t.Fatal("expected metrics and debug disabled")
	}

	bad := errors.New("source failed")
	sent := false
	src := func(ctx context.Context, limit int) ([]int, error) {
		if sent {
			return nil, bad
		}
		sent = true
		return []int{1, 2, 3}, nil
	}
	var got []int
	sink := func(batch []int) error {
		got = append(got, batch...)
		return nil
	}

	err = runWithTimeout(t, context.Background(), p, src, sink)
	if !errors.Is(err, bad) {
		t.Fatalf("expected source error, got %v", err)
	}
	if !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("buffered elements must drain after producer failure, got %v", got)
	}
}

func TestPipeline_ContextCancel(t *testing.T) {
	p, err := facade.NewPipeline[int]("cancel", testConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	blocking := func(ctx context.Context, limit int) ([]int, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	time.AfterFunc(20*time.Millisecond, cancel)

	err = runWithTimeout(t, ctx, p, blocking, func([]int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewPipeline_InvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Capacity = 12
	if _, err := facade.NewPipeline[int]("bad", cfg); !errors.Is(err, api.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestNewPipelineFromStore(t *testing.T) {
	cs := control.NewConfigStore()
	cs.SetConfig(map[string]any{
		control.KeyRingCapacity: 32,
		control.KeyBatchSize:    4,
	})
	p, err := facade.NewPipelineFromStore[string]("store", cs)
	if err != nil {
		t.Fatal(err)
	}
	if p.Config().Capacity != 32 || p.Config().BatchSize != 4 {
		t.Fatalf("unexpected config %+v", p.Config())
	}
	if p.Stats().Capacity != 32 {
		t.Fatalf("ring capacity %d, expected 32", p.Stats().Capacity)
	}
}
