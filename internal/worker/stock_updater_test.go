package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/metrics"
	testhelpers "github.com/polkiloo/orderservice/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(time.Second)
	for !cond() {
		select {
		case <-deadline:
			t.Fatal("timeout waiting for condition")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestNewStockUpdaterDefaults(t *testing.T) {
	u := NewStockUpdater(&testhelpers.StockAdjusterStub{}, 0, 0, 0, discardLogger(), nil)
	if u.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", u.workers)
	}
	if cap(u.jobs) != 1 {
		t.Fatalf("expected queue size default to workers, got %d", cap(u.jobs))
	}
	if u.jobTimeout != 10*time.Second {
		t.Fatalf("unexpected job timeout %v", u.jobTimeout)
	}
}

func TestStockUpdaterAppliesJobs(t *testing.T) {
	adjuster := &testhelpers.StockAdjusterStub{}
	u := NewStockUpdater(adjuster, 2, 4, time.Second, discardLogger(), nil)
	u.Start(context.Background())

	u.Schedule(model.StockAdjustment{OrderNumber: "ORD-1", ProductID: "p1", Quantity: 2, Token: "tok"})
	u.Schedule(model.StockAdjustment{OrderNumber: "ORD-1", ProductID: "p2", Quantity: 1, Token: "tok"})

	waitFor(t, func() bool { return len(adjuster.Recorded()) == 2 })
	u.Stop()

	for _, call := range adjuster.Recorded() {
		if call.Token != "tok" {
			t.Fatalf("expected caller token to be forwarded, got %+v", call)
		}
	}
}

func TestStockUpdaterOutlivesStartContext(t *testing.T) {
	adjuster := &testhelpers.StockAdjusterStub{}
	u := NewStockUpdater(adjuster, 1, 1, time.Second, discardLogger(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	u.Start(ctx)
	cancel()

	u.Schedule(model.StockAdjustment{ProductID: "p1", Quantity: 1})
	waitFor(t, func() bool { return len(adjuster.Recorded()) == 1 })
	u.Stop()
}

func TestStockUpdaterScheduleNeverBlocks(t *testing.T) {
	release := make(chan struct{})
	adjuster := &testhelpers.StockAdjusterStub{DecrementFn: func(ctx context.Context, _ string, _ int, _ string) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}}
	u := NewStockUpdater(adjuster, 1, 1, time.Second, discardLogger(), nil)
	u.Start(context.Background())

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			u.Schedule(model.StockAdjustment{ProductID: "p", Quantity: 1})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("schedule blocked on a full queue")
	}

	close(release)
	waitFor(t, func() bool { return len(adjuster.Recorded()) == 10 })
	u.Stop()
}

func TestStockUpdaterReportsFailures(t *testing.T) {
	logs := &syncBuffer{}
	m := metrics.New()
	adjuster := &testhelpers.StockAdjusterStub{Err: errors.New("insufficient stock")}
	u := NewStockUpdater(adjuster, 1, 1, time.Second, slog.New(slog.NewJSONHandler(logs, nil)), m)
	u.Start(context.Background())

	u.Schedule(model.StockAdjustment{OrderNumber: "ORD-9", ProductID: "p1", Quantity: 1})
	waitFor(t, func() bool { return len(adjuster.Recorded()) == 1 })
	u.Stop()

	out := logs.String()
	if !strings.Contains(out, "stock update failed") || !strings.Contains(out, "insufficient stock") || !strings.Contains(out, "ORD-9") {
		t.Fatalf("expected failure to be logged, got %s", out)
	}
	expected := `
# HELP orderservice_side_effect_failures_total Best-effort side effects that failed and were swallowed.
# TYPE orderservice_side_effect_failures_total counter
orderservice_side_effect_failures_total{operation="stock_update"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "orderservice_side_effect_failures_total"); err != nil {
		t.Fatalf("unexpected failure metric: %v", err)
	}
}

func TestStockUpdaterStopCancelsJobs(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	adjuster := &testhelpers.StockAdjusterStub{DecrementFn: func(ctx context.Context, _ string, _ int, _ string) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	}}
	u := NewStockUpdater(adjuster, 1, 1, time.Minute, discardLogger(), nil)
	u.Start(context.Background())
	u.Schedule(model.StockAdjustment{ProductID: "p1", Quantity: 1})
	<-started

	stopped := make(chan struct{})
	go func() {
		u.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop did not cancel running job")
	}
}

func TestStockUpdaterDropsAfterStop(t *testing.T) {
	logs := &syncBuffer{}
	adjuster := &testhelpers.StockAdjusterStub{}
	u := NewStockUpdater(adjuster, 1, 1, time.Second, slog.New(slog.NewJSONHandler(logs, nil)), nil)
	u.Start(context.Background())
	u.Stop()
	u.Stop()

	u.Schedule(model.StockAdjustment{OrderNumber: "ORD-5", ProductID: "p1", Quantity: 1})

	if len(adjuster.Recorded()) != 0 {
		t.Fatal("job scheduled after stop must not run")
	}
	if !strings.Contains(logs.String(), "stock update dropped") {
		t.Fatalf("expected drop to be logged, got %s", logs.String())
	}
}
