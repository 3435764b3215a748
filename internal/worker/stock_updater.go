package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/orderservice/internal/domain/model"
	"github.com/polkiloo/orderservice/internal/metrics"
)

// StockAdjuster decrements product stock in the product service.
type StockAdjuster interface {
	DecrementStock(ctx context.Context, productID string, quantity int, token string) error
}

// JobError reports a stock adjustment that could not be applied.
type JobError struct {
	Job model.StockAdjustment
	Err error
}

func (e *JobError) Error() string {
	return fmt.Sprintf("decrement stock for product %s: %v", e.Job.ProductID, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// StockUpdater applies stock decrements in the background. Jobs outlive the
// request that scheduled them and failures never reach the caller.
type StockUpdater struct {
	adjuster   StockAdjuster
	workers    int
	jobTimeout time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics

	jobs    chan model.StockAdjustment
	errs    chan error
	drained chan struct{}
	wg      sync.WaitGroup

	mu      sync.RWMutex
	runCtx  context.Context
	cancel  context.CancelFunc
	started bool
	stopped bool
}

// NewStockUpdater constructs the worker pool.
func NewStockUpdater(adjuster StockAdjuster, workers, queueSize int, jobTimeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *StockUpdater {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}
	if jobTimeout <= 0 {
		jobTimeout = 10 * time.Second
	}
	return &StockUpdater{
		adjuster:   adjuster,
		workers:    workers,
		jobTimeout: jobTimeout,
		logger:     logger,
		metrics:    m,
		jobs:       make(chan model.StockAdjustment, queueSize),
		errs:       make(chan error, workers),
		drained:    make(chan struct{}),
	}
}

// Start launches the workers and the error drain. Jobs keep running after ctx
// is cancelled; only Stop ends them.
func (u *StockUpdater) Start(ctx context.Context) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.started || u.stopped {
		return
	}
	u.started = true

	u.runCtx, u.cancel = context.WithCancel(context.WithoutCancel(ctx))

	go u.drainErrors()
	for i := 0; i < u.workers; i++ {
		u.wg.Add(1)
		go u.worker(u.runCtx)
	}
}

// Schedule enqueues job without blocking. When the queue is full the job runs
// on its own goroutine.
func (u *StockUpdater) Schedule(job model.StockAdjustment) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	if u.stopped {
		u.dropped(job, "stock updater stopped")
		return
	}

	select {
	case u.jobs <- job:
		return
	default:
	}

	if !u.started {
		u.dropped(job, "stock queue full before start")
		return
	}
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		u.process(u.runCtx, job)
	}()
}

// Stop cancels in-flight jobs, waits for every goroutine and flushes errors.
func (u *StockUpdater) Stop() {
	u.mu.Lock()
	if u.stopped {
		u.mu.Unlock()
		return
	}
	u.stopped = true
	started := u.started
	if u.cancel != nil {
		u.cancel()
	}
	u.mu.Unlock()

	u.wg.Wait()

drain:
	for {
		select {
		case job := <-u.jobs:
			u.dropped(job, "stock updater stopped")
		default:
			break drain
		}
	}

	if started {
		close(u.errs)
		<-u.drained
	}
}

func (u *StockUpdater) worker(ctx context.Context) {
	defer u.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-u.jobs:
			u.process(ctx, job)
		}
	}
}

func (u *StockUpdater) process(ctx context.Context, job model.StockAdjustment) {
	jobCtx, cancel := context.WithTimeout(ctx, u.jobTimeout)
	defer cancel()

	if err := u.adjuster.DecrementStock(jobCtx, job.ProductID, job.Quantity, job.Token); err != nil {
		u.errs <- &JobError{Job: job, Err: err}
	}
}

func (u *StockUpdater) drainErrors() {
	defer close(u.drained)
	for err := range u.errs {
		attrs := []any{slog.String("error", err.Error())}
		if jobErr, ok := err.(*JobError); ok {
			attrs = append(attrs,
				slog.String("order_number", jobErr.Job.OrderNumber),
				slog.String("product_id", jobErr.Job.ProductID),
				slog.Int("quantity", jobErr.Job.Quantity),
			)
		}
		u.logger.Error("stock update failed", attrs...)
		u.metrics.SideEffectFailed(metrics.OperationStockUpdate)
	}
}

func (u *StockUpdater) dropped(job model.StockAdjustment, reason string) {
	u.logger.Warn("stock update dropped",
		slog.String("reason", reason),
		slog.String("order_number", job.OrderNumber),
		slog.String("product_id", job.ProductID),
	)
	u.metrics.SideEffectFailed(metrics.OperationStockUpdate)
}
