package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/semaphore"
)

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many units of work run in parallel.
	// If zero or negative, defaults to runtime.NumCPU().
	WorkerCount int
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig sized to the machine.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{WorkerCount: runtime.NumCPU()}
}

// WorkerPool is a bounded pool of goroutines for CPU-bound work.
type WorkerPool struct {
	pool *ants.Pool
	// slots admits at most one queued task per worker, so submitters wait
	// here, where ctx is honored, rather than inside ants.
	slots  *semaphore.Weighted
	logger *slog.Logger
}

// antsLogger adapts slog.Logger to the ants.Logger interface.
type antsLogger struct {
	logger *slog.Logger
}

func (l antsLogger) Printf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

// NewWorkerPool creates a worker pool with the specified configuration.
func NewWorkerPool(config WorkerPoolConfig, logger *slog.Logger) (*WorkerPool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "worker_pool")

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
		logger.Debug("worker count not specified, using CPU count",
			"specified_count", config.WorkerCount,
			"default_count", workerCount)
	}

	pool, err := ants.NewPool(workerCount, ants.WithLogger(antsLogger{logger: logger}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	logger.Info("worker pool started", "worker_count", workerCount)
	return &WorkerPool{
		pool:   pool,
		slots:  semaphore.NewWeighted(int64(workerCount)),
		logger: logger,
	}, nil
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return p.pool.Cap()
}

// Running returns the number of workers currently executing work.
func (p *WorkerPool) Running() int {
	return p.pool.Running()
}

// Release stops the pool. Work already running finishes; further
// submissions fail with ErrPoolClosed.
func (p *WorkerPool) Release() {
	p.pool.Release()
	p.logger.Info("worker pool released")
}

type result[T any] struct {
	value T
	err   error
}

// Run executes fn on the pool and waits for its result or for ctx to end.
// While every worker is busy, Run waits for one to free up or for ctx to
// end. When ctx ends first, Run returns ctx.Err() and the result of fn, if
// it still runs, is discarded.
func Run[T any](ctx context.Context, p *WorkerPool, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if p.pool.IsClosed() {
		return zero, ErrPoolClosed
	}
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	done := make(chan result[T], 1)
	err := p.pool.Submit(func() {
		defer p.slots.Release(1)
		if ctx.Err() != nil {
			done <- result[T]{err: ctx.Err()}
			return
		}
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("task panicked", "panic", r)
				done <- result[T]{err: fmt.Errorf("%w: %v", ErrTaskPanicked, r)}
			}
		}()
		v, err := fn()
		done <- result[T]{value: v, err: err}
	})
	if err != nil {
		p.slots.Release(1)
		if errors.Is(err, ants.ErrPoolClosed) {
			return zero, ErrPoolClosed
		}
		return zero, fmt.Errorf("failed to submit task: %w", err)
	}

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
