package shim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

const (
	// StatusOK means the work callback returned normally.
	StatusOK = 0
	// StatusPanicked means the work callback panicked. The panic was
	// recovered and logged.
	StatusPanicked = -1
)

// WorkFunc runs on a worker goroutine. It must not touch runtime values,
// only hint and the data it points to.
type WorkFunc func(w *Work, hint any)

// AfterWorkFunc runs on the goroutine that owns the runtime once the work
// callback finished.
type AfterWorkFunc func(ctx *Context, w *Work, status int, hint any)

// Work is one queued item. It is owned by the engine from QueueWork until
// its after-work callback returned.
type Work struct {
	work   WorkFunc
	after  AfterWorkFunc
	hint   any
	status int
	panic  any
}

// Panic returns what the work callback panicked with, if anything.
func (w *Work) Panic() any {
	return w.panic
}

type workQueue struct {
	sem     *semaphore.Weighted
	done    chan *Work
	pending int
	logger  *zap.Logger
}

func newWorkQueue(poolSize, queueSize int, logger *zap.Logger) *workQueue {
	return &workQueue{
		sem:    semaphore.NewWeighted(int64(poolSize)),
		done:   make(chan *Work, queueSize),
		logger: logger,
	}
}

func (q *workQueue) execute(w *Work) {
	// Acquire only fails for a cancelled context.
	_ = q.sem.Acquire(context.Background(), 1)
	defer q.sem.Release(1)

	func() {
		defer func() {
			if r := recover(); r != nil {
				w.status = StatusPanicked
				w.panic = r
				q.logger.Error("work callback panicked", zap.Any("panic", r))
			}
		}()
		w.work(w, w.hint)
	}()

	q.done <- w
}

// QueueWork runs work on a worker goroutine and afterwards after on the
// goroutine that drives RunLoop or Poll. Items are not ordered relative to
// each other. There is no cancellation.
func (e *Engine) QueueWork(work WorkFunc, after AfterWorkFunc, hint any) {
	w := &Work{
		work:  work,
		after: after,
		hint:  hint,
	}
	e.work.pending++
	go e.work.execute(w)
}

// PendingWork returns how many queued items have not completed their
// after-work callback yet.
func (e *Engine) PendingWork() int {
	return e.work.pending
}

func (e *Engine) complete(w *Work) error {
	e.work.pending--

	err := e.Run(func(ctx *Context) error {
		w.after(ctx, w, w.status, w.hint)
		return nil
	})
	w.work, w.after, w.hint = nil, nil, nil

	if err != nil {
		e.logger.Warn("after work left an uncaught exception", zap.Error(err))
		return fmt.Errorf("could not complete work: %w", err)
	}

	return e.drainTicks()
}

// RunLoop blocks until every queued item completed, ctx is done, or an
// after-work callback leaves an uncaught exception. It must be called from
// the goroutine that owns the runtime. Collected weak references are swept
// before it returns.
func (e *Engine) RunLoop(ctx context.Context) error {
	for e.work.pending > 0 {
		select {
		case w := <-e.work.done:
			if err := e.complete(w); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := e.drainTicks(); err != nil {
		return err
	}

	return e.Sweep()
}

// Poll completes the items that are ready without blocking.
func (e *Engine) Poll() error {
	for {
		select {
		case w := <-e.work.done:
			if err := e.complete(w); err != nil {
				return err
			}
		default:
			if err := e.drainTicks(); err != nil {
				return err
			}
			return e.Sweep()
		}
	}
}
