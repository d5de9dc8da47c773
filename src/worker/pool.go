package worker

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"plot-lasso/src/selection"
)

// ErrBusy is returned when a report is dropped because the queue is full.
var ErrBusy = errors.New("worker: queue full, report dropped")

// Task is one unit of work.
type Task func(ctx context.Context) error

// ResultCallback is invoked on task completion (from a worker goroutine).
// Callers that need the result on their own goroutine must hand it over.
type ResultCallback func(err error)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	jobs   chan job
	wg     sync.WaitGroup
	logger *slog.Logger
}

type job struct {
	ctx  context.Context
	task Task
	cb   ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int, logger *slog.Logger) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Pool{jobs: make(chan job, 1), logger: logger}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				err := j.ctx.Err()
				if err == nil {
					err = j.task(j.ctx)
				}
				if err != nil {
					p.logger.Debug("task failed", "error", err)
				}
				if j.cb != nil {
					j.cb(err)
				}
			}
		}()
	}
}

// Submit enqueues a task if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, task Task, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, task: task, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}

// AsyncTarget delivers reports on a pool so the event loop does not wait on
// slow targets such as the clipboard. A report submitted while the pool is
// busy is dropped with ErrBusy.
type AsyncTarget struct {
	Ctx    context.Context
	Pool   *Pool
	Target selection.ReportTarget
	// OnDone, if set, receives the delivery result on a worker goroutine.
	OnDone ResultCallback
}

var _ selection.ReportTarget = AsyncTarget{}

func (t AsyncTarget) OnSuccess(report string) error {
	ctx := t.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	task := func(context.Context) error {
		if err := t.Target.OnSuccess(report); err != nil {
			if ferr := t.Target.OnFailure(err); ferr != nil {
				return errors.Join(err, ferr)
			}
			return err
		}
		return nil
	}
	if !t.Pool.Submit(ctx, task, t.OnDone) {
		return ErrBusy
	}
	return nil
}

func (t AsyncTarget) OnFailure(err error) error {
	return t.Target.OnFailure(err)
}
