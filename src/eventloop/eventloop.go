package eventloop

import (
	"context"
	"errors"
	"log/slog"

	"plot-lasso/src/lasso"
)

// ErrStopped is returned by Post and Do once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Loop is the single-threaded coordinator that owns a lasso.Controller.
// Window callbacks, the global key hook and replay scripts all post into it,
// so the controller and its handlers only ever run on the loop goroutine.
type Loop struct {
	ctrl   *lasso.Controller
	logger *slog.Logger

	events chan lasso.Event
	calls  chan func()
	done   chan struct{}

	// OnError is called on the loop goroutine with every handler error.
	OnError func(ev lasso.Event, err error)
}

// New creates a loop around ctrl. Nothing is processed until Run.
func New(ctrl *lasso.Controller, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		ctrl:   ctrl,
		logger: logger,
		events: make(chan lasso.Event, 64),
		calls:  make(chan func()),
		done:   make(chan struct{}),
	}
}

// Controller returns the controller owned by the loop. Use it only from
// closures passed to Do.
func (l *Loop) Controller() *lasso.Controller { return l.ctrl }

// Post queues ev. Events from one goroutine are handled in the order they
// were posted. Post blocks while the queue is full.
func (l *Loop) Post(ctx context.Context, ev lasso.Event) error {
	select {
	case l.events <- ev:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop goroutine after every event posted before it and
// waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	call := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.calls <- call:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes events until ctx is cancelled. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-l.events:
			l.handle(ev)
		case call := <-l.calls:
			// Drain events queued ahead of the call so it observes them.
			l.drain()
			call()
		}
	}
}

func (l *Loop) drain() {
	for {
		select {
		case ev := <-l.events:
			l.handle(ev)
		default:
			return
		}
	}
}

func (l *Loop) handle(ev lasso.Event) {
	if err := l.ctrl.Handle(ev); err != nil {
		l.logger.Error("lasso handler failed", "event", ev.String(), "error", err)
		if l.OnError != nil {
			l.OnError(ev, err)
		}
	}
}
