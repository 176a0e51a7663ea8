package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/lumenhaus/lumen-core/internal/cache"
)

// Logger is the minimal logging interface the events package needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// defaultQueueSize is the dispatch queue depth before Publish blocks.
const defaultQueueSize = 256

// Invalidator drops stale cache entries for a changed entity.
type Invalidator interface {
	Invalidate(category cache.Category, entityID string) int
}

// Dispatcher routes domain events to the cache invalidator and the
// synchronizer.
//
// Dispatch is synchronous and invalidates before synchronizing, so a
// consumer reacting to a published document never reads a stale cache
// entry. The Run loop drains the queue for emitters that must not block on
// publishing.
type Dispatcher struct {
	invalidator  Invalidator
	synchronizer *Synchronizer
	logger       Logger

	queue chan Event

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// NewDispatcher creates a dispatcher over the invalidator and synchronizer.
func NewDispatcher(invalidator Invalidator, synchronizer *Synchronizer) *Dispatcher {
	return &Dispatcher{
		invalidator:  invalidator,
		synchronizer: synchronizer,
		logger:       noopLogger{},
		queue:        make(chan Event, defaultQueueSize),
	}
}

// SetLogger sets the logger for dispatch operations.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// Dispatch routes one event: cache invalidation first, then document
// synchronization.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case ConfigurationEvent:
		if e.Category.Valid() {
			d.invalidator.Invalidate(e.Category, e.EntityID)
		}
		return d.synchronizer.HandleConfiguration(ctx, e)

	case StateEvent:
		return d.synchronizer.HandleState(ctx, e)

	default:
		return fmt.Errorf("events: unknown event type %T", ev)
	}
}

// Publish enqueues an event for the dispatch loop. It blocks once the
// queue is full. Events published while the loop is not running are
// dropped with a warning.
func (d *Dispatcher) Publish(ev Event) {
	d.mu.Lock()
	running := d.running
	d.mu.Unlock()

	if !running {
		d.logger.Warn("event dropped, dispatcher not running")
		return
	}
	d.queue <- ev
}

// Start launches the dispatch loop. It returns an error if the loop is
// already running.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("events: dispatcher already running")
	}
	d.running = true
	d.quit = make(chan struct{})
	d.done = make(chan struct{})
	d.mu.Unlock()

	go d.run(ctx, d.quit, d.done)
	return nil
}

// Stop terminates the dispatch loop and waits for it to drain.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	quit := d.quit
	done := d.done
	d.mu.Unlock()

	close(quit)
	<-done
}

// run drains the queue until the context is cancelled or Stop is called.
// On Stop, events already queued are dispatched before the loop exits.
func (d *Dispatcher) run(ctx context.Context, quit, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("dispatcher stopping", "reason", ctx.Err())
			return
		case <-quit:
			d.drain(ctx)
			return
		case ev := <-d.queue:
			if err := d.Dispatch(ctx, ev); err != nil {
				d.logger.Error("event dispatch failed", "error", err)
			}
		}
	}
}

// drain dispatches whatever is left in the queue without blocking for more.
func (d *Dispatcher) drain(ctx context.Context) {
	for {
		select {
		case ev := <-d.queue:
			if err := d.Dispatch(ctx, ev); err != nil {
				d.logger.Error("event dispatch failed", "error", err)
			}
		default:
			return
		}
	}
}
