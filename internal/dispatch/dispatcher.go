package dispatch

import (
	"context"
	"log/slog"
	"sync"

	"github.com/proc-track/workflow-service/internal/domain"
)

// Listener consumes domain events. Handlers run asynchronously relative to
// the triggering request; errors are theirs to log, not to propagate back.
type Listener interface {
	Handle(ctx context.Context, event domain.Event)
}

// Dispatcher is an explicit listener registry implementing domain.EventBus.
// Listeners are subscribed by event name during wiring in main; there are no
// implicit hooks.
type Dispatcher struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	wg        sync.WaitGroup
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[string][]Listener)}
}

func (d *Dispatcher) Subscribe(listener Listener, eventNames ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range eventNames {
		d.listeners[name] = append(d.listeners[name], listener)
	}
}

func (d *Dispatcher) Publish(event domain.Event) {
	d.mu.RLock()
	targets := d.listeners[event.EventName()]
	d.mu.RUnlock()

	for _, listener := range targets {
		d.wg.Add(1)
		go func(l Listener) {
			defer d.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("event listener panicked", "event", event.EventName(), "panic", r)
				}
			}()
			l.Handle(context.Background(), event)
		}(listener)
	}
}

// Wait blocks until all in-flight handlers finish. Used in tests and on
// shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
