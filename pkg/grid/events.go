package grid

import (
	"slices"
	"sync"
)

const (
	// EventChange fires when the selection changes.
	EventChange = "change"
	// EventDataBound fires once per completed refresh.
	EventDataBound = "dataBound"
)

// Event is passed to handlers.
type Event struct {
	Name string
	Grid *Grid
}

// Handler receives grid events.
type Handler func(Event)

type emitter struct {
	mu       sync.Mutex
	next     int
	handlers map[string]map[int]Handler
	pending  []string
}

func newEmitter() *emitter {
	return &emitter{handlers: make(map[string]map[int]Handler)}
}

func (e *emitter) bind(name string, fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.next
	e.next++
	if e.handlers[name] == nil {
		e.handlers[name] = make(map[int]Handler)
	}
	e.handlers[name][id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.handlers[name], id)
	}
}

// queue records an event to deliver on the next flush. Safe to call while the
// grid lock is held.
func (e *emitter) queue(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = append(e.pending, name)
}

// flush delivers queued events in order. It must run without the grid lock
// so handlers can call back into the grid.
func (e *emitter) flush(g *Grid) {
	for {
		e.mu.Lock()
		if len(e.pending) == 0 {
			e.mu.Unlock()
			return
		}
		name := e.pending[0]
		e.pending = e.pending[1:]
		ids := make([]int, 0, len(e.handlers[name]))
		for id := range e.handlers[name] {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		fns := make([]Handler, 0, len(ids))
		for _, id := range ids {
			fns = append(fns, e.handlers[name][id])
		}
		e.mu.Unlock()

		for _, fn := range fns {
			fn(Event{Name: name, Grid: g})
		}
	}
}
