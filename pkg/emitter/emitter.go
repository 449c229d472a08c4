// Package emitter is a synchronous publish/subscribe bus keyed by event name.
//
// Every event is declared once as an Event[T] value, which fixes its name and
// payload type. Listeners for an event are kept in registration order and are
// invoked on the caller's goroutine. A Bus is not safe for concurrent use.
//
// Listeners share one list per name. If two events reuse a name with different
// payload types, Emit only calls the listeners whose payload type matches.
package emitter

import (
	"golang.org/x/exp/slices"
)

type Event[T any] struct {
	name string
}

func NewEvent[T any](name string) Event[T] {
	return Event[T]{name: name}
}

func (e Event[T]) Name() string {
	return e.name
}

type listener struct {
	id uint64
	fn any
}

type Bus struct {
	listeners map[string][]*listener
	lastID    uint64
}

// On registers fn for ev and returns a function that removes it again.
func On[T any](b *Bus, ev Event[T], fn func(T)) (off func()) {
	if b.listeners == nil {
		b.listeners = make(map[string][]*listener)
	}

	b.lastID++
	l := &listener{id: b.lastID, fn: fn}
	b.listeners[ev.name] = append(b.listeners[ev.name], l)

	return func() {
		b.remove(ev.name, l.id)
	}
}

// Emit calls every listener registered for ev at the time of the call and
// returns how many were called. Removing a listener mid-emission does not stop
// it from receiving the current payload.
func Emit[T any](b *Bus, ev Event[T], payload T) int {
	called := 0
	for _, l := range slices.Clone(b.listeners[ev.name]) {
		fn, ok := l.fn.(func(T))
		if !ok {
			continue
		}
		fn(payload)
		called++
	}

	return called
}

func (b *Bus) ListenerCount(name string) int {
	return len(b.listeners[name])
}

func (b *Bus) RemoveAllListeners(name string) {
	delete(b.listeners, name)
}

func (b *Bus) remove(name string, id uint64) {
	list := b.listeners[name]
	index := slices.IndexFunc(list, func(l *listener) bool {
		return l.id == id
	})
	if index < 0 {
		return
	}

	// copy on remove so snapshots taken by an in-flight Emit stay intact
	next := slices.Delete(slices.Clone(list), index, index+1)
	if len(next) == 0 {
		delete(b.listeners, name)
		return
	}
	b.listeners[name] = next
}
