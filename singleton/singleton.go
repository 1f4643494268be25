// Package singleton implements the generic singleton of spec §4.E: a
// lazily-initialized, process-wide &'static T, with an optional call-site
// cache fast path built on typeslot.
package singleton

import (
	"context"
	"reflect"
	"sync"

	"resenje.org/singleflight"

	"github.com/jixio/lhc/internal/lhclog"
)

type entry struct {
	group singleflight.Group[string, any]
	value any
	ready bool
}

var (
	mu       sync.RWMutex
	registry = map[reflect.Type]*entry{}
)

func entryFor(t reflect.Type) *entry {
	mu.RLock()
	if e, ok := registry[t]; ok {
		mu.RUnlock()
		return e
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if e, ok := registry[t]; ok {
		return e
	}
	e := &entry{}
	registry[t] = e
	return e
}

// For returns the unique, process-wide value of type T, constructing it
// with ctor on first use. Concurrent first callers for the same T
// collapse onto a single ctor invocation via singleflight, which keeps
// the (potentially expensive) constructor call from running once per
// racing goroutine — spec §4.E step 3's "the user's potentially
// expensive constructor runs outside the write lock", translated using
// resenje.org/singleflight instead of a second OnceLock-style gate.
func For[T any](ctor func() T) *T {
	e := entryFor(reflect.TypeFor[T]())

	mu.RLock()
	ready := e.ready
	value := e.value
	mu.RUnlock()
	if ready {
		return value.(*T)
	}

	v, _, _ := e.group.Do(context.Background(), "fill", func(context.Context) (any, error) {
		mu.RLock()
		ready := e.ready
		value := e.value
		mu.RUnlock()
		if ready {
			return value, nil
		}
		built := ctor()
		mu.Lock()
		e.value = &built
		e.ready = true
		mu.Unlock()
		lhclog.Get().WithField("component", "singleton").WithField("type", reflect.TypeFor[T]().String()).Debug("registry fill")
		return &built, nil
	})

	return v.(*T)
}
