// Package notify implements synchronous observer lists whose listeners are
// isolated from each other: a panicking listener is recovered and logged and
// the remaining listeners still run.
package notify

import (
	"fmt"
	"log/slog"
	"sync"
)

// Topic is a named list of listeners for payloads of type T.
type Topic[T any] struct {
	name   string
	logger *slog.Logger

	mu        sync.Mutex
	nextID    uint64
	listeners []entry[T]
}

type entry[T any] struct {
	id uint64
	fn func(T)
}

// NewTopic returns an empty topic. A nil logger uses slog.Default().
func NewTopic[T any](name string, logger *slog.Logger) *Topic[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Topic[T]{name: name, logger: logger}
}

// Subscribe adds fn and returns a function that removes it again.
func (t *Topic[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, entry[T]{id: id, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, e := range t.listeners {
			if e.id == id {
				t.listeners = append(t.listeners[:i:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every listener in subscription order with v. It returns the
// number of listeners that panicked.
func (t *Topic[T]) Publish(v T) int {
	t.mu.Lock()
	snapshot := make([]entry[T], len(t.listeners))
	copy(snapshot, t.listeners)
	t.mu.Unlock()

	failed := 0
	for _, e := range snapshot {
		if err := t.call(e.fn, v); err != nil {
			failed++
			t.logger.Error("listener failed", "topic", t.name, "error", err)
		}
	}
	return failed
}

func (t *Topic[T]) call(fn func(T), v T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn(v)
	return nil
}

// Len returns the number of listeners.
func (t *Topic[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

// Clear removes every listener.
func (t *Topic[T]) Clear() {
	t.mu.Lock()
	t.listeners = nil
	t.mu.Unlock()
}
