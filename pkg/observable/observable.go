// Package observable provides a single-slot cell that remembers its current
// value and notifies subscribers synchronously whenever it changes.
package observable

import "sync"

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Value is a broadcast-with-current-value cell. Deliveries are serialized:
// a subscriber never sees two values concurrently and always sees them in
// the order they were set.
//
// Callbacks may call Get and may unsubscribe, but must not call Set or
// Subscribe on the same Value.
type Value[T any] struct {
	mu          sync.RWMutex
	deliver     sync.Mutex
	current     T
	subscribers []subscriber[T]
	nextID      uint64
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{current: initial}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.current
}

// Set replaces the current value and calls every subscriber, in
// subscription order, before returning.
func (v *Value[T]) Set(value T) {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	v.current = value
	subs := make([]subscriber[T], len(v.subscribers))
	copy(subs, v.subscribers)
	v.mu.Unlock()

	for _, s := range subs {
		s.fn(value)
	}
}

// Subscribe registers fn and immediately calls it with the current value.
// The returned function removes the subscription; calling it more than once
// is harmless.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.deliver.Lock()
	defer v.deliver.Unlock()

	v.mu.Lock()
	v.nextID++
	id := v.nextID
	v.subscribers = append(v.subscribers, subscriber[T]{id: id, fn: fn})
	current := v.current
	v.mu.Unlock()

	fn(current)

	var once sync.Once

	return func() {
		once.Do(func() {
			v.remove(id)
		})
	}
}

func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return len(v.subscribers)
}

func (v *Value[T]) remove(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, s := range v.subscribers {
		if s.id == id {
			v.subscribers = append(v.subscribers[:i:i], v.subscribers[i+1:]...)
			return
		}
	}
}
