// Package feed provides in-process live subscriptions: a publisher pushes a
// fresh snapshot on every mutation and each registered callback receives it.
package feed

import "sync"

// Feed fans snapshots of type T out to subscribers. The zero value is ready
// to use. Callbacks run synchronously on the publishing goroutine, in
// subscription order, and must not block.
type Feed[T any] struct {
	mu   sync.Mutex
	next uint64
	subs []subscription[T]
}

type subscription[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe registers fn and returns a function that removes it. Calling
// the returned function more than once is harmless.
func (f *Feed[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	f.mu.Lock()
	f.next++
	id := f.next
	f.subs = append(f.subs, subscription[T]{id: id, fn: fn})
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, s := range f.subs {
				if s.id == id {
					f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers v to every current subscriber.
func (f *Feed[T]) Publish(v T) {
	f.mu.Lock()
	subs := make([]subscription[T], len(f.subs))
	copy(subs, f.subs)
	f.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len returns the number of active subscribers.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
