package flow

import "sync"

// Bus multicasts each emission to the observers subscribed at that moment.
// Nothing is buffered: an emission with no observers is gone.
type Bus[T any] struct {
	subs *registry[T]

	emitMu sync.Mutex
}

func NewBus[T any](opts ...Option) *Bus[T] {
	return &Bus[T]{
		subs: newRegistry[T](KindHot, buildOptions(opts)),
	}
}

func (b *Bus[T]) Kind() Kind {
	return KindHot
}

// Emit returns how many observers received v.
func (b *Bus[T]) Emit(v T) int {
	b.emitMu.Lock()
	defer b.emitMu.Unlock()
	return b.subs.broadcast(v)
}

func (b *Bus[T]) Subscribe(obs Observer[T]) Subscription {
	sub, _ := b.subs.add(obs)
	return sub
}

func (b *Bus[T]) Subscribers() int {
	return b.subs.len()
}

func (b *Bus[T]) Close() {
	b.subs.close()
}
