package flow

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

type entry[T any] struct {
	id  uint64
	obs Observer[T]
}

// registry keeps observers in subscription order. The live set is consulted
// on every delivery so an unsubscribe issued mid-broadcast, even from inside
// an observer, stops the remaining deliveries to that observer.
type registry[T any] struct {
	kind Kind
	opts options

	mu      sync.Mutex
	nextID  uint64
	entries []entry[T]
	closed  bool

	live mapset.Set[uint64]
}

func newRegistry[T any](kind Kind, opts options) *registry[T] {
	return &registry[T]{
		kind: kind,
		opts: opts,
		live: mapset.NewSet[uint64](),
	}
}

func (r *registry[T]) add(obs Observer[T]) (Subscription, bool) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		r.opts.report(r.kind, ErrClosed)
		return closedSubscription{}, false
	}
	r.nextID++
	id := r.nextID
	r.entries = append(r.entries, entry[T]{id: id, obs: obs})
	r.live.Add(id)
	r.mu.Unlock()

	return &handle[T]{id: id, r: r}, true
}

func (r *registry[T]) remove(id uint64) {
	if !r.live.Contains(id) {
		return
	}
	r.live.Remove(id)

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.id == id {
			r.entries = append(r.entries[:i:i], r.entries[i+1:]...)
			return
		}
	}
}

func (r *registry[T]) broadcast(v T) (delivered int) {
	r.mu.Lock()
	entries := r.entries
	r.mu.Unlock()

	for _, e := range entries {
		if !r.live.Contains(e.id) {
			continue
		}
		notify(r.opts, r.kind, e.obs, v)
		delivered++
	}
	return delivered
}

func (r *registry[T]) deliver(obs Observer[T], v T) {
	notify(r.opts, r.kind, obs, v)
}

func (r *registry[T]) len() int {
	return r.live.Cardinality()
}

func (r *registry[T]) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.entries = nil
	r.live.Clear()
}

type handle[T any] struct {
	id   uint64
	r    *registry[T]
	once sync.Once
}

func (h *handle[T]) Unsubscribe() {
	h.once.Do(func() {
		h.r.remove(h.id)
	})
}

func (h *handle[T]) Active() bool {
	return h.r.live.Contains(h.id)
}
