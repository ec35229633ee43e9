package flow

import "sync"

// State is a single-slot cell that always holds a value. New subscribers get
// the current value immediately and every accepted write afterwards. Whether
// a write is accepted is decided by the equality policy: NeverEqual replays
// duplicates, Comparable or DeepEqual suppress them.
//
// Writes are serialized with their delivery. Observers may Read and
// Unsubscribe, but must not Write or Subscribe to the same State.
type State[T any] struct {
	equal EqualFunc[T]
	subs  *registry[T]

	deliverMu sync.Mutex

	mu      sync.RWMutex
	value   T
	version uint64
}

func NewState[T any](initial T, equal EqualFunc[T], opts ...Option) *State[T] {
	if equal == nil {
		equal = NeverEqual[T]
	}
	return &State[T]{
		equal: equal,
		subs:  newRegistry[T](KindHotReplay, buildOptions(opts)),
		value: initial,
	}
}

func NewReplayState[T any](initial T, opts ...Option) *State[T] {
	return NewState(initial, NeverEqual[T], opts...)
}

func NewDistinctState[T comparable](initial T, opts ...Option) *State[T] {
	return NewState(initial, Comparable[T], opts...)
}

func (s *State[T]) Kind() Kind {
	return KindHotReplay
}

func (s *State[T]) Read() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Version counts accepted writes.
func (s *State[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Write stores v and delivers it, unless the equality policy says v is the
// value already held. It reports whether v was accepted.
func (s *State[T]) Write(v T) bool {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.equal(s.value, v) {
		s.mu.Unlock()
		return false
	}
	s.value = v
	s.version++
	s.mu.Unlock()

	s.subs.broadcast(v)
	return true
}

func (s *State[T]) Subscribe(obs Observer[T]) Subscription {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	sub, ok := s.subs.add(obs)
	if !ok {
		return sub
	}
	s.subs.deliver(obs, s.Read())
	return sub
}

func (s *State[T]) Subscribers() int {
	return s.subs.len()
}

// Close drops every subscriber. The value stays readable and writable.
func (s *State[T]) Close() {
	s.subs.close()
}
