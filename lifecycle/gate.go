package lifecycle

import (
	"fmt"
	"sync"

	"github.com/delaneyj/flowparty/flow"
)

type State uint8

const (
	Inactive State = iota
	Active
	Destroyed
)

func (s State) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Destroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Signal is what the consumer reports about itself. Destroyed wins over
// Active.
type Signal struct {
	Active    bool
	Destroyed bool
}

func (s Signal) State() State {
	switch {
	case s.Destroyed:
		return Destroyed
	case s.Active:
		return Active
	default:
		return Inactive
	}
}

// Gate couples one observer's subscription to a consumer's lifecycle.
//
// While inactive, hot and cold deliveries are dropped; replay sources keep the
// latest value and hand it over once on reactivation. Destroying the gate
// unsubscribes exactly once and forgets the observer.
//
// Observers may Destroy the gate or report it inactive from inside a delivery.
// Reactivating from inside a delivery deadlocks.
type Gate[T any] struct {
	kind flow.Kind

	deliverMu sync.Mutex

	mu        sync.Mutex
	state     State
	obs       flow.Observer[T]
	sub       flow.Subscription
	latest    T
	hasLatest bool
	onDestroy func()
}

func NewGate[T any](src flow.Source[T], obs flow.Observer[T], initial State) *Gate[T] {
	g := &Gate[T]{
		kind:  src.Kind(),
		state: initial,
		obs:   obs,
	}
	if initial == Destroyed {
		g.obs = nil
		return g
	}

	sub := src.Subscribe(g.forward)

	g.mu.Lock()
	if g.state == Destroyed {
		g.mu.Unlock()
		sub.Unsubscribe()
		return g
	}
	g.sub = sub
	g.mu.Unlock()
	return g
}

func (g *Gate[T]) Kind() flow.Kind {
	return g.kind
}

func (g *Gate[T]) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Gate[T]) forward(v T) {
	g.deliverMu.Lock()
	defer g.deliverMu.Unlock()

	g.mu.Lock()
	if g.state == Destroyed {
		g.mu.Unlock()
		return
	}
	if g.kind.Replays() {
		g.latest, g.hasLatest = v, true
	}
	if g.state != Active {
		g.mu.Unlock()
		return
	}
	obs := g.obs
	g.mu.Unlock()

	obs(v)
}

func (g *Gate[T]) Report(sig Signal) {
	switch sig.State() {
	case Destroyed:
		g.Destroy()
	case Inactive:
		g.mu.Lock()
		if g.state == Active {
			g.state = Inactive
		}
		g.mu.Unlock()
	case Active:
		g.activate()
	}
}

func (g *Gate[T]) activate() {
	g.deliverMu.Lock()
	defer g.deliverMu.Unlock()

	g.mu.Lock()
	if g.state != Inactive {
		g.mu.Unlock()
		return
	}
	g.state = Active
	catchUp := g.kind.Replays() && g.hasLatest
	v, obs := g.latest, g.obs
	g.mu.Unlock()

	if catchUp {
		obs(v)
	}
}

// Destroy is terminal and idempotent.
func (g *Gate[T]) Destroy() {
	g.mu.Lock()
	if g.state == Destroyed {
		g.mu.Unlock()
		return
	}
	g.state = Destroyed
	sub, onDestroy := g.sub, g.onDestroy
	var zero T
	g.sub, g.obs, g.onDestroy = nil, nil, nil
	g.latest, g.hasLatest = zero, false
	g.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if onDestroy != nil {
		onDestroy()
	}
}

// setOnDestroy installs fn unless the gate is already gone, in which case it
// reports false.
func (g *Gate[T]) setOnDestroy(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Destroyed {
		return false
	}
	g.onDestroy = fn
	return true
}
