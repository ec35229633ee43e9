package lifecycle

import (
	"errors"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/flowparty/flow"
)

// ErrDestroyed is reported when binding to an owner that is already gone.
var ErrDestroyed = errors.New("lifecycle: bind after destroy")

type bound interface {
	Report(Signal)
	Destroy()
}

// Owner is the consumer side of the lifecycle: it remembers the last reported
// state and fans every signal out to the gates bound to it.
type Owner struct {
	mu      sync.Mutex
	state   State
	gates   mapset.Set[bound]
	onError func(err error)
}

type OwnerOption func(*Owner)

func WithOnError(fn func(err error)) OwnerOption {
	return func(o *Owner) {
		o.onError = fn
	}
}

func NewOwner(initial State, opts ...OwnerOption) *Owner {
	o := &Owner{
		state: initial,
		gates: mapset.NewSet[bound](),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Owner) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Gates returns how many live gates are bound.
func (o *Owner) Gates() int {
	return o.gates.Cardinality()
}

func (o *Owner) Report(sig Signal) {
	o.mu.Lock()
	if o.state == Destroyed {
		o.mu.Unlock()
		return
	}
	o.state = sig.State()
	o.mu.Unlock()

	for _, g := range o.gates.ToSlice() {
		g.Report(sig)
	}
}

func (o *Owner) Start() {
	o.Report(Signal{Active: true})
}

func (o *Owner) Stop() {
	o.Report(Signal{})
}

func (o *Owner) Destroy() {
	o.Report(Signal{Destroyed: true})
}

// Bind subscribes obs to src through a gate that follows this owner. Binding
// to a destroyed owner yields a destroyed gate that never delivers.
func Bind[T any](o *Owner, src flow.Source[T], obs flow.Observer[T]) *Gate[T] {
	initial := o.State()
	if initial == Destroyed {
		if o.onError != nil {
			o.onError(ErrDestroyed)
		}
		return NewGate(src, obs, Destroyed)
	}

	g := NewGate(src, obs, initial)
	o.gates.Add(g)
	if !g.setOnDestroy(func() { o.gates.Remove(g) }) {
		o.gates.Remove(g)
		return g
	}

	// the owner may have moved on while the gate was subscribing
	if now := o.State(); now != initial {
		g.Report(Signal{Active: now == Active, Destroyed: now == Destroyed})
	}
	return g
}
