// Package flow holds the propagation primitives: a replaying state cell with a
// pluggable equality policy, a multicast event bus and a restartable cold
// sequence. All of them share one subscription surface.
package flow

import (
	"errors"
	"fmt"
	"reflect"
)

type Kind uint8

const (
	// KindCold sources re-run their production for every subscriber.
	KindCold Kind = iota
	// KindHot sources share one emission stream and never replay.
	KindHot
	// KindHotReplay sources share one stream and hand the latest value to
	// every new subscriber.
	KindHotReplay
)

func (k Kind) String() string {
	switch k {
	case KindCold:
		return "cold"
	case KindHot:
		return "hot"
	case KindHotReplay:
		return "hot+replay"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

func (k Kind) Replays() bool {
	return k == KindHotReplay
}

type Observer[T any] func(value T)

type Subscription interface {
	Unsubscribe()
	Active() bool
}

type Source[T any] interface {
	Kind() Kind
	Subscribe(obs Observer[T]) Subscription
}

type ReadSource[T any] interface {
	Source[T]
	Read() T
}

// ErrClosed is reported when subscribing to a primitive that was closed.
var ErrClosed = errors.New("flow: subscribe after close")

type OnErrorFunc func(from Kind, err error)

type ObserverPanicError struct {
	Kind      Kind
	Recovered any
}

func (e *ObserverPanicError) Error() string {
	return fmt.Sprintf("flow: %s observer panicked: %v", e.Kind, e.Recovered)
}

type Option func(*options)

type options struct {
	onError OnErrorFunc
}

// WithOnError routes misuse and recovered observer panics to fn. Without it
// observer panics propagate to the caller of Write/Emit, and end a cold
// execution with the panic kept in Execution.Err.
func WithOnError(fn OnErrorFunc) Option {
	return func(o *options) {
		o.onError = fn
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) report(from Kind, err error) {
	if o.onError != nil {
		o.onError(from, err)
	}
}

func notify[T any](o options, from Kind, obs Observer[T], v T) {
	if o.onError != nil {
		defer func() {
			if r := recover(); r != nil {
				o.onError(from, &ObserverPanicError{Kind: from, Recovered: r})
			}
		}()
	}
	obs(v)
}

// EqualFunc decides whether a write carries a new value.
type EqualFunc[T any] func(a, b T) bool

// NeverEqual treats every write as a change.
func NeverEqual[T any](a, b T) bool {
	return false
}

func Comparable[T comparable](a, b T) bool {
	return a == b
}

func DeepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

type closedSubscription struct{}

func (closedSubscription) Unsubscribe() {}
func (closedSubscription) Active() bool { return false }
