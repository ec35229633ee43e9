package flow

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Cold describes a finite, time-spaced production. Nothing runs until a
// subscriber arrives, and every subscriber gets its own run from index 0.
//
// Observers run on the execution's goroutine. Without an error hook a
// panicking observer ends its execution and the panic is kept in
// Execution.Err.
type Cold[T any] struct {
	count   int
	delay   time.Duration
	produce func(i int) T
	scope   context.Context
	opts    options
}

func NewColdSequence[T any](count int, delay time.Duration, produce func(i int) T, opts ...Option) *Cold[T] {
	return &Cold[T]{
		count:   count,
		delay:   delay,
		produce: produce,
		scope:   context.Background(),
		opts:    buildOptions(opts),
	}
}

func (c *Cold[T]) Kind() Kind {
	return KindCold
}

func (c *Cold[T]) Count() int {
	return c.count
}

func (c *Cold[T]) Delay() time.Duration {
	return c.delay
}

// WithContext returns a copy whose executions are cancelled with ctx. Starting
// from a copy whose scope is already done reports ErrClosed.
func (c *Cold[T]) WithContext(ctx context.Context) *Cold[T] {
	cp := *c
	cp.scope = ctx
	return &cp
}

func (c *Cold[T]) Subscribe(obs Observer[T]) Subscription {
	return c.Start(obs)
}

func (c *Cold[T]) Start(obs Observer[T]) *Execution {
	return c.StartContext(context.Background(), obs)
}

func (c *Cold[T]) StartContext(ctx context.Context, obs Observer[T]) *Execution {
	ctx, cancel := context.WithCancel(ctx)
	e := &Execution{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	if c.scope.Err() != nil {
		cancel()
		close(e.done)
		c.opts.report(KindCold, ErrClosed)
		return e
	}
	stop := context.AfterFunc(c.scope, cancel)

	go func() {
		defer stop()
		defer close(e.done)
		defer cancel()
		defer e.recoverPanic()
		c.run(ctx, e, obs)
	}()
	return e
}

func (c *Cold[T]) run(ctx context.Context, e *Execution, obs Observer[T]) {
	for i := 0; i < c.count; i++ {
		if i > 0 && c.delay > 0 {
			timer := time.NewTimer(c.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return
		}
		v := c.produce(i)
		if !e.admit(ctx) {
			return
		}
		notify(c.opts, KindCold, obs, v)
		e.delivered.Add(1)
	}
	e.completed.Store(true)
}

// Execution is one subscriber's run of a Cold sequence.
type Execution struct {
	cancel    context.CancelFunc
	done      chan struct{}
	delivered atomic.Int64
	completed atomic.Bool

	mu      sync.Mutex
	stopped bool
	err     error
}

// admit decides under mu whether the next value may be delivered, so no
// delivery begins once Cancel has returned.
func (e *Execution) admit(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.stopped && ctx.Err() == nil
}

func (e *Execution) recoverPanic() {
	if r := recover(); r != nil {
		e.mu.Lock()
		e.err = &ObserverPanicError{Kind: KindCold, Recovered: r}
		e.mu.Unlock()
	}
}

func (e *Execution) Unsubscribe() {
	e.Cancel()
}

// Cancel stops production. A value waiting behind the delay, or still being
// produced, is never delivered.
func (e *Execution) Cancel() {
	e.mu.Lock()
	e.stopped = true
	e.mu.Unlock()
	e.cancel()
}

func (e *Execution) Active() bool {
	e.mu.Lock()
	stopped := e.stopped
	e.mu.Unlock()
	if stopped {
		return false
	}
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

func (e *Execution) Done() <-chan struct{} {
	return e.done
}

// Completed reports whether every value was delivered. It is false while
// running and after a cancellation.
func (e *Execution) Completed() bool {
	return e.completed.Load()
}

// Err returns the panic that ended the execution, if any.
func (e *Execution) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func (e *Execution) Delivered() int {
	return int(e.delivered.Load())
}

// Wait blocks until the execution ends or ctx is done.
func (e *Execution) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
