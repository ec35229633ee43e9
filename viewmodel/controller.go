package viewmodel

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/delaneyj/flowparty/flow"
)

type Config struct {
	// Initial seeds both replaying states.
	Initial         string
	ReplayLiteral   string
	DistinctLiteral string
	EventLiteral    string
	// SequenceFormat is passed the zero based index of each cold value.
	SequenceFormat string
	SequenceCount  int
	SequenceDelay  time.Duration
	OnError        flow.OnErrorFunc
}

func DefaultConfig() Config {
	return Config{
		Initial:         "Hello World",
		ReplayLiteral:   "LiveData",
		DistinctLiteral: "StateFlow",
		EventLiteral:    "SharedFlow",
		SequenceFormat:  "Item %d",
		SequenceCount:   5,
		SequenceDelay:   time.Second,
	}
}

// Controller owns one primitive of each kind. Consumers mutate them only
// through the Trigger methods and observe them through the read-only views.
type Controller struct {
	cfg Config

	scope  context.Context
	cancel context.CancelFunc
	once   sync.Once

	replay   *flow.State[string]
	distinct *flow.State[string]
	events   *flow.Bus[string]
	sequence *flow.Cold[string]
}

func New(cfg Config) *Controller {
	var opts []flow.Option
	if cfg.OnError != nil {
		opts = append(opts, flow.WithOnError(cfg.OnError))
	}
	format := cfg.SequenceFormat
	scope, cancel := context.WithCancel(context.Background())

	return &Controller{
		cfg:      cfg,
		scope:    scope,
		cancel:   cancel,
		replay:   flow.NewReplayState(cfg.Initial, opts...),
		distinct: flow.NewDistinctState(cfg.Initial, opts...),
		events:   flow.NewBus[string](opts...),
		sequence: flow.NewColdSequence(cfg.SequenceCount, cfg.SequenceDelay, func(i int) string {
			return fmt.Sprintf(format, i)
		}, opts...).WithContext(scope),
	}
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) TriggerReplay() {
	c.replay.Write(c.cfg.ReplayLiteral)
}

func (c *Controller) TriggerDistinct() {
	c.distinct.Write(c.cfg.DistinctLiteral)
}

// TriggerColdSequence hands out a fresh handle on the cold sequence. Nothing
// is produced until the caller subscribes; each subscription is its own run
// and is cancelled when the controller closes.
func (c *Controller) TriggerColdSequence() flow.Source[string] {
	return c.sequence.WithContext(c.scope)
}

func (c *Controller) TriggerEvent() {
	c.events.Emit(c.cfg.EventLiteral)
}

// the views wrap the primitives so consumers cannot type-assert their way
// back to Write or Emit
type readView[T any] struct{ flow.ReadSource[T] }
type sourceView[T any] struct{ flow.Source[T] }

func (c *Controller) Replay() flow.ReadSource[string] {
	return readView[string]{c.replay}
}

func (c *Controller) Distinct() flow.ReadSource[string] {
	return readView[string]{c.distinct}
}

func (c *Controller) Events() flow.Source[string] {
	return sourceView[string]{c.events}
}

func (c *Controller) Sequence() flow.Source[string] {
	return c.sequence
}

// Close cancels running cold executions and drops every subscriber. State
// values remain readable.
func (c *Controller) Close() {
	c.once.Do(func() {
		c.cancel()
		c.replay.Close()
		c.distinct.Close()
		c.events.Close()
	})
}
