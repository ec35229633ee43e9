package lifecycle_test

import (
	"sync"
	"testing"

	"github.com/delaneyj/flowparty/flow"
	"github.com/delaneyj/flowparty/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should fan lifecycle signals out to every bound gate
func TestOwnerFansOut(t *testing.T) {
	o := lifecycle.NewOwner(lifecycle.Active)
	live := flow.NewReplayState("Hello World")
	events := flow.NewBus[string]()

	liveRec, eventRec := &recorder[string]{}, &recorder[string]{}
	lifecycle.Bind[string](o, live, liveRec.observe)
	lifecycle.Bind[string](o, events, eventRec.observe)
	assert.Equal(t, 2, o.Gates())

	o.Stop()
	live.Write("LiveData")
	events.Emit("SharedFlow")
	assert.Equal(t, []string{"Hello World"}, liveRec.values)
	assert.Empty(t, eventRec.values)

	o.Start()
	assert.Equal(t, []string{"Hello World", "LiveData"}, liveRec.values)
	assert.Empty(t, eventRec.values)
}

// should destroy every gate and unsubscribe from every source
func TestOwnerDestroy(t *testing.T) {
	o := lifecycle.NewOwner(lifecycle.Active)
	live := flow.NewReplayState(0)
	events := flow.NewBus[int]()
	g1 := lifecycle.Bind[int](o, live, func(int) {})
	g2 := lifecycle.Bind[int](o, events, func(int) {})

	o.Destroy()
	o.Destroy()
	o.Start()

	assert.Equal(t, lifecycle.Destroyed, o.State())
	assert.Equal(t, lifecycle.Destroyed, g1.State())
	assert.Equal(t, lifecycle.Destroyed, g2.State())
	assert.Equal(t, 0, o.Gates())
	assert.Equal(t, 0, live.Subscribers())
	assert.Equal(t, 0, events.Subscribers())
}

// should forget gates destroyed on their own
func TestOwnerForgetsDestroyedGate(t *testing.T) {
	o := lifecycle.NewOwner(lifecycle.Inactive)
	g := lifecycle.Bind[int](o, flow.NewBus[int](), func(int) {})
	require.Equal(t, 1, o.Gates())
	assert.Equal(t, lifecycle.Inactive, g.State())

	g.Destroy()
	assert.Equal(t, 0, o.Gates())
}

// should drop and report binds to a destroyed owner
func TestOwnerBindAfterDestroy(t *testing.T) {
	var reported []error
	o := lifecycle.NewOwner(lifecycle.Active, lifecycle.WithOnError(func(err error) {
		reported = append(reported, err)
	}))
	o.Destroy()

	s := flow.NewReplayState("x")
	g := lifecycle.Bind[string](o, s, func(string) { t.Fail() })
	assert.Equal(t, lifecycle.Destroyed, g.State())
	assert.Equal(t, 0, s.Subscribers())
	assert.Equal(t, []error{lifecycle.ErrDestroyed}, reported)
}

// should survive a rotation: destroy the owner, bind a new one to the same sources
func TestOwnerRotation(t *testing.T) {
	live := flow.NewReplayState("Hello World")
	events := flow.NewBus[string]()

	first := lifecycle.NewOwner(lifecycle.Active)
	lifecycle.Bind[string](first, events, func(string) {})
	live.Write("LiveData")
	events.Emit("SharedFlow")
	first.Destroy()

	second := lifecycle.NewOwner(lifecycle.Active)
	liveRec, eventRec := &recorder[string]{}, &recorder[string]{}
	lifecycle.Bind[string](second, live, liveRec.observe)
	lifecycle.Bind[string](second, events, eventRec.observe)

	assert.Equal(t, []string{"LiveData"}, liveRec.values)
	assert.Empty(t, eventRec.values)
}

// should not keep gates that die while binding races a destroy
func TestOwnerBindRacingDestroy(t *testing.T) {
	for round := 0; round < 50; round++ {
		var mu sync.Mutex
		var gates []*lifecycle.Gate[int]
		o := lifecycle.NewOwner(lifecycle.Active)
		s := flow.NewReplayState(0)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				g := lifecycle.Bind[int](o, s, func(int) {})
				mu.Lock()
				gates = append(gates, g)
				mu.Unlock()
			}()
		}
		o.Destroy()
		wg.Wait()

		require.Equal(t, 0, o.Gates(), "round %d", round)
		assert.Equal(t, 0, s.Subscribers())
		for _, g := range gates {
			assert.Equal(t, lifecycle.Destroyed, g.State())
		}
	}
}
