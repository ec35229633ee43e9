package flow_test

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/delaneyj/flowparty/flow"
	"github.com/stretchr/testify/assert"
)

// should drop emissions nobody is subscribed to
func TestBusDropsWithoutSubscribers(t *testing.T) {
	b := flow.NewBus[string]()
	assert.Equal(t, 0, b.Emit("SharedFlow"))

	rec := &recorder[string]{}
	b.Subscribe(rec.observe)
	assert.Empty(t, rec.values)

	assert.Equal(t, 1, b.Emit("SharedFlow"))
	assert.Equal(t, []string{"SharedFlow"}, rec.values)
}

// should multicast to every active subscriber in order
func TestBusMulticast(t *testing.T) {
	b := flow.NewBus[int]()
	order := []string{}
	first := b.Subscribe(func(int) { order = append(order, "first") })
	b.Subscribe(func(int) { order = append(order, "second") })

	assert.Equal(t, 2, b.Emit(1))
	first.Unsubscribe()
	assert.Equal(t, 1, b.Emit(2))
	assert.Equal(t, []string{"first", "second", "second"}, order)
	assert.Equal(t, flow.KindHot, b.Kind())
}

// should not deliver to a subscriber added during an emission
func TestBusSubscribeDuringEmit(t *testing.T) {
	b := flow.NewBus[int]()
	late := &recorder[int]{}
	b.Subscribe(func(v int) {
		if v == 1 {
			b.Subscribe(late.observe)
		}
	})
	b.Emit(1)
	assert.Empty(t, late.values)
	b.Emit(2)
	assert.Equal(t, []int{2}, late.values)
}

// should serialize concurrent emits so no observer sees interleaved deliveries
func TestBusConcurrentEmitsSerialized(t *testing.T) {
	b := flow.NewBus[int]()
	var (
		mu       sync.Mutex
		inFlight int
		maxSeen  int
		total    int
	)
	for i := 0; i < 4; i++ {
		b.Subscribe(func(int) {
			mu.Lock()
			inFlight++
			if inFlight > maxSeen {
				maxSeen = inFlight
			}
			total++
			mu.Unlock()

			time.Sleep(50 * time.Microsecond)
			runtime.Gosched()

			mu.Lock()
			inFlight--
			mu.Unlock()
		})
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			b.Emit(v)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Equal(t, 200, total)
}

// should report subscriptions made after close
func TestBusSubscribeAfterClose(t *testing.T) {
	var reported []error
	b := flow.NewBus[int](flow.WithOnError(func(from flow.Kind, err error) {
		reported = append(reported, err)
	}))
	b.Close()
	b.Close()

	sub := b.Subscribe(func(int) { t.Fail() })
	assert.False(t, sub.Active())
	assert.Equal(t, 0, b.Emit(1))
	assert.Equal(t, []error{flow.ErrClosed}, reported)
}
