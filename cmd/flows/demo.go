package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/delaneyj/flowparty/flow"
	"github.com/delaneyj/flowparty/lifecycle"
	"github.com/delaneyj/flowparty/view"
	"github.com/delaneyj/flowparty/viewmodel"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

type delivery struct {
	at     time.Duration
	screen int
	widget view.Widget
	kind   flow.Kind
	value  string
}

type journal struct {
	mu    sync.Mutex
	start time.Time
	rows  []delivery
}

func (j *journal) add(d delivery) {
	j.mu.Lock()
	defer j.mu.Unlock()
	d.at = time.Since(j.start)
	j.rows = append(j.rows, d)
}

// activity is one incarnation of the screen. A rotation destroys it and
// launches a fresh one against the same controller.
type activity struct {
	id      int
	owner   *lifecycle.Owner
	screen  *view.Screen
	journal *journal
	paint   io.Writer
}

func launch(id int, vm *viewmodel.Controller, j *journal, paint io.Writer) *activity {
	a := &activity{
		id:      id,
		owner:   lifecycle.NewOwner(lifecycle.Inactive),
		screen:  view.NewScreen(view.Frame{}),
		journal: j,
		paint:   paint,
	}
	lifecycle.Bind[string](a.owner, vm.Replay(), a.observer(view.WidgetLive, flow.KindHotReplay))
	lifecycle.Bind[string](a.owner, vm.Distinct(), a.observer(view.WidgetState, flow.KindHotReplay))
	lifecycle.Bind[string](a.owner, vm.Events(), a.observer(view.WidgetSnackbar, flow.KindHot))
	a.owner.Start()
	return a
}

func (a *activity) observer(w view.Widget, kind flow.Kind) flow.Observer[string] {
	set := a.screen.Observer(w)
	return func(text string) {
		set(text)
		a.journal.add(delivery{screen: a.id, widget: w, kind: kind, value: text})
		if a.paint != nil {
			if _, err := a.screen.Render(a.paint); err != nil {
				log.Printf("screen %d: %v", a.id, err)
			}
		}
	}
}

// collect binds a cold run to this screen and closes the returned channel
// after the last value arrives.
func (a *activity) collect(src flow.Source[string], count int) <-chan struct{} {
	done := make(chan struct{})
	if count <= 0 {
		close(done)
		return done
	}
	seen := 0
	show := a.observer(view.WidgetFlow, flow.KindCold)
	lifecycle.Bind[string](a.owner, src, func(text string) {
		show(text)
		seen++
		if seen == count {
			close(done)
		}
	})
	return done
}

func (a *activity) destroy() {
	a.owner.Stop()
	a.owner.Destroy()
}

func demo(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Demo started")
	defer func() {
		log.Printf("Demo finished in %v", time.Since(start))
	}()

	cfg := viewmodel.DefaultConfig()
	cfg.SequenceCount = int(cmd.Uint(countKey))
	cfg.SequenceDelay = cmd.Duration(delayKey)
	cfg.OnError = func(from flow.Kind, err error) {
		log.Printf("%s: %v", from, err)
	}
	vm := viewmodel.New(cfg)
	defer vm.Close()

	var paint io.Writer
	if cmd.Bool(screenKey) {
		paint = os.Stdout
	}
	j := &journal{start: start}

	a := launch(1, vm, j, paint)

	log.Printf("clicking live, state and shared buttons twice")
	vm.TriggerReplay()
	vm.TriggerReplay()
	vm.TriggerDistinct()
	vm.TriggerDistinct()
	vm.TriggerEvent()
	vm.TriggerEvent()

	log.Printf("clicking flow, rotating mid-sequence")
	a.collect(vm.TriggerColdSequence(), cfg.SequenceCount)
	if err := pause(ctx, cfg.SequenceDelay+cfg.SequenceDelay/2); err != nil {
		return err
	}
	a.destroy()
	a = launch(2, vm, j, paint)
	defer a.destroy()

	log.Printf("clicking shared and flow on the new screen")
	vm.TriggerEvent()
	done := a.collect(vm.TriggerColdSequence(), cfg.SequenceCount)
	timeout := time.Duration(cfg.SequenceCount+1)*cfg.SequenceDelay + time.Second
	select {
	case <-done:
	case <-time.After(timeout):
		return fmt.Errorf("cold sequence did not finish within %v", timeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	report(os.Stdout, j)
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func report(w io.Writer, j *journal) {
	j.mu.Lock()
	defer j.mu.Unlock()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"delivery", "at", "screen", "widget", "kind", "value"})
	for i, d := range j.rows {
		table.Append([]string{
			humanize.Ordinal(i + 1),
			d.at.Round(time.Millisecond).String(),
			fmt.Sprint(d.screen),
			d.widget.String(),
			d.kind.String(),
			d.value,
		})
	}
	table.SetFooter([]string{"", "", "", "", "total", humanize.Comma(int64(len(j.rows)))})
	table.Render()
}
