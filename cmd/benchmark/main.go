package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/delaneyj/flowparty/flow"
	"github.com/delaneyj/flowparty/lifecycle"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
)

var profile = flag.String("cpuprofile", "default.pgo", "write a cpu profile here, empty to skip")

func main() {
	flag.Parse()

	if *profile != "" {
		f, err := os.Create(*profile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	benchmarkState("Replay State", flow.NewReplayState[int], false)
	benchmarkState("Distinct State", flow.NewDistinctState[int], false)

	benchmarkState("Replay State", flow.NewReplayState[int], true)
	benchmarkState("Distinct State", flow.NewDistinctState[int], true)
	benchmarkBus(true)
	benchmarkGated(true)
}

var (
	ww    = []int{1, 10, 100, 1_000}
	iters = 1_000
)

func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})
	return tbl
}

func appendCalc(tbl table.Writer, name string, tach *tachymeter.Tachymeter) {
	calc := tach.Calc()
	tbl.AppendRows([]table.Row{
		{
			name,
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
		},
	})
}

func pass(int) {}

func benchmarkState(title string, newState func(int, ...flow.Option) *flow.State[int], shouldRender bool) {
	tbl := newTable(title)

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		s := newState(0)
		for i := 0; i < w; i++ {
			s.Subscribe(pass)
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			// every other write repeats, which the distinct state skips
			s.Write((i + 1) / 2)
			tach.AddTime(time.Since(start))
		}
		appendCalc(tbl, fmt.Sprintf("write: %d subscribers", w), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}

func benchmarkBus(shouldRender bool) {
	tbl := newTable("Event Bus")

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		b := flow.NewBus[int]()
		for i := 0; i < w; i++ {
			b.Subscribe(pass)
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			b.Emit(i)
			tach.AddTime(time.Since(start))
		}
		appendCalc(tbl, fmt.Sprintf("emit: %d subscribers", w), tach)
	}

	if shouldRender {
		tbl.Render()
	}
}

// benchmarkGated measures writes fanned out through lifecycle gates, half of
// them bound to a stopped owner.
func benchmarkGated(shouldRender bool) {
	tbl := newTable("Gated Replay State")

	for _, w := range ww {
		tach := tachymeter.New(&tachymeter.Config{Size: iters})

		started := lifecycle.NewOwner(lifecycle.Active)
		stopped := lifecycle.NewOwner(lifecycle.Inactive)
		s := flow.NewReplayState(0)
		for i := 0; i < w; i++ {
			owner := started
			if i%2 == 1 {
				owner = stopped
			}
			lifecycle.Bind[int](owner, s, pass)
		}

		for i := 0; i < iters; i++ {
			start := time.Now()
			s.Write(i)
			tach.AddTime(time.Since(start))
		}
		appendCalc(tbl, fmt.Sprintf("write: %d gates", w), tach)

		started.Destroy()
		stopped.Destroy()
	}

	if shouldRender {
		tbl.Render()
	}
}
