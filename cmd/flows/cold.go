package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/delaneyj/flowparty/flow"
	"github.com/delaneyj/flowparty/viewmodel"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

func cold(ctx context.Context, cmd *cli.Command) error {
	cfg := viewmodel.DefaultConfig()
	cfg.SequenceCount = int(cmd.Uint(countKey))
	cfg.SequenceDelay = cmd.Duration(delayKey)
	collectors := int(cmd.Uint(collectorsKey))

	vm := viewmodel.New(cfg)
	defer vm.Close()

	log.Printf("Starting %s cold collectors of %s values every %v",
		humanize.Comma(int64(collectors)), humanize.Comma(int64(cfg.SequenceCount)), cfg.SequenceDelay)

	type result struct {
		first, last string
		values      int
		completed   bool
		gaps        *tachymeter.Tachymeter
	}
	results := make([]*result, collectors)
	runs := make([]*flow.Execution, collectors)

	var wg sync.WaitGroup
	for i := range results {
		r := &result{gaps: tachymeter.New(&tachymeter.Config{Size: max(cfg.SequenceCount, 1)})}
		results[i] = r

		var prev time.Time
		sub := vm.TriggerColdSequence().Subscribe(func(v string) {
			now := time.Now()
			if r.values == 0 {
				r.first = v
			} else {
				r.gaps.AddTime(now.Sub(prev))
			}
			prev, r.last = now, v
			r.values++
		})
		run, ok := sub.(*flow.Execution)
		if !ok {
			return fmt.Errorf("collector %d: unexpected subscription %T", i, sub)
		}
		runs[i] = run

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run.Wait(ctx); err != nil {
				run.Cancel()
			}
		}()
	}
	wg.Wait()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"collector", "values", "first", "last", "completed", "avg gap", "min gap", "max gap"})
	for i, r := range results {
		r.completed = runs[i].Completed()
		row := []string{
			humanize.Ordinal(i + 1),
			humanize.Comma(int64(r.values)),
			r.first,
			r.last,
			fmt.Sprint(r.completed),
			"-", "-", "-",
		}
		if r.values > 1 {
			calc := r.gaps.Calc()
			row[5] = calc.Time.Avg.Round(time.Millisecond).String()
			row[6] = calc.Time.Min.Round(time.Millisecond).String()
			row[7] = calc.Time.Max.Round(time.Millisecond).String()
		}
		table.Append(row)
	}
	table.Render()
	return ctx.Err()
}
