package sweep

import (
	"context"
	"fmt"
	"io"

	"github.com/gosuri/uilive"

	"github.com/zeu5/game-dynamics/analysis"
	"github.com/zeu5/game-dynamics/core"
)

// worker runs experiments pulled from a shared channel.
type worker struct {
	id int
}

type work struct {
	experiment *Experiment
	analyzers  map[string]analysis.AnalyzerConstructor
	writer     io.Writer
}

func (w *worker) run(ctx context.Context, workCh <-chan *work, resultsCh chan<- *Result) {
	for {
		select {
		case <-ctx.Done():
			return
		case wk, more := <-workCh:
			if !more {
				return
			}
			resultsCh <- w.runWork(ctx, wk)
		}
	}
}

func (w *worker) runWork(ctx context.Context, wk *work) *Result {
	e := wk.experiment
	fmt.Fprintf(wk.writer, "Experiment: %s, Worker %d, Rounds: %d, Batch: %d\n", e.Name, w.id, e.Config.Rounds, e.Batch)

	pop := core.NewPopulation(e.Game.Spec(), e.Batch)
	streams := core.NewStreams(e.Seed, e.Batch)
	if e.InitQ != nil {
		e.InitQ(pop, streams)
	}

	driver := core.NewDriver(e.Game, e.Policy, e.Update, e.Config)
	driver.Transforms = e.Transforms

	traj, err := driver.Run(ctx, pop, streams)
	result := &Result{
		Name:       e.Name,
		Trajectory: traj,
		Status:     driver.Status(),
		Datasets:   make(map[string]analysis.DataSet),
		Err:        err,
	}
	if err != nil {
		fmt.Fprintf(wk.writer, "Experiment: %s, Error: %v\n", e.Name, err)
		return result
	}

	for name, ac := range wk.analyzers {
		a := ac.NewAnalyzer()
		a.Analyze(traj)
		result.Datasets[name] = a.DataSet()
	}
	fmt.Fprintf(wk.writer, "Experiment: %s, Completed %d rounds\n", e.Name, traj.Len())
	return result
}

// Run executes all experiments over a pool of parallelism workers and then
// feeds the gathered datasets to the comparators. Experiments that failed
// (or never ran because the context was cancelled) contribute nil datasets.
func (s *Sweep) Run(ctx context.Context, parallelism int) map[string]*Result {
	if parallelism < 1 {
		parallelism = 1
	}

	writer := uilive.New()
	writer.Start()
	defer writer.Stop()

	workCh := make(chan *work)
	resultsCh := make(chan *Result, len(s.Experiments))

	for i := 0; i < parallelism; i++ {
		w := &worker{id: i}
		go w.run(ctx, workCh, resultsCh)
	}

	go func() {
		defer close(workCh)
		for _, e := range s.Experiments {
			select {
			case <-ctx.Done():
				return
			case workCh <- &work{
				experiment: e,
				analyzers:  s.Analyzers,
				writer:     writer.Newline(),
			}:
			}
		}
	}()

	results := make(map[string]*Result)
Gather:
	for range s.Experiments {
		select {
		case <-ctx.Done():
			break Gather
		case r := <-resultsCh:
			results[r.Name] = r
		}
	}

	names := make([]string, 0, len(s.Experiments))
	for _, e := range s.Experiments {
		names = append(names, e.Name)
	}
	for name, cmp := range s.Comparators {
		datasets := make([]analysis.DataSet, len(names))
		for i, n := range names {
			if r, ok := results[n]; ok && r.Err == nil {
				datasets[i] = r.Datasets[name]
			}
		}
		cmp.Compare(names, datasets)
	}

	return results
}
