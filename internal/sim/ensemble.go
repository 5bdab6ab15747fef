package sim

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/corona/internal/dynamo"
)

// Job is one independent trajectory request.
type Job struct {
	Name    string
	System  dynamo.System
	X0      dynamo.State
	Times   []float64
	Metrics func() []Metric
}

// Ensemble runs independent jobs in parallel. Each job gets its own Runner,
// so jobs share nothing.
type Ensemble struct {
	opts    Options
	workers int
}

func NewEnsemble(opts Options, workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{opts: opts, workers: workers}
}

// Run returns results in job order. The first failure cancels the jobs still
// running and is returned.
func (e *Ensemble) Run(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, job := range jobs {
		g.Go(func() error {
			r := New()
			if job.Metrics != nil {
				for _, m := range job.Metrics() {
					r.AddMetric(m)
				}
			}
			res, err := r.Run(ctx, job.System, job.X0, job.Times, e.opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
