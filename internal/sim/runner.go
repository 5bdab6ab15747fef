package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/integrators"
)

// Runner integrates a system over a time grid in chunks so long runs can be
// cancelled, and feeds every row to metrics and observers.
type Runner struct {
	metrics   []Metric
	observers []Observer
}

func New() *Runner {
	return &Runner{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, sys dynamo.System, x0 dynamo.State, tt []float64, opts Options) (*Result, error) {
	order := integrators.Order(opts.Order)
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if err := dynamo.ValidateGrid(tt); err != nil {
		return nil, err
	}
	if opts.ChunkSize < 0 {
		return nil, fmt.Errorf("chunk size must not be negative, got %d", opts.ChunkSize)
	}

	chunk := opts.ChunkSize
	if chunk == 0 {
		chunk = len(tt)
	}

	traj := &dynamo.Trajectory{
		Times:  make([]float64, 0, len(tt)),
		States: make([]dynamo.State, 0, len(tt)),
		Shape:  []int{len(x0)},
	}
	result := &Result{Trajectory: traj, Metrics: make(map[string]float64)}

	for _, m := range r.metrics {
		m.Reset()
	}

	x := x0
	for start := 0; ; start += chunk {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		end := min(start+chunk, len(tt)-1)
		part, err := integrators.IntegrateOrder(sys, x, tt[start:end+1], order)
		if err != nil {
			return nil, err
		}
		result.Chunks++

		// Chunks share their boundary point; keep it once.
		first := 1
		if start == 0 {
			first = 0
		}
		for k := first; k < part.Len(); k++ {
			s := part.At(k)
			if opts.ValidateState && !s.IsValid() {
				return nil, &dynamo.SimulationError{Step: start + k, Time: part.Times[k], Wrapped: dynamo.ErrInvalidState}
			}
			traj.Times = append(traj.Times, part.Times[k])
			traj.States = append(traj.States, s)
			r.observe(s, part.Times[k])
		}

		x = part.Final()
		if end == len(tt)-1 {
			break
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (r *Runner) observe(x dynamo.State, t float64) {
	for _, m := range r.metrics {
		m.Observe(x, t)
	}
	for _, o := range r.observers {
		o.OnStep(x, t)
	}
}
