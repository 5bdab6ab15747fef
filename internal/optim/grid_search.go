// Package optim searches model parameter grids for the run that minimises a
// metric.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/corona/internal/config"
	"github.com/san-kum/corona/internal/experiment"
	"github.com/san-kum/corona/internal/sim"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64, workers int) (*GridSearch, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("grid search needs at least one parameter")
	}
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges, workers: workers}, nil
}

// Points enumerates the cartesian product of the ranges, first parameter
// varying slowest.
func (g *GridSearch) Points() []map[string]float64 {
	var out []map[string]float64
	g.enumerate(0, make(map[string]float64, len(g.paramNames)), &out)
	return out
}

func (g *GridSearch) enumerate(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		point := make(map[string]float64, len(current))
		for k, v := range current {
			point[k] = v
		}
		*out = append(*out, point)
		return
	}
	for _, val := range g.ranges[depth] {
		current[g.paramNames[depth]] = val
		g.enumerate(depth+1, current, out)
	}
}

// Evaluation is one grid point and the metric it produced.
type Evaluation struct {
	Params map[string]float64
	Value  float64
}

// Search runs base once per grid point in parallel and returns the point with
// the smallest metric, plus every evaluation sorted by value.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, reg *experiment.Registry, metricName string) (Evaluation, []Evaluation, error) {
	points := g.Points()
	jobs := make([]sim.Job, len(points))

	for i, p := range points {
		cfg := base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(p))
		}
		for k, v := range p {
			cfg.Params[k] = v
		}
		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return Evaluation{}, nil, err
		}
		jobs[i] = exp.Job(fmt.Sprint(p))
	}

	opts := sim.Options{Order: base.Order, ChunkSize: base.ChunkSize, ValidateState: base.ValidateState}
	results, err := sim.NewEnsemble(opts, g.workers).Run(ctx, jobs)
	if err != nil {
		return Evaluation{}, nil, err
	}

	evals := make([]Evaluation, len(points))
	for i, res := range results {
		v, ok := res.Metrics[metricName]
		if !ok {
			return Evaluation{}, nil, fmt.Errorf("unknown metric %q", metricName)
		}
		evals[i] = Evaluation{Params: points[i], Value: v}
	}

	sort.SliceStable(evals, func(i, j int) bool { return less(evals[i].Value, evals[j].Value) })
	return evals[0], evals, nil
}

// less orders NaN last.
func less(a, b float64) bool {
	if math.IsNaN(b) {
		return !math.IsNaN(a)
	}
	return a < b
}
