package experiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/corona/internal/config"
	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/metrics"
	"github.com/san-kum/corona/internal/models"
	"github.com/san-kum/corona/internal/sim"
)

// Experiment is a configured model ready to integrate.
type Experiment struct {
	cfg    *config.Config
	model  models.Model
	x0     dynamo.State
	runner *sim.Runner
}

// New resolves the model, applies parameters and builds the initial state.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := reg.GetModel(cfg.Model)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyParams(model); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Model, err)
	}
	x0, err := cfg.InitialState(model)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Model, err)
	}

	e := &Experiment{cfg: cfg, model: model, x0: x0, runner: sim.New()}
	for _, m := range e.metrics() {
		e.runner.AddMetric(m)
	}
	return e, nil
}

func (e *Experiment) metrics() []sim.Metric {
	out := DefaultMetrics(e.model)
	if e.cfg.Capacity > 0 {
		if i := capacityIndex(e.model.Labels()); i >= 0 {
			out = append(out, metrics.NewCapacity(i, e.cfg.Capacity))
		}
	}
	return out
}

func capacityIndex(labels []string) int {
	infected := -1
	for i, l := range labels {
		switch strings.ToLower(l) {
		case "hospitalized":
			return i
		case "infected":
			infected = i
		}
	}
	return infected
}

func (e *Experiment) Model() models.Model { return e.model }

func (e *Experiment) InitialState() dynamo.State { return e.x0.Clone() }

func (e *Experiment) Options() sim.Options {
	return sim.Options{
		Order:         e.cfg.Order,
		ChunkSize:     e.cfg.ChunkSize,
		ValidateState: e.cfg.ValidateState,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.runner.Run(ctx, e.model, e.x0, e.cfg.TimeGrid(), e.Options())
}

// GetRunner returns the underlying runner for adding observers.
func (e *Experiment) GetRunner() *sim.Runner {
	return e.runner
}

// Job packages the experiment for an ensemble run.
func (e *Experiment) Job(name string) sim.Job {
	return sim.Job{
		Name:    name,
		System:  e.model,
		X0:      e.x0,
		Times:   e.cfg.TimeGrid(),
		Metrics: e.metrics,
	}
}

// DefaultMetrics tracks the final value of every compartment and the peak of
// the infectious ones. Models with a population also get a conservation check.
func DefaultMetrics(m models.Model) []sim.Metric {
	var out []sim.Metric
	for i, label := range m.Labels() {
		out = append(out, metrics.NewFinal(label, i))
		switch strings.ToLower(label) {
		case "infected", "hospitalized", "exposed":
			out = append(out, metrics.NewPeak(label, i))
		}
	}
	if _, ok := m.Params()["population"]; ok {
		out = append(out, metrics.NewConservationDrift())
	}
	return out
}
