// Package automation runs scripted sequences of experiments from YAML.
package automation

import (
	"context"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/corona/internal/config"
	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/experiment"
	"github.com/san-kum/corona/internal/sim"
	"github.com/san-kum/corona/internal/storage"
)

// Scenario is a named list of runs executed in order.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Preset, when set, is the base the inline fields
// are layered on.
type ScenarioStep struct {
	Name          string `yaml:"name"`
	Preset        string `yaml:"preset,omitempty"`
	config.Config `yaml:",inline"`
}

type StepResult struct {
	Name   string
	RunID  string
	Result *sim.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}
	return &scenario, nil
}

// StepConfig resolves a step into a validated run configuration.
func (s ScenarioStep) StepConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Model, s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s", s.Model, s.Preset)
		}
	}

	cfg.Model = s.Model
	if s.Order != 0 {
		cfg.Order = s.Order
	}
	if s.T0 != 0 || s.T1 != 0 {
		cfg.T0, cfg.T1 = s.T0, s.T1
	}
	if s.Points != 0 {
		cfg.Points = s.Points
	}
	if s.Date0 != "" {
		cfg.Date0 = s.Date0
	}
	if s.ChunkSize != 0 {
		cfg.ChunkSize = s.ChunkSize
	}
	if s.Capacity != 0 {
		cfg.Capacity = s.Capacity
	}
	cfg.ValidateState = cfg.ValidateState || s.ValidateState
	cfg.Params = merge(cfg.Params, s.Params)
	cfg.InitState = merge(cfg.InitState, s.InitState)

	return cfg, cfg.Validate()
}

func merge(base, over map[string]float64) map[string]float64 {
	if len(over) == 0 {
		return base
	}
	out := make(map[string]float64, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// RunScenario executes every step in order. Runs are saved when st is non-nil.
// It stops at the first failing step and returns the results so far.
func RunScenario(ctx context.Context, scenario *Scenario, reg *experiment.Registry, st *storage.Store, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		if logger != nil {
			logger.Printf("running step %d/%d: %s (%s)", i+1, len(scenario.Steps), name, step.Model)
		}

		cfg, err := step.StepConfig()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg, reg)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		out := StepResult{Name: name, Result: res}
		if st != nil {
			out.RunID, err = st.Save(storage.RunMetadata{
				Model:   cfg.Model,
				Order:   cfg.Order,
				T0:      cfg.T0,
				T1:      cfg.T1,
				Points:  cfg.Points,
				Date0:   cfg.Date0,
				Labels:  exp.Model().Labels(),
				Params:  exp.Model().Params(),
				Metrics: res.Metrics,
			}, res.Trajectory)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

// ParameterSweep describes evenly spaced values of one parameter.
type ParameterSweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
}

func (p ParameterSweep) Values() ([]float64, error) {
	if p.Steps < 1 {
		return nil, fmt.Errorf("sweep %s needs at least one step", p.Param)
	}
	return dynamo.Linspace(p.Min, p.Max, p.Steps), nil
}
