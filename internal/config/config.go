package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/integrators"
	"github.com/san-kum/corona/internal/models"
)

const (
	DefaultModel  = "seir"
	DefaultOrder  = int(integrators.DefaultOrder)
	DefaultT1     = 200.0
	DefaultPoints = 201

	// DateLayout is the accepted format of date0.
	DateLayout = "2006-01-02"
)

type Config struct {
	Model string  `yaml:"model"`
	Order int     `yaml:"order"`
	T0    float64 `yaml:"t0"`
	T1    float64 `yaml:"t1"`
	// Points is the number of time points, endpoints included.
	Points int `yaml:"points"`
	// Date0 maps T0 to a calendar day; one time unit is one day.
	Date0 string `yaml:"date0,omitempty"`

	InitState     map[string]float64 `yaml:"init_state,omitempty"`
	Params        map[string]float64 `yaml:"params,omitempty"`
	ChunkSize     int                `yaml:"chunk_size,omitempty"`
	ValidateState bool               `yaml:"validate_state"`
	// Capacity bounds the Hospitalized (or else Infected) compartment for the
	// within_capacity metric; zero disables it.
	Capacity float64 `yaml:"capacity,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:         DefaultModel,
		Order:         DefaultOrder,
		T0:            0,
		T1:            DefaultT1,
		Points:        DefaultPoints,
		ValidateState: true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if err := integrators.Order(c.Order).Validate(); err != nil {
		return err
	}
	if c.Points < 1 {
		return fmt.Errorf("points must be at least 1, got %d", c.Points)
	}
	if c.Points > 1 && c.T0 == c.T1 {
		return fmt.Errorf("t0 and t1 must differ when points > 1")
	}
	if c.Capacity < 0 {
		return fmt.Errorf("capacity must not be negative, got %g", c.Capacity)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must not be negative, got %d", c.ChunkSize)
	}
	if c.Date0 != "" {
		if _, err := time.Parse(DateLayout, c.Date0); err != nil {
			return fmt.Errorf("date0: %w", err)
		}
	}
	return nil
}

func (c *Config) TimeGrid() []float64 {
	return dynamo.Linspace(c.T0, c.T1, c.Points)
}

// Dates returns the calendar day of each grid point, or nil when Date0 is unset.
func (c *Config) Dates() ([]time.Time, error) {
	if c.Date0 == "" {
		return nil, nil
	}
	d0, err := time.Parse(DateLayout, c.Date0)
	if err != nil {
		return nil, fmt.Errorf("date0: %w", err)
	}
	tt := c.TimeGrid()
	dates := make([]time.Time, len(tt))
	for i, t := range tt {
		dates[i] = d0.Add(time.Duration((t - c.T0) * float64(24*time.Hour)))
	}
	return dates, nil
}

// ApplyParams sets every configured parameter on m, in name order.
func (c *Config) ApplyParams(m dynamo.Configurable) error {
	names := make([]string, 0, len(c.Params))
	for name := range c.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := m.SetParam(name, c.Params[name]); err != nil {
			return err
		}
	}
	return nil
}

// InitialState starts from the model default and overrides compartments by
// label (case-insensitive). When the model has a Susceptible compartment and
// a population parameter and Susceptible is not given, it absorbs the rest of
// the population.
func (c *Config) InitialState(m models.Model) (dynamo.State, error) {
	x0 := m.DefaultState()
	labels := m.Labels()

	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[strings.ToLower(l)] = i
	}

	for label, v := range c.InitState {
		i, ok := index[strings.ToLower(label)]
		if !ok {
			return nil, fmt.Errorf("unknown compartment %q (have %v)", label, labels)
		}
		x0[i] = v
	}

	s, hasS := index["susceptible"]
	pop, hasPop := m.Params()["population"]
	if hasS && hasPop && len(c.InitState) > 0 && !c.hasInit("susceptible") {
		rest := 0.0
		for i, v := range x0 {
			if i != s {
				rest += v
			}
		}
		if rest > pop {
			return nil, fmt.Errorf("%w: initial compartments hold %g of a population of %g", dynamo.ErrParameterBounds, rest, pop)
		}
		x0[s] = pop - rest
	}

	return x0, nil
}

func (c *Config) hasInit(label string) bool {
	for l := range c.InitState {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.InitState = cloneMap(c.InitState)
	out.Params = cloneMap(c.Params)
	return &out
}

func cloneMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
