package metrics

import (
	"math"

	"github.com/san-kum/corona/internal/dynamo"
)

// ConservationDrift is the largest relative change of the state sum. Closed
// compartment models conserve their population, so any drift is integration
// error.
type ConservationDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewConservationDrift() *ConservationDrift {
	return &ConservationDrift{name: "population_drift"}
}

func (c *ConservationDrift) Name() string { return c.name }

func (c *ConservationDrift) Observe(x dynamo.State, t float64) {
	total := x.Sum()
	if c.samples == 0 {
		c.initial = total
	}
	c.samples++

	if c.initial != 0 {
		drift := math.Abs(total-c.initial) / math.Abs(c.initial)
		c.maxDrift = math.Max(c.maxDrift, drift)
	}
}

func (c *ConservationDrift) Value() float64 { return c.maxDrift }

func (c *ConservationDrift) Reset() {
	c.initial = 0
	c.maxDrift = 0
	c.samples = 0
}

// Capacity is the fraction of observed time points at which one compartment
// stays at or below a threshold, e.g. hospital beds.
type Capacity struct {
	name       string
	index      int
	threshold  float64
	violations int
	samples    int
}

func NewCapacity(index int, threshold float64) *Capacity {
	return &Capacity{name: "within_capacity", index: index, threshold: threshold}
}

func (c *Capacity) Name() string { return c.name }

func (c *Capacity) Observe(x dynamo.State, t float64) {
	if c.index >= len(x) {
		return
	}
	c.samples++
	if x[c.index] > c.threshold {
		c.violations++
	}
}

func (c *Capacity) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Capacity) Reset() {
	c.violations = 0
	c.samples = 0
}
