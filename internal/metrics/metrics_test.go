package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/corona/internal/dynamo"
)

func TestPeak(t *testing.T) {
	p := NewPeak("Infected", 1)
	if p.Name() != "peak_infected" {
		t.Errorf("unexpected name %s", p.Name())
	}
	if !math.IsNaN(p.Value()) {
		t.Error("peak of nothing should be NaN")
	}

	rows := []dynamo.State{{9, 1}, {8, 3}, {7, 5}, {6, 5}, {5, 2}}
	for k, x := range rows {
		p.Observe(x, float64(k))
	}

	if p.Value() != 5 {
		t.Errorf("expected peak 5, got %v", p.Value())
	}
	if p.Time() != 2 {
		t.Errorf("expected peak at t=2, got %v", p.Time())
	}

	p.Reset()
	p.Observe(dynamo.State{0, -3}, 10)
	if p.Value() != -3 || p.Time() != 10 {
		t.Errorf("reset did not clear peak: %v at %v", p.Value(), p.Time())
	}
}

func TestFinal(t *testing.T) {
	f := NewFinal("Fatalities", 2)
	f.Observe(dynamo.State{1, 2, 3}, 0)
	f.Observe(dynamo.State{1, 2, 4}, 1)
	f.Observe(dynamo.State{1}, 2)

	if f.Value() != 4 {
		t.Errorf("expected 4, got %v", f.Value())
	}
	f.Reset()
	if !math.IsNaN(f.Value()) {
		t.Error("expected NaN after reset")
	}
}

func TestConservationDrift(t *testing.T) {
	c := NewConservationDrift()
	c.Observe(dynamo.State{50, 50}, 0)
	c.Observe(dynamo.State{60, 41}, 1)
	c.Observe(dynamo.State{70, 30}, 2)

	if math.Abs(c.Value()-0.01) > 1e-12 {
		t.Errorf("expected drift 0.01, got %v", c.Value())
	}

	c.Reset()
	if c.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestCapacity(t *testing.T) {
	c := NewCapacity(0, 10)
	if c.Value() != 1 {
		t.Error("no samples should count as within capacity")
	}

	for _, v := range []float64{5, 10, 11, 20} {
		c.Observe(dynamo.State{v}, 0)
	}
	if c.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", c.Value())
	}
}
