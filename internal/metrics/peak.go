package metrics

import (
	"math"
	"strings"

	"github.com/san-kum/corona/internal/dynamo"
)

// Peak tracks the largest value of one compartment and when it occurred.
type Peak struct {
	name  string
	index int
	value float64
	time  float64
	seen  bool
}

func NewPeak(label string, index int) *Peak {
	return &Peak{name: "peak_" + strings.ToLower(label), index: index}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.index >= len(x) {
		return
	}
	if !p.seen || x[p.index] > p.value {
		p.value, p.time, p.seen = x[p.index], t, true
	}
}

func (p *Peak) Value() float64 {
	if !p.seen {
		return math.NaN()
	}
	return p.value
}

// Time is when the peak was first reached.
func (p *Peak) Time() float64 { return p.time }

func (p *Peak) Reset() {
	p.value, p.time, p.seen = 0, 0, false
}

// Final records the last observed value of one compartment.
type Final struct {
	name  string
	index int
	value float64
}

func NewFinal(label string, index int) *Final {
	return &Final{name: "final_" + strings.ToLower(label), index: index, value: math.NaN()}
}

func (f *Final) Name() string { return f.name }

func (f *Final) Observe(x dynamo.State, t float64) {
	if f.index < len(x) {
		f.value = x[f.index]
	}
}

func (f *Final) Value() float64 { return f.value }

func (f *Final) Reset() { f.value = math.NaN() }
