package models

import (
	"math"

	"github.com/san-kum/corona/internal/dynamo"
)

// Decay is dx/dt = -Rate*x.
type Decay struct {
	Rate float64
}

func NewDecay() *Decay { return &Decay{Rate: 1} }

func (d *Decay) StateDim() int              { return 1 }
func (d *Decay) Labels() []string           { return []string{"x"} }
func (d *Decay) DefaultState() dynamo.State { return dynamo.State{1} }

func (d *Decay) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if err := checkDim(x, 1); err != nil {
		return nil, err
	}
	return dynamo.State{-d.Rate * x[0]}, nil
}

func (d *Decay) Exact(x0 dynamo.State, t0, t float64) dynamo.State {
	return dynamo.State{x0[0] * math.Exp(-d.Rate*(t-t0))}
}

func (d *Decay) Params() map[string]float64 { return params{"rate": rate(&d.Rate)}.values() }

func (d *Decay) SetParam(name string, value float64) error {
	return params{"rate": rate(&d.Rate)}.set(name, value)
}

// Growth is dx/dt = Rate*x; with Rate 1 the solution is x0*e^t.
type Growth struct {
	Rate float64
}

func NewGrowth() *Growth { return &Growth{Rate: 1} }

func (g *Growth) StateDim() int              { return 1 }
func (g *Growth) Labels() []string           { return []string{"x"} }
func (g *Growth) DefaultState() dynamo.State { return dynamo.State{1} }

func (g *Growth) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if err := checkDim(x, 1); err != nil {
		return nil, err
	}
	return dynamo.State{g.Rate * x[0]}, nil
}

func (g *Growth) Exact(x0 dynamo.State, t0, t float64) dynamo.State {
	return dynamo.State{x0[0] * math.Exp(g.Rate*(t-t0))}
}

func (g *Growth) Params() map[string]float64 { return params{"rate": rate(&g.Rate)}.values() }

func (g *Growth) SetParam(name string, value float64) error {
	return params{"rate": rate(&g.Rate)}.set(name, value)
}

// Oscillator is an undamped spring-mass system: state (position, velocity).
type Oscillator struct {
	Stiffness float64
	Mass      float64
}

func NewOscillator() *Oscillator { return &Oscillator{Stiffness: 1, Mass: 1} }

func (o *Oscillator) StateDim() int              { return 2 }
func (o *Oscillator) Labels() []string           { return []string{"position", "velocity"} }
func (o *Oscillator) DefaultState() dynamo.State { return dynamo.State{1, 0} }

func (o *Oscillator) omega() float64 { return math.Sqrt(o.Stiffness / o.Mass) }

func (o *Oscillator) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if err := checkDim(x, 2); err != nil {
		return nil, err
	}
	return dynamo.State{x[1], -o.Stiffness / o.Mass * x[0]}, nil
}

func (o *Oscillator) Exact(x0 dynamo.State, t0, t float64) dynamo.State {
	w := o.omega()
	sin, cos := math.Sincos(w * (t - t0))
	return dynamo.State{
		x0[0]*cos + x0[1]/w*sin,
		-x0[0]*w*sin + x0[1]*cos,
	}
}

// Energy is conserved along exact trajectories.
func (o *Oscillator) Energy(x dynamo.State) float64 {
	return 0.5*o.Mass*x[1]*x[1] + 0.5*o.Stiffness*x[0]*x[0]
}

func (o *Oscillator) table() params {
	return params{"stiffness": positive(&o.Stiffness), "mass": positive(&o.Mass)}
}

func (o *Oscillator) Params() map[string]float64 { return o.table().values() }

func (o *Oscillator) SetParam(name string, value float64) error { return o.table().set(name, value) }

// Constant is dx/dt = Slope; every explicit Runge-Kutta order integrates it exactly.
type Constant struct {
	Slope float64
}

func NewConstant() *Constant { return &Constant{Slope: 1} }

func (c *Constant) StateDim() int              { return 1 }
func (c *Constant) Labels() []string           { return []string{"x"} }
func (c *Constant) DefaultState() dynamo.State { return dynamo.State{0} }

func (c *Constant) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	if err := checkDim(x, 1); err != nil {
		return nil, err
	}
	return dynamo.State{c.Slope}, nil
}

func (c *Constant) Exact(x0 dynamo.State, t0, t float64) dynamo.State {
	return dynamo.State{x0[0] + c.Slope*(t-t0)}
}

func (c *Constant) Params() map[string]float64 { return map[string]float64{"slope": c.Slope} }

func (c *Constant) SetParam(name string, value float64) error {
	if name != "slope" {
		return params{}.set(name, value)
	}
	c.Slope = value
	return nil
}
