package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is the instantaneous state of a system. Tensor-valued states are
// flattened row-major; the logical shape travels with the [Trajectory].
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

// Sum adds all entries; for closed compartment models it is the population.
func (s State) Sum() float64 {
	return floats.Sum(s)
}

func (s State) Sub(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Sub(result[:n], other[:n])
	return result
}

// System is a derivative function f(x, t) returning dx/dt with the same
// length as x. Implementations must not retain or mutate x.
type System interface {
	Derive(x State, t float64) (State, error)
}

// DeriveFunc adapts an ordinary function to the System interface.
type DeriveFunc func(x State, t float64) (State, error)

func (f DeriveFunc) Derive(x State, t float64) (State, error) {
	return f(x, t)
}

type Dimensioned interface {
	StateDim() int
}

// Labeled systems name each state entry (compartment names for epidemic models).
type Labeled interface {
	Labels() []string
}

// Solvable systems know their closed-form solution; used for verification.
type Solvable interface {
	System
	Exact(x0 State, t0, t float64) State
}

type Configurable interface {
	Params() map[string]float64
	SetParam(name string, value float64) error
}
