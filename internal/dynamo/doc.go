// Package dynamo provides the shared primitives for integrating first-order
// ordinary differential equations dx/dt = f(x, t).
//
// The package defines the types exchanged between the integrator and its
// callers:
//
//   - [State]: flat vector holding the instantaneous state
//   - [System]: derivative function f(x, t)
//   - [DeriveFunc]: adapter turning a plain function into a [System]
//   - [Trajectory]: one state per requested time point
//
// Time grids are built with [Linspace] or [Arange] and checked with
// [ValidateGrid].
//
// # Example
//
//	decay := dynamo.DeriveFunc(func(x dynamo.State, t float64) (dynamo.State, error) {
//		return dynamo.State{-x[0]}, nil
//	})
//	traj, err := integrators.Integrate(decay, dynamo.State{1}, dynamo.Linspace(0, 1, 11))
//
// # Thread Safety
//
// Nothing in this package holds process-wide mutable state. A [Trajectory] is
// owned by the call that produced it.
package dynamo
