package integrators

import (
	"fmt"

	"github.com/san-kum/corona/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// RK advances a state by one fixed step with the selected explicit
// Runge-Kutta formula. Stage buffers are reused between steps, so an RK must
// not be shared between goroutines.
type RK struct {
	order          Order
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK(order Order) (*RK, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &RK{order: order}, nil
}

func (r *RK) Order() Order { return r.order }

func (r *RK) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

// stage stores dt*f(x, t) in k. Errors from f are returned untouched.
func stage(sys dynamo.System, k, x dynamo.State, t, dt float64) error {
	dx, err := sys.Derive(x, t)
	if err != nil {
		return err
	}
	if len(dx) != len(k) {
		return fmt.Errorf("%w: derivative has %d entries, state has %d", dynamo.ErrDimensionMismatch, len(dx), len(k))
	}
	floats.ScaleTo(k, dt, dx)
	return nil
}

// Step returns the state at t+dt. x is not modified.
func (r *RK) Step(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, error) {
	next := make(dynamo.State, len(x))
	if err := r.StepInto(next, sys, x, t, dt); err != nil {
		return nil, err
	}
	return next, nil
}

// StepInto writes the state at t+dt into dst, which must have len(x)
// entries and must not alias x.
func (r *RK) StepInto(dst dynamo.State, sys dynamo.System, x dynamo.State, t, dt float64) error {
	n := len(x)
	if len(dst) != n {
		return fmt.Errorf("%w: destination has %d entries, state has %d", dynamo.ErrDimensionMismatch, len(dst), n)
	}
	r.ensureScratch(n)
	k1, k2, k3, k4, s := r.k1, r.k2, r.k3, r.k4, r.scratch

	if err := stage(sys, k1, x, t, dt); err != nil {
		return err
	}
	if r.order == Euler {
		floats.AddTo(dst, x, k1)
		return nil
	}

	floats.AddScaledTo(s, x, 0.5, k1)
	if err := stage(sys, k2, s, t+dt/2, dt); err != nil {
		return err
	}

	switch r.order {
	case Midpoint:
		floats.AddTo(dst, x, k2)

	case Kutta3:
		// Third point is extrapolated from k1 and k2: x + 2*k2 - k1.
		floats.AddScaledTo(s, x, 2, k2)
		floats.Sub(s, k1)
		if err := stage(sys, k3, s, t+dt, dt); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			dst[i] = x[i] + (k1[i]+4*k2[i]+k3[i])/6
		}

	case RK4:
		floats.AddScaledTo(s, x, 0.5, k2)
		if err := stage(sys, k3, s, t+dt/2, dt); err != nil {
			return err
		}
		floats.AddTo(s, x, k3)
		if err := stage(sys, k4, s, t+dt, dt); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			dst[i] = x[i] + (k1[i]+2*(k2[i]+k3[i])+k4[i])/6
		}
	}

	return nil
}

// Step advances x by dt with a one-off stepper. Safe for concurrent use.
func Step(sys dynamo.System, x dynamo.State, t, dt float64, order Order) (dynamo.State, error) {
	rk, err := NewRK(order)
	if err != nil {
		return nil, err
	}
	return rk.Step(sys, x, t, dt)
}
