package integrators

import "github.com/san-kum/corona/internal/dynamo"

// Integrate solves dx/dt = f(x, t) over tt with classical RK4 and returns one
// state per time point. Trajectory row 0 is a copy of x0.
func Integrate(sys dynamo.System, x0 dynamo.State, tt []float64) (*dynamo.Trajectory, error) {
	return IntegrateOrder(sys, x0, tt, DefaultOrder)
}

// IntegrateOrder is Integrate with a caller-selected order. Any error from
// sys aborts the run and no partial trajectory is returned.
func IntegrateOrder(sys dynamo.System, x0 dynamo.State, tt []float64, order Order) (*dynamo.Trajectory, error) {
	rk, err := NewRK(order)
	if err != nil {
		return nil, err
	}
	if err := dynamo.ValidateGrid(tt); err != nil {
		return nil, err
	}

	n := len(x0)
	buf := make([]float64, len(tt)*n)
	traj := &dynamo.Trajectory{
		Times:  append([]float64(nil), tt...),
		States: make([]dynamo.State, len(tt)),
		Shape:  []int{n},
	}
	for k := range traj.States {
		traj.States[k] = dynamo.State(buf[k*n : (k+1)*n : (k+1)*n])
	}
	copy(traj.States[0], x0)

	for k := 0; k < len(tt)-1; k++ {
		dt := tt[k+1] - tt[k]
		if err := rk.StepInto(traj.States[k+1], sys, traj.States[k], tt[k], dt); err != nil {
			return nil, err
		}
	}

	return traj, nil
}
