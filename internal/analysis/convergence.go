package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/corona/internal/dynamo"
	"github.com/san-kum/corona/internal/integrators"
)

type ConvergenceRow struct {
	Steps int
	Dt    float64
	Error float64
	// Observed is the empirical order against the previous row; NaN on the
	// first row or when either error is zero.
	Observed float64
}

// MaxConvergenceSteps bounds the step count of the finest level a study may
// request.
const MaxConvergenceSteps = 1 << 22

// FitsConvergenceBudget reports whether HalvingSteps(n0, levels) stays within
// MaxConvergenceSteps on its finest level.
func FitsConvergenceBudget(n0, levels int) bool {
	if n0 < 1 || levels < 1 || levels > 23 {
		return false
	}
	return n0 <= MaxConvergenceSteps>>(levels-1)
}

// HalvingSteps returns n0, 2*n0, 4*n0, ... with the given number of levels.
func HalvingSteps(n0, levels int) []int {
	steps := make([]int, levels)
	for i := range steps {
		steps[i] = n0 << i
	}
	return steps
}

// Convergence integrates sys from t0 to t1 with each step count and compares
// the final state with the exact solution.
func Convergence(sys dynamo.Solvable, x0 dynamo.State, t0, t1 float64, order integrators.Order, steps []int) ([]ConvergenceRow, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	if t0 == t1 {
		return nil, fmt.Errorf("convergence needs t0 != t1")
	}

	exact := sys.Exact(x0, t0, t1)
	rows := make([]ConvergenceRow, 0, len(steps))

	for i, n := range steps {
		if n < 1 {
			return nil, fmt.Errorf("step count must be positive, got %d", n)
		}
		if i > 0 && n <= steps[i-1] {
			return nil, fmt.Errorf("step counts must increase, got %d after %d", n, steps[i-1])
		}

		traj, err := integrators.IntegrateOrder(sys, x0, dynamo.Linspace(t0, t1, n+1), order)
		if err != nil {
			return nil, err
		}

		row := ConvergenceRow{
			Steps:    n,
			Dt:       (t1 - t0) / float64(n),
			Error:    traj.Final().Sub(exact).Norm(),
			Observed: math.NaN(),
		}
		if i > 0 {
			prev := rows[i-1]
			if prev.Error > 0 && row.Error > 0 {
				row.Observed = math.Log(prev.Error/row.Error) / math.Log(float64(n)/float64(prev.Steps))
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
